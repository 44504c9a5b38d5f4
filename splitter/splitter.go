// Package splitter turns an io.Reader into a lazy sequence of byte
// chunks delimited by a pattern. The pattern is searched incrementally
// against an internal buffer, so the source never has to fit in memory;
// the buffer grows proportional to the largest run between delimiters.
package splitter

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/streamkit/resplit/splitter/buffer"
)

// Pattern locates the leftmost delimiter match in b, returning the
// half-open interval [loc[0], loc[1]) or nil when b contains no match.
// *regexp.Regexp satisfies Pattern directly. Each call is independent;
// a Pattern holds no scanning state. Patterns that match the empty
// string are not supported: an empty match is ignored.
type Pattern interface {
	FindIndex(b []byte) []int
}

// WidthBounded is an optional Pattern capability. A pattern that can
// bound the byte width of any match lets the splitter re-search only a
// small overlap after each fill instead of the whole live buffer.
type WidthBounded interface {
	MaxWidth() int
}

// DefaultCapacity is the initial buffer capacity used by New.
const DefaultCapacity = 64 * 1024

// Reads that return (0, nil) make no progress; bufio tolerates up to
// 100 of them in a row, and so do we.
const maxEmptyReads = 100

type state int8

const (
	stateScanning state = iota
	stateFilling
	stateDraining
	stateDone
)

// Splitter yields the byte runs of a source that lie between delimiter
// matches. It is pull-based and single-threaded: nothing is read before
// the first Next call, and instances must not be shared between
// goroutines without external locking.
type Splitter struct {
	r   io.Reader
	pat Pattern

	buf        *buffer.Buffer
	capacity   int
	maxWidth   int // 0 when the pattern cannot bound its match width
	eof        bool
	errPending error
	state      state
	log        *zap.Logger
}

// Option configures a Splitter at construction time.
type Option interface {
	apply(s *Splitter)
}

type capacityOpt int

func (c capacityOpt) apply(s *Splitter) { s.capacity = int(c) }

// WithCapacity sets the initial buffer capacity in bytes.
func WithCapacity(n int) Option { return capacityOpt(n) }

type loggerOpt struct{ log *zap.Logger }

func (l loggerOpt) apply(s *Splitter) { s.log = l.log }

// WithLogger enables debug logging of fills, matches and buffer growth.
func WithLogger(log *zap.Logger) Option { return loggerOpt{log} }

// New returns a Splitter that splits the bytes of r on matches of pat.
// Compiling the pattern is the caller's job; pattern errors cannot
// occur once a Splitter exists.
func New(r io.Reader, pat Pattern, opts ...Option) *Splitter {
	s := &Splitter{
		r:        r,
		pat:      pat,
		capacity: DefaultCapacity,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(s)
	}
	if wb, ok := pat.(WidthBounded); ok {
		s.maxWidth = wb.MaxWidth()
	}
	s.buf = buffer.New(s.capacity)
	return s
}

// Next returns the next chunk of the source, with the delimiter
// stripped. The returned slice aliases the internal buffer and is valid
// only until the following Next call; copy it to retain it (or use
// NewPooled).
//
// At end-of-stream Next returns (nil, io.EOF), and keeps doing so on
// every later call. A source read failure is returned once, verbatim
// under errors.Is, and terminates the sequence. No partial chunk ever
// accompanies an error.
//
// Two boundary policies, fixed and deterministic: a delimiter match at
// the very start of a chunk window yields an empty chunk, and a
// delimiter ending exactly at end-of-stream does not produce a trailing
// empty chunk.
func (s *Splitter) Next() ([]byte, error) {
	if s.state == stateDone {
		return nil, io.EOF
	}
	s.state = stateScanning

	for {
		if start, end, ok := s.locate(); ok {
			chunk := s.buf.Live()[:start:start]
			s.buf.Consume(end)
			s.log.Debug("match",
				zap.Int("chunk", len(chunk)),
				zap.Int("delimiter", end-start))
			return chunk, nil
		}

		if s.eof {
			return s.drain()
		}

		s.state = stateFilling
		if err := s.fill(); err != nil {
			s.state = stateDone
			return nil, err
		}
		s.state = stateScanning
	}
}

// drain emits whatever follows the last delimiter once the source is
// exhausted, then parks the splitter in its terminal state.
func (s *Splitter) drain() ([]byte, error) {
	s.state = stateDraining
	tail := s.buf.Live()
	s.buf.Consume(len(tail))
	s.state = stateDone
	if len(tail) == 0 {
		return nil, io.EOF
	}
	return tail, nil
}

// locate searches the live buffer for a trustworthy delimiter match.
// Offsets are relative to Live.
func (s *Splitter) locate() (start, end int, ok bool) {
	live := s.buf.Live()
	skip := s.buf.Scanned()
	loc := s.pat.FindIndex(live[skip:])
	if loc == nil || loc[0] == loc[1] {
		s.markScanned(len(live))
		return 0, 0, false
	}

	start, end = skip+loc[0], skip+loc[1]
	if end == len(live) && !s.eof && s.mayExtend(end-start) {
		// The match runs to the end of the buffered bytes and more
		// input is pending, so the delimiter may continue past the
		// fill boundary. Do not mark anything scanned: the match must
		// be found again, possibly longer, after the next fill.
		return 0, 0, false
	}
	return start, end, true
}

// markScanned advances the scanned offset after a failed search. A
// width-bounded pattern only needs the trailing maxWidth-1 bytes
// re-searched after a fill; an unbounded one gets the conservative
// treatment and the whole live region is searched every time.
func (s *Splitter) markScanned(liveLen int) {
	if s.maxWidth <= 0 {
		return
	}
	if n := liveLen - (s.maxWidth - 1); n > 0 {
		s.buf.MarkScanned(n)
	}
}

// mayExtend reports whether a match of the given width could become
// longer if more bytes arrived.
func (s *Splitter) mayExtend(width int) bool {
	return s.maxWidth <= 0 || width < s.maxWidth
}

// fill pulls one batch of bytes from the source into the buffer.
// A clean io.EOF flips the eof flag and is not an error; anything else
// propagates to the Next caller. A read that delivers bytes and an
// error in the same call has the bytes committed first, so chunks they
// complete are emitted before the failure surfaces.
func (s *Splitter) fill() error {
	if s.errPending != nil {
		return s.errPending
	}
	for i := 0; i < maxEmptyReads; i++ {
		dst := s.buf.Writable(1)
		n, err := s.r.Read(dst)
		if n > 0 {
			s.buf.Commit(n)
			s.log.Debug("fill", zap.Int("n", n), zap.Int("cap", s.buf.Cap()))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.eof = true
				return nil
			}
			err = fmt.Errorf("fill: %w", err)
			if n > 0 {
				s.errPending = err
				return nil
			}
			return err
		}
		if n > 0 {
			return nil
		}
	}
	return io.ErrNoProgress
}
