package buffer

// Buffer accumulates bytes pulled from a source until they are emitted
// as chunks. It tracks two offsets into the stored bytes:
//
//   - consumed: everything before it has been emitted and is dead;
//   - scanned: everything between consumed and it has been searched
//     for a delimiter with no match found.
//
// Invariant: 0 <= consumed <= scanned <= len. All offsets exposed by
// the API are relative to the live region [consumed, len), so callers
// never see dead bytes.
type Buffer struct {
	data     []byte
	consumed int
	scanned  int
}

func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Live returns the bytes that have been read but not yet consumed.
// The slice is invalidated by the next call to Writable.
func (b *Buffer) Live() []byte { return b.data[b.consumed:] }

// Scanned returns how many live bytes have already been searched
// without finding a match.
func (b *Buffer) Scanned() int { return b.scanned - b.consumed }

// MarkScanned records that the first n live bytes contain no match.
// It never moves the scanned offset backwards.
func (b *Buffer) MarkScanned(n int) {
	if abs := b.consumed + n; abs > b.scanned {
		b.scanned = abs
	}
	if b.scanned > len(b.data) {
		b.scanned = len(b.data)
	}
}

// Consume drops the first n live bytes: they have been emitted (or were
// part of a delimiter match) and must not be referenced again. The
// scanned offset resets to the new consumed position, because whatever
// follows a match is unscanned content.
func (b *Buffer) Consume(n int) {
	b.consumed += n
	b.scanned = b.consumed
}

// Writable returns a spare-capacity slice of at least min bytes for a
// fill to read into, compacting or growing the buffer as needed.
// Growing rebases both offsets, so any previously returned Live slice
// is invalid afterwards. Bytes read into the returned slice become
// visible only after Commit.
func (b *Buffer) Writable(min int) []byte {
	if cap(b.data)-len(b.data) < min {
		b.realloc(min)
	}
	return b.data[len(b.data):cap(b.data)]
}

// Commit extends the live region by the n bytes just read into the
// slice returned by Writable.
func (b *Buffer) Commit(n int) {
	b.data = b.data[:len(b.data)+n]
}

// realloc makes room for at least min more bytes. When the dead prefix
// is at least as large as the live region, sliding the live bytes to
// the front reclaims it in place; otherwise the backing array doubles.
// Either way memory stays proportional to the largest unmatched run,
// not to the total stream length.
func (b *Buffer) realloc(min int) {
	live := len(b.data) - b.consumed
	if b.consumed >= live && cap(b.data)-live >= min {
		copy(b.data, b.data[b.consumed:])
		b.rebase(live)
		return
	}

	capacity := 2 * cap(b.data)
	if capacity == 0 {
		capacity = min
	}
	for capacity-live < min {
		capacity *= 2
	}
	next := make([]byte, live, capacity)
	copy(next, b.data[b.consumed:])
	b.data = next
	b.rebase(live)
}

func (b *Buffer) rebase(live int) {
	b.scanned -= b.consumed
	b.consumed = 0
	b.data = b.data[:live]
}

// Cap reports the current capacity of the backing array.
func (b *Buffer) Cap() int { return cap(b.data) }
