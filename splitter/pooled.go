package splitter

import (
	"github.com/streamkit/resplit/utils/pool"
)

// PooledSplitter wraps a Splitter and returns owned copies of each
// chunk, so chunks can outlive the following Next call and cross
// goroutine boundaries. Copies are drawn from a free list; callers
// hand them back with Release once done.
type PooledSplitter struct {
	s    *Splitter
	pool *pool.Bytes
}

func NewPooled(s *Splitter) *PooledSplitter {
	return &PooledSplitter{s, pool.NewBytes()}
}

// Next returns an owned copy of the next chunk. Termination and error
// semantics are those of Splitter.Next.
func (p *PooledSplitter) Next() ([]byte, error) {
	chunk, err := p.s.Next()
	if err != nil {
		return nil, err
	}
	return append(p.pool.Acquire(), chunk...), nil
}

// Release returns a chunk obtained from Next to the free list. The
// caller must not touch it afterwards.
func (p *PooledSplitter) Release(b []byte) {
	p.pool.Release(b)
}
