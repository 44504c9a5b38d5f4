package pool

import "sync"

// Bytes is a free list of byte slices. Acquire hands back a released
// slice with its capacity intact and length zero, or nil when the list
// is empty; either way the result is ready for append.
type Bytes struct {
	mu   sync.Mutex
	free [][]byte
}

func NewBytes() *Bytes {
	return new(Bytes)
}

func NewBytesSize(size int) *Bytes {
	return &Bytes{free: make([][]byte, 0, size)}
}

func (p *Bytes) Acquire() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	l := len(p.free)
	if l == 0 {
		return nil
	}

	b := p.free[l-1]
	p.free = p.free[:l-1]
	return b[:0]
}

func (p *Bytes) Release(b []byte) {
	if b == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.free = append(p.free, b)
}
