package repool

import (
	"sync"
)

// DefaultSliceSize is the slice size used when NewBytePool is given a
// non-positive size.
const DefaultSliceSize = 32 // 32 bytes = 64 hex characters

// BytePool pools reusable fixed-size byte slices, e.g. for token
// generation. Slice contents are NOT zeroed between uses.
type BytePool struct {
	size int
	pool *Pool[[]byte]

	mu  sync.Mutex
	out map[*byte]*Resource[[]byte]
}

// NewBytePool creates a pool of slices of the specified size.
func NewBytePool(size int, cfg Config, opts ...Option[[]byte]) *BytePool {
	if size <= 0 {
		size = DefaultSliceSize
	}
	factory := FactoryFuncs[[]byte]{
		Create: func() ([]byte, error) {
			return make([]byte, size), nil
		},
	}
	return &BytePool{
		size: size,
		pool: New("bytes", factory, cfg, opts...),
		out:  make(map[*byte]*Resource[[]byte]),
	}
}

// Get retrieves a byte slice from the pool.
func (p *BytePool) Get() []byte {
	r, err := p.pool.Get()
	if err != nil {
		// The slice factory cannot fail; keep callers working regardless.
		return make([]byte, p.size)
	}
	s := r.Value()

	// The first element's address identifies the backing array across
	// the Get/Put round trip.
	p.mu.Lock()
	p.out[&s[0]] = r
	p.mu.Unlock()

	return s
}

// Put returns a byte slice to the pool.
// Only slices of the expected size that were obtained from this pool
// are stored; everything else is ignored.
func (p *BytePool) Put(s []byte) {
	if len(s) != p.size {
		return
	}

	p.mu.Lock()
	r, ok := p.out[&s[0]]
	if ok {
		delete(p.out, &s[0])
	}
	p.mu.Unlock()

	if !ok {
		return
	}
	p.pool.Put(r)
}

// Status returns the underlying pool's snapshot.
func (p *BytePool) Status() Status {
	return p.pool.Status()
}
