package repool

import (
	"bytes"
	"sync"
)

const (
	// DefaultBufferSize is the initial capacity for pooled buffers.
	DefaultBufferSize = 4096 // 4KB - typical JSON payload size

	// MaxBufferSize is the maximum capacity before buffers are discarded.
	MaxBufferSize = 65536 // 64KB - prevent memory bloat
)

// BufferPool pools reusable byte buffers. Use this for JSON
// serialization in handlers to reduce allocations. Unlike a bare
// sync.Pool, buffers inherit the age and idle eviction of the
// underlying Pool, so a burst of large requests does not pin memory
// forever.
type BufferPool struct {
	pool *Pool[*bytes.Buffer]

	mu  sync.Mutex
	out map[*bytes.Buffer]*Resource[*bytes.Buffer]
}

// NewBufferPool creates a buffer pool with the given limits.
func NewBufferPool(cfg Config, opts ...Option[*bytes.Buffer]) *BufferPool {
	factory := FactoryFuncs[*bytes.Buffer]{
		Create: func() (*bytes.Buffer, error) {
			buf := new(bytes.Buffer)
			buf.Grow(DefaultBufferSize)
			return buf, nil
		},
	}
	return &BufferPool{
		pool: New("buffer", factory, cfg, opts...),
		out:  make(map[*bytes.Buffer]*Resource[*bytes.Buffer]),
	}
}

// Get retrieves a buffer from the pool.
// The buffer is reset and ready for use.
func (p *BufferPool) Get() *bytes.Buffer {
	r, err := p.pool.Get()
	if err != nil {
		// The buffer factory cannot fail; keep callers working regardless.
		return new(bytes.Buffer)
	}
	buf := r.Value()
	buf.Reset()

	p.mu.Lock()
	p.out[buf] = r
	p.mu.Unlock()

	return buf
}

// Put returns a buffer to the pool.
// Buffers exceeding MaxBufferSize are discarded to prevent memory
// bloat; buffers not obtained from this pool are ignored.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}

	p.mu.Lock()
	r, ok := p.out[buf]
	if ok {
		delete(p.out, buf)
	}
	p.mu.Unlock()

	if !ok {
		return
	}
	if buf.Cap() > MaxBufferSize {
		// Dropped entirely; the garbage collector reclaims it.
		return
	}

	buf.Reset()
	p.pool.Put(r)
}

// Status returns the underlying pool's snapshot.
func (p *BufferPool) Status() Status {
	return p.pool.Status()
}
