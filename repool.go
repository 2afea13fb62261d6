package repool

import (
	"log/slog"
	"sync"
	"time"
)

// Factory creates and destroys instances of the pooled resource type.
// The pool never calls either method while holding its internal lock, so
// implementations are free to block, allocate, or perform I/O.
type Factory[T any] interface {
	// CreateResource returns a new, usable resource instance.
	CreateResource() (T, error)

	// DestroyResource releases whatever the resource holds. Called when an
	// instance is evicted, overflow-discarded, or cleared.
	DestroyResource(T) error
}

// FactoryFuncs adapts plain functions to the Factory interface.
// Destroy may be nil for resource types that need no cleanup.
type FactoryFuncs[T any] struct {
	Create  func() (T, error)
	Destroy func(T) error
}

func (f FactoryFuncs[T]) CreateResource() (T, error) { return f.Create() }

func (f FactoryFuncs[T]) DestroyResource(res T) error {
	if f.Destroy == nil {
		return nil
	}
	return f.Destroy(res)
}

// Resource pairs a pooled value with the timestamps the pool uses for
// eviction decisions. The timestamps are pool-private; the wrapped value
// is never touched by the pool itself.
//
// A Resource handle is owned exclusively by the caller between Get and
// Put, and exclusively by the pool while idle. Handles must not be used
// after Put, and a handle obtained from one pool must not be passed to
// another.
type Resource[T any] struct {
	value      T
	createdAt  time.Time
	releasedAt time.Time
}

// Value returns the wrapped resource.
func (r *Resource[T]) Value() T { return r.value }

// Status is a point-in-time snapshot of a pool's state and lifetime
// counters. All fields are read under the pool lock, so the snapshot is
// internally consistent.
type Status struct {
	// IdleSize is the number of resources currently available in the pool.
	IdleSize int

	// SizeLimit is the maximum number of idle resources retained.
	// Zero when the pool is shut down.
	SizeLimit int

	// ShutDown reports whether the pool is in the shut-down mode, in which
	// released resources are always destroyed instead of stored.
	ShutDown bool

	// Created counts resources built by the factory.
	Created uint64

	// Served counts acquisitions satisfied from the idle pool.
	Served uint64

	// KilledTTL counts resources destroyed for exceeding MaxAge.
	KilledTTL uint64

	// KilledStale counts resources destroyed for exceeding MaxIdleTime.
	KilledStale uint64

	// OverflowDiscards counts resources destroyed because the pool was
	// full (or shut down) at release time.
	OverflowDiscards uint64

	// Cleared counts resources destroyed by Clear, Restart, or ShutDown.
	Cleared uint64
}

// Pool is a bounded, thread-safe collection of idle resources. Get
// returns an idle resource when a fresh one is available and builds a
// new one otherwise; Put recycles a resource or discards it when the
// pool is full. Eviction is lazy: expired resources are destroyed as
// Get encounters them, never by a background timer.
//
// The zero value is not usable; construct with New.
type Pool[T any] struct {
	name    string
	factory Factory[T]
	metrics *Metrics
	log     *slog.Logger

	mu          sync.Mutex
	idle        []*Resource[T] // FIFO: front is oldest
	limit       int
	shutdown    bool
	maxAge      time.Duration
	maxIdleTime time.Duration

	created          uint64
	served           uint64
	killedTTL        uint64
	killedStale      uint64
	overflowDiscards uint64
	cleared          uint64
}

// Option configures a Pool at construction time.
type Option[T any] func(*Pool[T])

// WithMetrics attaches Prometheus metrics tracking to the pool.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(p *Pool[T]) { p.metrics = m }
}

// WithLogger sets the logger used for eviction and destroy-failure
// events. Defaults to slog.Default().
func WithLogger[T any](log *slog.Logger) Option[T] {
	return func(p *Pool[T]) { p.log = log }
}

// New creates a pool for resources built by factory. The name labels
// metrics and log records for this pool.
//
// A non-positive cfg.SizeLimit puts the pool directly into the shut-down
// mode: Get still creates resources on demand, but Put always destroys
// them. Use DefaultConfig for the standard limits.
func New[T any](name string, factory Factory[T], cfg Config, opts ...Option[T]) *Pool[T] {
	p := &Pool[T]{
		name:        name,
		factory:     factory,
		log:         slog.Default(),
		limit:       cfg.SizeLimit,
		maxAge:      cfg.MaxAge,
		maxIdleTime: cfg.MaxIdleTime,
	}
	if cfg.SizeLimit <= 0 {
		p.limit = 0
		p.shutdown = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns a resource from the pool, creating a new one via the
// factory if no stored resource is fresh enough. Stored resources are
// checked oldest-first against MaxAge and MaxIdleTime using a single
// time snapshot taken at call entry; expired ones are destroyed and
// counted before the scan continues.
//
// A factory creation error is returned unmodified, with pool state and
// counters unchanged.
func (p *Pool[T]) Get() (*Resource[T], error) {
	t0 := time.Now()

	p.mu.Lock()
	maxAge, maxIdle := p.maxAge, p.maxIdleTime
	var served *Resource[T]
	var kill []*Resource[T]
	var killTTL, killStale int
	for len(p.idle) > 0 {
		r := p.idle[0]
		p.idle = p.idle[1:]
		switch {
		case maxAge > 0 && t0.Sub(r.createdAt) > maxAge:
			killTTL++
			kill = append(kill, r)
		case maxIdle > 0 && t0.Sub(r.releasedAt) > maxIdle:
			killStale++
			kill = append(kill, r)
		default:
			served = r
		}
		if served != nil {
			break
		}
	}
	p.killedTTL += uint64(killTTL)
	p.killedStale += uint64(killStale)
	if served != nil {
		p.served++
	}
	idleSize := len(p.idle)
	p.mu.Unlock()

	if m := p.metrics; m != nil {
		for i := 0; i < killTTL; i++ {
			m.RecordKilledTTL(p.name)
		}
		for i := 0; i < killStale; i++ {
			m.RecordKilledStale(p.name)
		}
		m.SetIdle(p.name, idleSize)
	}
	if len(kill) > 0 {
		p.log.Debug("evicted expired resources",
			"pool", p.name,
			"ttl", killTTL,
			"stale", killStale,
		)
		for _, r := range kill {
			p.destroy(r.value)
		}
	}

	if served != nil {
		if m := p.metrics; m != nil {
			m.RecordServed(p.name)
		}
		return served, nil
	}

	value, err := p.factory.CreateResource()
	if err != nil {
		return nil, err
	}
	r := &Resource[T]{value: value, createdAt: time.Now()}

	p.mu.Lock()
	p.created++
	p.mu.Unlock()

	if m := p.metrics; m != nil {
		m.RecordCreate(p.name)
	}
	return r, nil
}

// Put returns a resource to the pool. When the pool is full or shut
// down the resource is destroyed instead and counted as an overflow
// discard. Put never blocks waiting for room.
//
// Passing a handle that was not obtained from this pool is a caller
// error and is not validated. Put(nil) is a no-op.
func (p *Pool[T]) Put(r *Resource[T]) {
	if r == nil {
		return
	}

	p.mu.Lock()
	stored := !p.shutdown && len(p.idle) < p.limit
	if stored {
		r.releasedAt = time.Now()
		p.idle = append(p.idle, r)
	} else {
		p.overflowDiscards++
	}
	idleSize := len(p.idle)
	p.mu.Unlock()

	if m := p.metrics; m != nil {
		m.SetIdle(p.name, idleSize)
		if stored {
			m.RecordReturn(p.name)
		} else {
			m.RecordOverflow(p.name)
		}
	}
	if !stored {
		p.destroy(r.value)
	}
}

// Clear destroys every idle resource. The size limit and mode are left
// unchanged; resources currently held by callers are unaffected.
func (p *Pool[T]) Clear() {
	p.clear(false, 0, false)
}

// Restart destroys every idle resource, sets a new size limit, and
// returns the pool to normal operation. A non-positive limit is
// equivalent to ShutDown.
func (p *Pool[T]) Restart(limit int) {
	if limit <= 0 {
		p.ShutDown()
		return
	}
	p.clear(true, limit, false)
}

// ShutDown destroys every idle resource and stops the pool from ever
// storing another one: every subsequent Put destroys its resource. Get
// keeps working as a create-per-call factory. Restart with a positive
// limit resumes normal operation.
func (p *Pool[T]) ShutDown() {
	p.clear(true, 0, true)
}

func (p *Pool[T]) clear(reconfigure bool, limit int, shutdown bool) {
	p.mu.Lock()
	old := p.idle
	p.idle = nil
	if reconfigure {
		p.limit = limit
		p.shutdown = shutdown
	}
	p.cleared += uint64(len(old))
	p.mu.Unlock()

	if m := p.metrics; m != nil {
		m.SetIdle(p.name, 0)
		for range old {
			m.RecordCleared(p.name)
		}
	}
	if len(old) > 0 {
		p.log.Debug("pool cleared", "pool", p.name, "destroyed", len(old))
	}
	for _, r := range old {
		p.destroy(r.value)
	}
}

// Preheat warms the pool by acquiring n resources and then releasing
// them all. The acquisitions happen before any release, so Preheat
// always creates n fresh resources; only min(n, SizeLimit) of them are
// retained and the rest are overflow-discarded.
//
// If a creation fails mid-loop, the resources acquired so far are
// released back to the pool before the error is returned.
func (p *Pool[T]) Preheat(n int) error {
	acquired := make([]*Resource[T], 0, n)
	for i := 0; i < n; i++ {
		r, err := p.Get()
		if err != nil {
			for _, a := range acquired {
				p.Put(a)
			}
			return err
		}
		acquired = append(acquired, r)
	}
	for _, r := range acquired {
		p.Put(r)
	}
	return nil
}

// Status returns a consistent snapshot of the pool's state and counters.
func (p *Pool[T]) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		IdleSize:         len(p.idle),
		SizeLimit:        p.limit,
		ShutDown:         p.shutdown,
		Created:          p.created,
		Served:           p.served,
		KilledTTL:        p.killedTTL,
		KilledStale:      p.killedStale,
		OverflowDiscards: p.overflowDiscards,
		Cleared:          p.cleared,
	}
}

// destroy runs the factory's destroy hook. Destroy failures are logged,
// not propagated: by the time a destroy runs the triggering operation
// has already committed its state change.
func (p *Pool[T]) destroy(value T) {
	if err := p.factory.DestroyResource(value); err != nil {
		p.log.Warn("destroying pooled resource", "pool", p.name, "error", err)
	}
}
