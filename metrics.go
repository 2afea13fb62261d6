package repool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// poolCreates tracks resources built by the factory, per pool.
	poolCreates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "creates_total",
		Help:      "Total number of resources created by the factory",
	}, []string{"pool"})

	// poolServed tracks acquisitions satisfied from the idle pool.
	poolServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "served_total",
		Help:      "Total number of acquisitions served from the idle pool",
	}, []string{"pool"})

	// poolReturns tracks resources stored back into the pool.
	poolReturns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "returns_total",
		Help:      "Total number of resources returned and stored",
	}, []string{"pool"})

	// poolKilledTTL tracks resources destroyed for exceeding max age.
	poolKilledTTL = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "killed_ttl_total",
		Help:      "Total number of resources destroyed for exceeding max age",
	}, []string{"pool"})

	// poolKilledStale tracks resources destroyed for idling too long.
	poolKilledStale = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "killed_stale_total",
		Help:      "Total number of resources destroyed for exceeding max idle time",
	}, []string{"pool"})

	// poolOverflow tracks resources destroyed because the pool was full.
	poolOverflow = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "overflow_discards_total",
		Help:      "Total number of resources discarded at release because the pool was full",
	}, []string{"pool"})

	// poolCleared tracks resources destroyed by clear/restart/shutdown.
	poolCleared = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repool",
		Name:      "cleared_total",
		Help:      "Total number of resources destroyed by clear, restart, or shutdown",
	}, []string{"pool"})

	// poolIdle tracks the current number of idle resources per pool.
	poolIdle = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "repool",
		Name:      "idle_resources",
		Help:      "Current number of idle resources in the pool",
	}, []string{"pool"})
)

// Metrics exports pool activity to Prometheus, labeled by pool name.
// Attach one to a pool with WithMetrics; a single Metrics value may be
// shared by any number of pools. A pool without a Metrics attached
// records nothing.
//
// Authoritative counters live on the pool itself (see Status); Metrics
// only mirrors them into the process-wide Prometheus registry.
type Metrics struct{}

// NewMetrics creates a Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordCreate increments the create counter for a pool.
func (m *Metrics) RecordCreate(pool string) {
	poolCreates.WithLabelValues(pool).Inc()
}

// RecordServed increments the served-from-pool counter for a pool.
func (m *Metrics) RecordServed(pool string) {
	poolServed.WithLabelValues(pool).Inc()
}

// RecordReturn increments the stored-return counter for a pool.
func (m *Metrics) RecordReturn(pool string) {
	poolReturns.WithLabelValues(pool).Inc()
}

// RecordKilledTTL increments the max-age eviction counter for a pool.
func (m *Metrics) RecordKilledTTL(pool string) {
	poolKilledTTL.WithLabelValues(pool).Inc()
}

// RecordKilledStale increments the idle eviction counter for a pool.
func (m *Metrics) RecordKilledStale(pool string) {
	poolKilledStale.WithLabelValues(pool).Inc()
}

// RecordOverflow increments the overflow discard counter for a pool.
func (m *Metrics) RecordOverflow(pool string) {
	poolOverflow.WithLabelValues(pool).Inc()
}

// RecordCleared increments the cleared counter for a pool.
func (m *Metrics) RecordCleared(pool string) {
	poolCleared.WithLabelValues(pool).Inc()
}

// SetIdle records the current idle size of a pool.
func (m *Metrics) SetIdle(pool string, n int) {
	poolIdle.WithLabelValues(pool).Set(float64(n))
}
