package repool

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	require.NotNil(t, m)
}

func TestMetrics_Record(t *testing.T) {
	// Each subtest uses its own label so the process-wide registry
	// stays unambiguous across test runs.
	m := NewMetrics()

	t.Run("create", func(t *testing.T) {
		m.RecordCreate("m_create")
		m.RecordCreate("m_create")
		assert.Equal(t, 2.0, testutil.ToFloat64(poolCreates.WithLabelValues("m_create")))
	})

	t.Run("served", func(t *testing.T) {
		m.RecordServed("m_served")
		assert.Equal(t, 1.0, testutil.ToFloat64(poolServed.WithLabelValues("m_served")))
	})

	t.Run("return", func(t *testing.T) {
		m.RecordReturn("m_return")
		assert.Equal(t, 1.0, testutil.ToFloat64(poolReturns.WithLabelValues("m_return")))
	})

	t.Run("killed ttl", func(t *testing.T) {
		m.RecordKilledTTL("m_ttl")
		assert.Equal(t, 1.0, testutil.ToFloat64(poolKilledTTL.WithLabelValues("m_ttl")))
	})

	t.Run("killed stale", func(t *testing.T) {
		m.RecordKilledStale("m_stale")
		assert.Equal(t, 1.0, testutil.ToFloat64(poolKilledStale.WithLabelValues("m_stale")))
	})

	t.Run("overflow", func(t *testing.T) {
		m.RecordOverflow("m_overflow")
		assert.Equal(t, 1.0, testutil.ToFloat64(poolOverflow.WithLabelValues("m_overflow")))
	})

	t.Run("cleared", func(t *testing.T) {
		m.RecordCleared("m_cleared")
		assert.Equal(t, 1.0, testutil.ToFloat64(poolCleared.WithLabelValues("m_cleared")))
	})

	t.Run("idle gauge", func(t *testing.T) {
		m.SetIdle("m_idle", 7)
		assert.Equal(t, 7.0, testutil.ToFloat64(poolIdle.WithLabelValues("m_idle")))
		m.SetIdle("m_idle", 0)
		assert.Equal(t, 0.0, testutil.ToFloat64(poolIdle.WithLabelValues("m_idle")))
	})
}

func TestMetrics_PoolIntegration(t *testing.T) {
	factory := &fakeFactory{}
	p := New("m_pool", factory, Config{SizeLimit: 1, MaxIdleTime: 10 * time.Millisecond},
		WithMetrics[*fakeConn](NewMetrics()))

	r1, err := p.Get()
	require.NoError(t, err)
	r2, err := p.Get()
	require.NoError(t, err)
	p.Put(r1)
	p.Put(r2) // overflow

	time.Sleep(30 * time.Millisecond)

	_, err = p.Get() // stale eviction plus a fresh create
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(poolCreates.WithLabelValues("m_pool")))
	assert.Equal(t, 1.0, testutil.ToFloat64(poolReturns.WithLabelValues("m_pool")))
	assert.Equal(t, 1.0, testutil.ToFloat64(poolOverflow.WithLabelValues("m_pool")))
	assert.Equal(t, 1.0, testutil.ToFloat64(poolKilledStale.WithLabelValues("m_pool")))
	assert.Equal(t, 0.0, testutil.ToFloat64(poolIdle.WithLabelValues("m_pool")))
}
