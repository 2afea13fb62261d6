package repool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBytePool(t *testing.T) {
	t.Run("uses requested size", func(t *testing.T) {
		bp := NewBytePool(64, DefaultConfig())
		s := bp.Get()
		assert.Len(t, s, 64)
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		bp := NewBytePool(0, DefaultConfig())
		s := bp.Get()
		assert.Len(t, s, DefaultSliceSize)
	})
}

func TestBytePool_GetPut(t *testing.T) {
	t.Run("recycles the backing array", func(t *testing.T) {
		bp := NewBytePool(32, DefaultConfig())

		s := bp.Get()
		s[0] = 0xAB
		bp.Put(s)

		s2 := bp.Get()
		require.Len(t, s2, 32)
		assert.Equal(t, &s[0], &s2[0], "same backing array")

		st := bp.Status()
		assert.Equal(t, uint64(1), st.Created)
		assert.Equal(t, uint64(1), st.Served)
	})

	t.Run("wrong size ignored", func(t *testing.T) {
		bp := NewBytePool(32, DefaultConfig())

		bp.Put(make([]byte, 16))
		bp.Put(nil)

		assert.Equal(t, 0, bp.Status().IdleSize)
	})

	t.Run("foreign slice ignored", func(t *testing.T) {
		bp := NewBytePool(32, DefaultConfig())

		bp.Put(make([]byte, 32))

		assert.Equal(t, 0, bp.Status().IdleSize)
	})

	t.Run("overflow discard at limit", func(t *testing.T) {
		bp := NewBytePool(32, Config{SizeLimit: 1})

		s1 := bp.Get()
		s2 := bp.Get()
		bp.Put(s1)
		bp.Put(s2)

		st := bp.Status()
		assert.Equal(t, 1, st.IdleSize)
		assert.Equal(t, uint64(1), st.OverflowDiscards)
	})
}
