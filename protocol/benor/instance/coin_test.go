package instance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

func TestFixedCoin(t *testing.T) {
	c := NewFixedCoin(types.One, types.Zero)
	require.Equal(t, types.One, c.Flip())
	require.Equal(t, types.Zero, c.Flip())
	require.Equal(t, types.Zero, c.Flip())
	require.Equal(t, 3, c.Flips())

	require.Equal(t, types.Zero, NewFixedCoin().Flip())
}

func TestRandomCoin(t *testing.T) {
	a, b := NewRandomCoin(42), NewRandomCoin(42)

	var seen [2]int
	for range 200 {
		va := a.Flip()
		require.Equal(t, va, b.Flip(), "same seed must give the same sequence")
		require.True(t, va.Concrete())
		seen[va]++
	}
	require.Positive(t, seen[types.Zero])
	require.Positive(t, seen[types.One])
}
