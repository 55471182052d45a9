package quorum

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/protocol/benor/msgstore"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

func TestPredicates(t *testing.T) {
	values := []types.Value{types.Zero, types.Unknown, types.One, types.Unknown}

	require.True(t, ConcreteAtLeast(2)(values))
	require.False(t, ConcreteAtLeast(3)(values))
	require.True(t, AtLeast(4)(values))
	require.False(t, AtLeast(5)(values))
	require.True(t, AtLeast(0)(nil))
}

func TestWait_AlreadySatisfied(t *testing.T) {
	store := msgstore.New()
	store.Append(types.PhaseOne, 1, types.One)

	values, err := Wait(context.Background(), store, types.PhaseOne, 1, AtLeast(1), time.Hour)
	require.NoError(t, err)
	require.Equal(t, []types.Value{types.One}, values)
}

func TestWait_WakesOnAppend(t *testing.T) {
	store := msgstore.New()

	type result struct {
		values []types.Value
		err    error
	}
	done := make(chan result, 1)
	go func() {
		// A long interval proves the wake-up comes from the append notification.
		values, err := Wait(context.Background(), store, types.PhaseOne, 2, ConcreteAtLeast(2), time.Hour)
		done <- result{values, err}
	}()

	store.Append(types.PhaseOne, 2, types.Unknown)
	store.Append(types.PhaseOne, 2, types.Zero)
	store.Append(types.PhaseOne, 1, types.Zero)

	select {
	case <-done:
		t.Fatal("wait returned before the quorum of concrete votes")
	case <-time.After(50 * time.Millisecond):
	}

	store.Append(types.PhaseOne, 2, types.One)

	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Equal(t, []types.Value{types.Unknown, types.Zero, types.One}, res.values)
	case <-time.After(5 * time.Second):
		t.Fatal("wait did not return")
	}
}

// staticSource never notifies, so only the retry interval can wake a waiter.
type staticSource struct {
	values func() []types.Value
}

func (s staticSource) Watch(types.Phase, int) ([]types.Value, <-chan struct{}) {
	return s.values(), nil
}

func TestWait_PollFallback(t *testing.T) {
	start := time.Now()
	src := staticSource{values: func() []types.Value {
		if time.Since(start) > 30*time.Millisecond {
			return []types.Value{types.Zero}
		}
		return nil
	}}

	values, err := Wait(context.Background(), src, types.PhaseTwo, 1, AtLeast(1), 0)
	require.NoError(t, err)
	require.Len(t, values, 1)
}

func TestWait_ContextCancelled(t *testing.T) {
	store := msgstore.New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := Wait(ctx, store, types.PhaseOne, 1, AtLeast(1), DefaultRetryInterval)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
