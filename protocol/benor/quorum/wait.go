package quorum

import (
	"context"
	"time"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// DefaultRetryInterval bounds how long a wait sleeps between evaluations when
// no append wakes it earlier.
const DefaultRetryInterval = 10 * time.Millisecond

// Predicate decides whether a bucket snapshot satisfies a quorum.
type Predicate func(values []types.Value) bool

// Source is a bucket store that can notify about appends.
type Source interface {
	Watch(phase types.Phase, round int) ([]types.Value, <-chan struct{})
}

// Wait blocks until predicate holds for the (phase, round) bucket and returns
// the snapshot that satisfied it. The predicate is re-evaluated on every append
// to the bucket and at least every interval.
//
// There is no timeout: the wait only ends when the predicate holds or ctx is
// done. Stopping a node does not cancel ctx.
func Wait(ctx context.Context, src Source, phase types.Phase, round int, predicate Predicate, interval time.Duration) ([]types.Value, error) {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		values, changed := src.Watch(phase, round)
		if predicate(values) {
			return values, nil
		}
		select {
		case <-changed:
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// ConcreteAtLeast holds once at least n votes are Zero or One.
// Unknown votes stay in the snapshot but do not count.
func ConcreteAtLeast(n int) Predicate {
	return func(values []types.Value) bool {
		zeros, ones, _ := types.Tally(values)
		return zeros+ones >= n
	}
}

// AtLeast holds once the bucket has n votes of any value.
func AtLeast(n int) Predicate {
	return func(values []types.Value) bool {
		return len(values) >= n
	}
}
