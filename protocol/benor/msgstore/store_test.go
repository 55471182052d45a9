package msgstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

func TestStore_AppendSnapshot(t *testing.T) {
	s := New()

	require.Empty(t, s.Snapshot(types.PhaseOne, 1))

	s.Append(types.PhaseOne, 1, types.Zero)
	s.Append(types.PhaseOne, 1, types.Unknown)
	s.Append(types.PhaseOne, 1, types.Zero)
	s.Append(types.PhaseTwo, 1, types.One)
	s.Append(types.PhaseOne, 2, types.One)

	require.Equal(t, []types.Value{types.Zero, types.Unknown, types.Zero}, s.Snapshot(types.PhaseOne, 1))
	require.Equal(t, []types.Value{types.One}, s.Snapshot(types.PhaseTwo, 1))
	require.Equal(t, []types.Value{types.One}, s.Snapshot(types.PhaseOne, 2))
	require.Empty(t, s.Snapshot(types.PhaseTwo, 2))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := New()
	s.Append(types.PhaseOne, 1, types.Zero)

	snap := s.Snapshot(types.PhaseOne, 1)
	snap[0] = types.One
	s.Append(types.PhaseOne, 1, types.One)

	require.Len(t, snap, 1)
	require.Equal(t, []types.Value{types.Zero, types.One}, s.Snapshot(types.PhaseOne, 1))
}

func TestStore_WatchNotifiesOnAppend(t *testing.T) {
	s := New()

	values, changed := s.Watch(types.PhaseTwo, 3)
	require.Empty(t, values)

	select {
	case <-changed:
		t.Fatal("channel closed before any append")
	default:
	}

	// Appends to other buckets do not wake the watcher.
	s.Append(types.PhaseOne, 3, types.Zero)
	s.Append(types.PhaseTwo, 4, types.Zero)
	select {
	case <-changed:
		t.Fatal("woken by another bucket")
	default:
	}

	s.Append(types.PhaseTwo, 3, types.One)
	<-changed

	values, _ = s.Watch(types.PhaseTwo, 3)
	require.Equal(t, []types.Value{types.One}, values)
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := New()

	const writers, perWriter = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.Append(types.PhaseOne, 1, types.One)
				_ = s.Snapshot(types.PhaseOne, 1)
			}
		}()
	}
	wg.Wait()

	require.Len(t, s.Snapshot(types.PhaseOne, 1), writers*perWriter)
}
