package msgstore

import (
	"sync"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// Store is an append-only mailbox of received votes indexed by (phase, round).
// Buckets are never removed; rounds the node has moved past are simply not read again.
type Store struct {
	lock    sync.Mutex
	buckets map[types.Phase]map[int]*bucket
}

type bucket struct {
	values []types.Value
	// changed is closed and replaced on every append.
	changed chan struct{}
}

func New() *Store {
	return &Store{
		buckets: map[types.Phase]map[int]*bucket{
			types.PhaseOne: {},
			types.PhaseTwo: {},
		},
	}
}

// Append records a vote. Duplicates are kept.
func (s *Store) Append(phase types.Phase, round int, value types.Value) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b := s.bucket(phase, round)
	b.values = append(b.values, value)
	close(b.changed)
	b.changed = make(chan struct{})
}

// Snapshot returns a copy of the votes received so far for (phase, round), in arrival order.
func (s *Store) Snapshot(phase types.Phase, round int) []types.Value {
	values, _ := s.Watch(phase, round)
	return values
}

// Watch returns a snapshot together with a channel that is closed on the next
// append to the same bucket. Both are taken under one lock, so no append can
// fall between them.
func (s *Store) Watch(phase types.Phase, round int) ([]types.Value, <-chan struct{}) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b := s.bucket(phase, round)
	values := make([]types.Value, len(b.values))
	copy(values, b.values)
	return values, b.changed
}

func (s *Store) bucket(phase types.Phase, round int) *bucket {
	rounds, ok := s.buckets[phase]
	if !ok {
		rounds = make(map[int]*bucket)
		s.buckets[phase] = rounds
	}
	b, ok := rounds[round]
	if !ok {
		b = &bucket{changed: make(chan struct{})}
		rounds[round] = b
	}
	return b
}
