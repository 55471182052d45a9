package instance

import (
	"sync"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// State guards a node's NodeState. The engine is its only writer apart from Kill.
type State struct {
	lock   sync.RWMutex
	faulty bool
	state  types.NodeState
}

func NewState(initial types.Value, faulty bool) *State {
	return &State{
		faulty: faulty,
		state:  types.NewNodeState(initial, faulty),
	}
}

// Snapshot returns a copy safe to hand out.
func (s *State) Snapshot() types.NodeState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state.Copy()
}

func (s *State) Faulty() bool {
	return s.faulty
}

// Kill marks the node stopped. Idempotent.
func (s *State) Kill() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state.Killed = true
}

func (s *State) Killed() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state.Killed
}

func (s *State) Decided() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state.IsDecided()
}

// enterRound runs the round-entry guard and, when it passes, advances k.
// ok is false when the node is faulty, killed, decided or missing x/k.
func (s *State) enterRound() (round int, x types.Value, ok bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.faulty || s.state.Killed || s.state.X == nil || s.state.K == nil || s.state.IsDecided() {
		return 0, 0, false
	}
	*s.state.K++
	return *s.state.K, *s.state.X, true
}

// decide fixes x. Later calls are ignored.
func (s *State) decide(v types.Value) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state.X == nil || s.state.Decided == nil || *s.state.Decided {
		return
	}
	*s.state.X = v
	*s.state.Decided = true
}

func (s *State) setEstimate(v types.Value) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state.X == nil || s.state.IsDecided() {
		return
	}
	*s.state.X = v
}
