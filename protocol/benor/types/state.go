package types

// NodeState is the externally visible state of a node.
// For a faulty node X, Decided and K stay nil for its whole lifetime.
type NodeState struct {
	Killed  bool   `json:"killed"`
	X       *Value `json:"x"`
	Decided *bool  `json:"decided"`
	K       *int   `json:"k"`
}

// NewNodeState returns the construction-time state of a node.
func NewNodeState(initial Value, faulty bool) NodeState {
	if faulty {
		return NodeState{}
	}
	x, decided, k := initial, false, 0
	return NodeState{
		X:       &x,
		Decided: &decided,
		K:       &k,
	}
}

// Copy returns a deep copy that shares no pointers with s.
func (s NodeState) Copy() NodeState {
	out := NodeState{Killed: s.Killed}
	if s.X != nil {
		x := *s.X
		out.X = &x
	}
	if s.Decided != nil {
		d := *s.Decided
		out.Decided = &d
	}
	if s.K != nil {
		k := *s.K
		out.K = &k
	}
	return out
}

// IsDecided treats a nil Decided as false.
func (s NodeState) IsDecided() bool {
	return s.Decided != nil && *s.Decided
}
