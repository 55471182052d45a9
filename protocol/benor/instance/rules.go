package instance

import (
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

// phaseOneEstimate aggregates a phase-one bucket: a value is proposed only on
// an outright majority of all N nodes.
func phaseOneEstimate(values []types.Value, network networkconfig.Network) types.Value {
	zeros, ones, _ := types.Tally(values)
	switch {
	case network.Majority(zeros):
		return types.Zero
	case network.Majority(ones):
		return types.One
	default:
		return types.Unknown
	}
}

type outcomeKind int

const (
	outcomeDecided outcomeKind = iota
	outcomeAdopted
	outcomeCoin
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeDecided:
		return "decided"
	case outcomeAdopted:
		return "adopted"
	default:
		return "coin"
	}
}

type phaseTwoOutcome struct {
	kind  outcomeKind
	value types.Value
}

// phaseTwoDecision applies the decision rule to a phase-two bucket. For
// outcomeCoin the value is left for the caller to flip.
func phaseTwoDecision(values []types.Value, network networkconfig.Network) phaseTwoOutcome {
	zeros, ones, _ := types.Tally(values)
	threshold := network.DecideThreshold()
	switch {
	case zeros >= threshold:
		return phaseTwoOutcome{kind: outcomeDecided, value: types.Zero}
	case ones >= threshold:
		return phaseTwoOutcome{kind: outcomeDecided, value: types.One}
	case zeros > 0:
		return phaseTwoOutcome{kind: outcomeAdopted, value: types.Zero}
	case ones > 0:
		return phaseTwoOutcome{kind: outcomeAdopted, value: types.One}
	default:
		return phaseTwoOutcome{kind: outcomeCoin}
	}
}
