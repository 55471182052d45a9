package instance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

var (
	z = types.Zero
	o = types.One
	u = types.Unknown
)

func TestPhaseOneEstimate(t *testing.T) {
	tests := []struct {
		name    string
		network networkconfig.Network
		votes   []types.Value
		want    types.Value
	}{
		{"zero majority", networkconfig.Network{Nodes: 4, FaultyNodes: 1}, []types.Value{z, z, z}, z},
		{"one majority", networkconfig.Network{Nodes: 4, FaultyNodes: 1}, []types.Value{o, o, o, z}, o},
		{"half is not a majority", networkconfig.Network{Nodes: 4, FaultyNodes: 1}, []types.Value{o, o, z}, u},
		{"majority of N not of received", networkconfig.Network{Nodes: 5, FaultyNodes: 2}, []types.Value{z, z, o}, u},
		{"odd N", networkconfig.Network{Nodes: 5, FaultyNodes: 2}, []types.Value{z, z, z}, z},
		{"unknowns ignored", networkconfig.Network{Nodes: 3, FaultyNodes: 1}, []types.Value{u, o, o}, o},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, phaseOneEstimate(tt.votes, tt.network))
		})
	}
}

func TestPhaseTwoDecision(t *testing.T) {
	n4f1 := networkconfig.Network{Nodes: 4, FaultyNodes: 1}

	tests := []struct {
		name    string
		network networkconfig.Network
		votes   []types.Value
		want    phaseTwoOutcome
	}{
		{"two zeros decide at F+1=2", n4f1, []types.Value{z, z, u}, phaseTwoOutcome{outcomeDecided, z}},
		{"two ones decide", n4f1, []types.Value{u, o, o}, phaseTwoOutcome{outcomeDecided, o}},
		{"zero checked first", n4f1, []types.Value{o, o, z, z}, phaseTwoOutcome{outcomeDecided, z}},
		{"single zero adopted", n4f1, []types.Value{z, u, u}, phaseTwoOutcome{outcomeAdopted, z}},
		{"single one adopted", n4f1, []types.Value{u, o, u}, phaseTwoOutcome{outcomeAdopted, o}},
		{"no concrete vote", n4f1, []types.Value{u, u, u}, phaseTwoOutcome{kind: outcomeCoin}},
		{"F=0 decides on one vote", networkconfig.Network{Nodes: 4}, []types.Value{u, u, u, o}, phaseTwoOutcome{outcomeDecided, o}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, phaseTwoDecision(tt.votes, tt.network))
		})
	}
}
