package localnet

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

// freeBasePort finds n consecutive free ports on 127.0.0.1.
func freeBasePort(t *testing.T, n int) int {
	for range 50 {
		base := 20000 + rand.IntN(30000)
		free := true
		for i := 0; i < n && free; i++ {
			l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", base+i))
			if err != nil {
				free = false
				continue
			}
			_ = l.Close()
		}
		if free {
			return base
		}
	}
	t.Fatal("no free port range")
	return 0
}

func launch(t *testing.T, nodes, faultyNodes int, initial []types.Value, faulty []int) *LocalNet {
	network := networkconfig.Network{
		Nodes:       nodes,
		FaultyNodes: faultyNodes,
		Host:        "127.0.0.1",
		BasePort:    freeBasePort(t, nodes),
	}
	ln, err := New(context.Background(), logging.TestLogger(t), Options{
		Network:       network,
		InitialValues: initial,
		Faulty:        faulty,
	})
	require.NoError(t, err)
	require.False(t, ln.NodesAreReady())

	require.NoError(t, ln.Launch(context.Background()))
	require.True(t, ln.NodesAreReady())
	require.NotEmpty(t, ln.RunID())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, ln.Close(ctx))
	})
	return ln
}

func TestLocalNet_ScenarioA(t *testing.T) {
	ln := launch(t, 4, 1, []types.Value{types.Zero, types.Zero, types.Zero, types.One}, []int{3})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, ln.StartConsensus(ctx))
	states, err := ln.WaitForDecisions(ctx)
	require.NoError(t, err)

	for id, state := range states[:3] {
		require.True(t, state.IsDecided(), "node %d", id)
		require.Equal(t, types.Zero, *state.X, "node %d", id)
	}
	require.Nil(t, states[3].X)
	require.Nil(t, states[3].Decided)
	require.Nil(t, states[3].K)
}

func TestLocalNet_ScenarioB(t *testing.T) {
	ln := launch(t, 4, 0, []types.Value{types.One, types.One, types.One, types.One}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, ln.StartConsensus(ctx))
	states, err := ln.WaitForDecisions(ctx)
	require.NoError(t, err)

	for id, state := range states {
		require.True(t, state.IsDecided(), "node %d", id)
		require.Equal(t, types.One, *state.X, "node %d", id)
		require.Equal(t, 1, *state.K, "node %d", id)
	}
}

func TestLocalNet_StopBeforeStart(t *testing.T) {
	ln := launch(t, 3, 1, []types.Value{types.One, types.Zero, types.One}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, ln.StopNode(ctx, 1))
	require.NoError(t, ln.StopNode(ctx, 1))

	states, err := ln.States(ctx)
	require.NoError(t, err)
	require.True(t, states[1].Killed)
	require.False(t, states[1].IsDecided())
	require.Equal(t, 0, *states[1].K)

	select {
	case <-ln.Node(1).Done():
		t.Fatal("engine ran before start")
	default:
	}
}

func TestNew_Validation(t *testing.T) {
	logger := logging.TestLogger(t)
	network := networkconfig.LocalNetwork

	_, err := New(context.Background(), logger, Options{Network: network, InitialValues: []types.Value{types.One}})
	require.Error(t, err)

	_, err = New(context.Background(), logger, Options{
		Network:       network,
		InitialValues: []types.Value{types.One, types.One, types.One, types.One},
		Faulty:        []int{1, 2},
	})
	require.Error(t, err)

	_, err = New(context.Background(), logger, Options{
		Network:       network,
		InitialValues: []types.Value{types.One, types.One, types.One, types.One},
		Faulty:        []int{7},
	})
	require.Error(t, err)
}

func TestAllDecided(t *testing.T) {
	decided := types.NewNodeState(types.One, false)
	*decided.Decided = true
	undecided := types.NewNodeState(types.Zero, false)
	killed := types.NewNodeState(types.Zero, false)
	killed.Killed = true
	faulty := types.NewNodeState(types.Zero, true)

	require.True(t, allDecided([]types.NodeState{decided, killed, faulty}, map[int]bool{2: true}))
	require.False(t, allDecided([]types.NodeState{decided, undecided}, nil))
}
