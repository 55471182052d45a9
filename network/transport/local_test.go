package transport

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

type recordingReceiver struct {
	lock     sync.Mutex
	err      error
	messages []types.Message
}

func (r *recordingReceiver) HandleMessage(msg types.Message) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func TestLocal_Broadcast(t *testing.T) {
	l := NewLocal(3)
	receivers := []*recordingReceiver{{}, {}, {err: types.ErrNodeStopped}}
	for id, r := range receivers {
		l.Register(id, r)
	}

	msg := types.Message{Phase: types.PhaseOne, Round: 1, Value: types.One}
	res := l.Broadcaster(0).Broadcast(context.Background(), msg)

	require.Equal(t, Result{Sent: 2, Failed: 1}, res)
	require.Equal(t, []types.Message{msg}, receivers[0].messages)
	require.Equal(t, []types.Message{msg}, receivers[1].messages)
	require.Equal(t, 1, l.Broadcasts(0))
	require.Zero(t, l.Broadcasts(1))
}

func TestLocal_DropFilterAndMissingReceiver(t *testing.T) {
	l := NewLocal(3)
	r0, r1 := &recordingReceiver{}, &recordingReceiver{}
	l.Register(0, r0)
	l.Register(1, r1)
	l.SetDropFilter(func(from, to int, msg types.Message) bool {
		return to == 1 && msg.Phase == types.PhaseTwo
	})

	res := l.Broadcaster(2).Broadcast(context.Background(), types.Message{Phase: types.PhaseTwo, Round: 1, Value: types.Zero})
	require.Equal(t, Result{Sent: 1, Failed: 2}, res)
	require.Len(t, r0.messages, 1)
	require.Empty(t, r1.messages)
}
