package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// Receiver accepts messages delivered by a Local transport.
type Receiver interface {
	HandleMessage(msg types.Message) error
}

// DropFilter returns true for deliveries that should be lost.
type DropFilter func(from, to int, msg types.Message) bool

// Local is an in-memory network of N receivers. Deliveries are synchronous
// and follow the same rules as HTTP: a receiver error counts as a failed send.
type Local struct {
	nodes int

	lock       sync.RWMutex
	receivers  map[int]Receiver
	drop       DropFilter
	broadcasts map[int]int
}

func NewLocal(nodes int) *Local {
	return &Local{
		nodes:      nodes,
		receivers:  make(map[int]Receiver, nodes),
		broadcasts: make(map[int]int, nodes),
	}
}

func (l *Local) Register(id int, r Receiver) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.receivers[id] = r
}

func (l *Local) SetDropFilter(f DropFilter) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.drop = f
}

// Broadcaster returns the endpoint node from sends through.
func (l *Local) Broadcaster(from int) Broadcaster {
	return localEndpoint{local: l, from: from}
}

// Broadcasts returns how many broadcasts node from has made.
func (l *Local) Broadcasts(from int) int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.broadcasts[from]
}

func (l *Local) send(from, to int, msg types.Message) error {
	l.lock.RLock()
	r, ok := l.receivers[to]
	drop := l.drop
	l.lock.RUnlock()

	if !ok {
		return fmt.Errorf("node %d is not registered", to)
	}
	if drop != nil && drop(from, to, msg) {
		return fmt.Errorf("dropped %s from %d to %d", msg, from, to)
	}
	return r.HandleMessage(msg)
}

type localEndpoint struct {
	local *Local
	from  int
}

func (e localEndpoint) Broadcast(ctx context.Context, msg types.Message) Result {
	e.local.lock.Lock()
	e.local.broadcasts[e.from]++
	e.local.lock.Unlock()

	var res Result
	for to := 0; to < e.local.nodes; to++ {
		if ctx.Err() != nil {
			res.Failed++
			continue
		}
		if err := e.local.send(e.from, to, msg); err != nil {
			res.Failed++
			continue
		}
		res.Sent++
	}
	return res
}
