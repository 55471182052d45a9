// Package node owns a participant's state and message store and exposes the
// operations its API serves: receive, start, stop, status and state.
package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
	"github.com/ssvlabs/benor/network/transport"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/instance"
	"github.com/ssvlabs/benor/protocol/benor/msgstore"
	"github.com/ssvlabs/benor/protocol/benor/quorum"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

// ReadyFunc reports whether every node of the network can receive messages.
type ReadyFunc func(ctx context.Context) bool

type Options struct {
	ID           int
	Network      networkconfig.Network
	InitialValue types.Value
	Faulty       bool
	// Ready gates Start. Nil means always ready.
	Ready       ReadyFunc
	Broadcaster transport.Broadcaster
	// Coin defaults to a time-seeded random coin.
	Coin          instance.Coin
	RetryInterval time.Duration
}

type Node struct {
	logger *zap.Logger
	// ctx is the node lifetime; the engine runs on it.
	ctx    context.Context
	cancel context.CancelFunc

	id            int
	network       networkconfig.Network
	ready         ReadyFunc
	retryInterval time.Duration

	state  *instance.State
	store  *msgstore.Store
	engine *instance.Instance

	startOnce sync.Once
	started   chan struct{}
	done      chan struct{}
}

func New(ctx context.Context, logger *zap.Logger, opts Options) (*Node, error) {
	if err := opts.Network.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}
	if !opts.Network.HasNode(opts.ID) {
		return nil, fmt.Errorf("node %d is not part of a %d node network", opts.ID, opts.Network.Nodes)
	}
	if !opts.InitialValue.Concrete() {
		return nil, fmt.Errorf("invalid initial value %s", opts.InitialValue)
	}
	if opts.Broadcaster == nil {
		return nil, fmt.Errorf("no broadcaster")
	}

	logger = logger.Named(logging.NameBenOrNode).With(fields.NodeID(opts.ID))
	ctx, cancel := context.WithCancel(ctx)

	n := &Node{
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		id:            opts.ID,
		network:       opts.Network,
		ready:         opts.Ready,
		retryInterval: opts.RetryInterval,
		state:         instance.NewState(opts.InitialValue, opts.Faulty),
		store:         msgstore.New(),
		started:       make(chan struct{}),
		done:          make(chan struct{}),
	}
	if n.ready == nil {
		n.ready = func(context.Context) bool { return true }
	}
	if n.retryInterval <= 0 {
		n.retryInterval = quorum.DefaultRetryInterval
	}

	engineOpts := []instance.Option{
		instance.WithLogger(logger),
		instance.WithRetryInterval(n.retryInterval),
	}
	if opts.Coin != nil {
		engineOpts = append(engineOpts, instance.WithCoin(opts.Coin))
	}
	n.engine = instance.New(opts.ID, opts.Network, n.state, n.store, opts.Broadcaster, engineOpts...)

	return n, nil
}

func (n *Node) ID() int {
	return n.id
}

func (n *Node) Faulty() bool {
	return n.state.Faulty()
}

// HandleMessage records an incoming vote. A stopped node rejects it with
// types.ErrNodeStopped; a decided node accepts it without storing.
func (n *Node) HandleMessage(msg types.Message) error {
	if n.state.Killed() {
		recordMessage(n.ctx, n.id, outcomeRejected)
		return types.ErrNodeStopped
	}
	if err := msg.Validate(); err != nil {
		recordMessage(n.ctx, n.id, outcomeMalformed)
		return err
	}
	if n.state.Decided() {
		recordMessage(n.ctx, n.id, outcomeIgnored)
		return nil
	}
	n.store.Append(msg.Phase, msg.Round, msg.Value)
	recordMessage(n.ctx, n.id, outcomeStored)
	return nil
}

// Start waits until the network is ready and then launches the engine in the
// background. Only the first call launches it; every call waits for readiness.
func (n *Node) Start(ctx context.Context) error {
	if err := n.waitReady(ctx); err != nil {
		return err
	}

	n.startOnce.Do(func() {
		n.logger.Info("starting consensus")
		close(n.started)
		go func() {
			defer close(n.done)
			start := time.Now()
			err := n.engine.Run(n.ctx)
			state := n.state.Snapshot()
			logger := n.logger.With(fields.Took(time.Since(start)), fields.Killed(state.Killed))
			if state.K != nil {
				logger = logger.With(fields.Round(*state.K))
			}
			switch {
			case err != nil:
				logger.Debug("consensus aborted", zap.Error(err))
			case state.IsDecided():
				logger.Info("consensus finished", fields.Value(*state.X))
			default:
				logger.Info("consensus halted without a decision")
			}
		}()
	})
	return nil
}

func (n *Node) waitReady(ctx context.Context) error {
	ticker := time.NewTicker(n.retryInterval)
	defer ticker.Stop()

	for !n.ready(ctx) {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("waiting for network readiness: %w", ctx.Err())
		case <-n.ctx.Done():
			return fmt.Errorf("node closed while waiting for network readiness: %w", n.ctx.Err())
		}
	}
	return nil
}

// Stop marks the node killed. The engine notices at its next round.
func (n *Node) Stop() {
	n.state.Kill()
	n.logger.Info("node stopped")
}

func (n *Node) State() types.NodeState {
	return n.state.Snapshot()
}

// Done is closed when a started engine returns.
func (n *Node) Done() <-chan struct{} {
	return n.done
}

// Close ends the node lifetime, aborting any quorum wait, and waits for a
// started engine to return.
func (n *Node) Close() {
	n.cancel()
	select {
	case <-n.started:
		<-n.done
	default:
	}
}
