// Package localnet runs a whole network of nodes in one process, each behind
// its own HTTP server on Host:BasePort+i, talking over real HTTP.
package localnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ssvlabs/benor/api/handlers"
	"github.com/ssvlabs/benor/api/server"
	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
	"github.com/ssvlabs/benor/network/transport"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/node"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

const defaultPollInterval = 50 * time.Millisecond

type Options struct {
	Network       networkconfig.Network
	InitialValues []types.Value
	// Faulty lists the ids of faulty nodes.
	Faulty        []int
	RetryInterval time.Duration
}

type LocalNet struct {
	logger  *zap.Logger
	runID   string
	network networkconfig.Network
	client  *transport.HTTP
	faulty  map[int]bool

	nodes   []*node.Node
	servers []*server.Server

	readyLock sync.RWMutex
	ready     []bool

	serveErrs chan error
}

func New(ctx context.Context, logger *zap.Logger, opts Options) (*LocalNet, error) {
	if err := opts.Network.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}
	if len(opts.InitialValues) != opts.Network.Nodes {
		return nil, fmt.Errorf("got %d initial values for %d nodes", len(opts.InitialValues), opts.Network.Nodes)
	}
	faulty := make(map[int]bool, len(opts.Faulty))
	for _, id := range opts.Faulty {
		if !opts.Network.HasNode(id) {
			return nil, fmt.Errorf("faulty node %d is not part of the network", id)
		}
		faulty[id] = true
	}
	if len(faulty) > opts.Network.FaultyNodes {
		return nil, fmt.Errorf("%d faulty nodes exceed the tolerated %d", len(faulty), opts.Network.FaultyNodes)
	}

	runID := uuid.New().String()
	logger = logger.Named(logging.NameLocalNet).With(fields.RunID(runID))

	ln := &LocalNet{
		logger:    logger,
		runID:     runID,
		network:   opts.Network,
		client:    transport.NewHTTP(opts.Network, transport.WithLogger(logger)),
		faulty:    faulty,
		ready:     make([]bool, opts.Network.Nodes),
		serveErrs: make(chan error, opts.Network.Nodes),
	}

	for id := 0; id < opts.Network.Nodes; id++ {
		n, err := node.New(ctx, logger, node.Options{
			ID:            id,
			Network:       opts.Network,
			InitialValue:  opts.InitialValues[id],
			Faulty:        faulty[id],
			Ready:         func(context.Context) bool { return ln.NodesAreReady() },
			Broadcaster:   ln.client,
			RetryInterval: opts.RetryInterval,
		})
		if err != nil {
			ln.closeNodes()
			return nil, fmt.Errorf("create node %d: %w", id, err)
		}
		ln.nodes = append(ln.nodes, n)
		ln.servers = append(ln.servers, server.New(
			logger.With(fields.NodeID(id)),
			opts.Network.Address(id),
			&handlers.Node{Logger: logger.With(fields.NodeID(id)), Node: n},
		))
	}

	return ln, nil
}

func (ln *LocalNet) RunID() string {
	return ln.runID
}

func (ln *LocalNet) Network() networkconfig.Network {
	return ln.network
}

// Node returns the in-process node id.
func (ln *LocalNet) Node(id int) *node.Node {
	return ln.nodes[id]
}

// Launch binds every node's port and starts serving. A node is marked ready
// as soon as its listener is bound.
func (ln *LocalNet) Launch(ctx context.Context) error {
	p := pool.New().WithErrors()
	listeners := make([]net.Listener, ln.network.Nodes)
	for id := range ln.servers {
		p.Go(func() error {
			var lc net.ListenConfig
			l, err := lc.Listen(ctx, "tcp", ln.network.Address(id))
			if err != nil {
				return fmt.Errorf("node %d: %w", id, err)
			}
			listeners[id] = l
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		for _, l := range listeners {
			if l != nil {
				_ = l.Close()
			}
		}
		return fmt.Errorf("launch local network: %w", err)
	}

	for id, srv := range ln.servers {
		go func() {
			if err := srv.Serve(listeners[id]); err != nil {
				ln.logger.Error("node API stopped", fields.NodeID(id), zap.Error(err))
				ln.serveErrs <- err
			}
		}()
		ln.setNodeIsReady(id)
		ln.logger.Debug("node is listening", fields.NodeID(id), fields.Address(listeners[id].Addr().String()))
	}

	ln.logger.Info("local network launched",
		fields.Count(ln.network.Nodes),
		zap.Int("faulty", len(ln.faulty)))
	return nil
}

func (ln *LocalNet) setNodeIsReady(id int) {
	ln.readyLock.Lock()
	defer ln.readyLock.Unlock()
	ln.ready[id] = true
}

// NodesAreReady reports whether every node has been launched.
func (ln *LocalNet) NodesAreReady() bool {
	ln.readyLock.RLock()
	defer ln.readyLock.RUnlock()
	for _, ready := range ln.ready {
		if !ready {
			return false
		}
	}
	return true
}

// StartConsensus calls /start on every node, the way an operator would.
func (ln *LocalNet) StartConsensus(ctx context.Context) error {
	p := pool.New().WithErrors().WithContext(ctx)
	for id := 0; id < ln.network.Nodes; id++ {
		p.Go(func(ctx context.Context) error {
			return ln.client.Start(ctx, id)
		})
	}
	return p.Wait()
}

// StopNode calls /stop on node id.
func (ln *LocalNet) StopNode(ctx context.Context, id int) error {
	return ln.client.Stop(ctx, id)
}

// States fetches /getState from every node.
func (ln *LocalNet) States(ctx context.Context) ([]types.NodeState, error) {
	states := make([]types.NodeState, ln.network.Nodes)
	p := pool.New().WithErrors().WithContext(ctx)
	for id := 0; id < ln.network.Nodes; id++ {
		p.Go(func(ctx context.Context) error {
			state, err := ln.client.State(ctx, id)
			if err != nil {
				return err
			}
			states[id] = state
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

// WaitForDecisions polls the nodes until every live node that was not stopped
// has decided, and returns the last states seen. It gives up when ctx is done.
func (ln *LocalNet) WaitForDecisions(ctx context.Context) ([]types.NodeState, error) {
	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	for {
		states, err := ln.States(ctx)
		if err == nil && allDecided(states, ln.faulty) {
			return states, nil
		}
		select {
		case <-ticker.C:
		case err := <-ln.serveErrs:
			return states, fmt.Errorf("node API failed: %w", err)
		case <-ctx.Done():
			return states, fmt.Errorf("waiting for decisions: %w", ctx.Err())
		}
	}
}

func allDecided(states []types.NodeState, faulty map[int]bool) bool {
	for id, state := range states {
		if faulty[id] || state.Killed {
			continue
		}
		if !state.IsDecided() {
			return false
		}
	}
	return true
}

// Close shuts down every server and node.
func (ln *LocalNet) Close(ctx context.Context) error {
	var err error
	for id, srv := range ln.servers {
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown node %d: %w", id, shutdownErr))
		}
	}
	ln.closeNodes()
	ln.logger.Info("local network closed")
	return err
}

func (ln *LocalNet) closeNodes() {
	for _, n := range ln.nodes {
		n.Close()
	}
}
