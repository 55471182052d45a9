package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/types"
	"github.com/ssvlabs/benor/utils/commons"
)

const defaultRequestTimeout = 5 * time.Second

// HTTP talks to the nodes of a network through their HTTP API.
type HTTP struct {
	logger     *zap.Logger
	network    networkconfig.Network
	httpClient *http.Client
}

type Option func(*HTTP)

func WithLogger(logger *zap.Logger) Option {
	return func(h *HTTP) {
		h.logger = logger.Named(logging.NameTransport)
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(h *HTTP) {
		h.httpClient = client
	}
}

func NewHTTP(network networkconfig.Network, opts ...Option) *HTTP {
	h := &HTTP{
		logger:  zap.NewNop(),
		network: network,
		httpClient: &http.Client{
			Timeout:   defaultRequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Send delivers msg to node to. Any non-2xx answer, e.g. a stopped peer, is an error.
func (h *HTTP) Send(ctx context.Context, to int, msg types.Message) error {
	err := requests.
		URL(h.network.URL(to)).
		Client(h.httpClient).
		UserAgent(commons.GetBuildData()).
		Path("/message").
		BodyJSON(types.Envelope{Message: &msg}).
		Post().
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("send %s to node %d: %w", msg, to, err)
	}
	return nil
}

// Broadcast sends msg to all N nodes concurrently and waits for every attempt.
func (h *HTTP) Broadcast(ctx context.Context, msg types.Message) Result {
	var sent, failed atomic.Int64

	p := pool.New().WithMaxGoroutines(h.network.Nodes)
	for id := 0; id < h.network.Nodes; id++ {
		p.Go(func() {
			if err := h.Send(ctx, id, msg); err != nil {
				failed.Add(1)
				h.logger.Debug("send failed", fields.Peer(id), zap.Error(err))
				return
			}
			sent.Add(1)
		})
	}
	p.Wait()

	return Result{Sent: int(sent.Load()), Failed: int(failed.Load())}
}

// Reachable reports whether node id answers /status at all. A faulty node
// answers with 500 and still counts as up.
func (h *HTTP) Reachable(ctx context.Context, id int) bool {
	err := requests.
		URL(h.network.URL(id)).
		Client(h.httpClient).
		Path("/status").
		AddValidator(func(*http.Response) error { return nil }).
		Fetch(ctx)
	return err == nil
}

// AllReachable reports whether every node of the network is up.
func (h *HTTP) AllReachable(ctx context.Context) bool {
	var down atomic.Int64

	p := pool.New().WithMaxGoroutines(h.network.Nodes)
	for id := 0; id < h.network.Nodes; id++ {
		p.Go(func() {
			if !h.Reachable(ctx, id) {
				down.Add(1)
			}
		})
	}
	p.Wait()

	return down.Load() == 0
}

// Status returns whether node id reports itself live.
func (h *HTTP) Status(ctx context.Context, id int) (live bool, err error) {
	err = requests.
		URL(h.network.URL(id)).
		Client(h.httpClient).
		Path("/status").
		Fetch(ctx)
	if requests.HasStatusErr(err, http.StatusInternalServerError) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("status of node %d: %w", id, err)
	}
	return true, nil
}

// Start asks node id to start consensus. The node answers once the whole
// network is ready, so ctx should allow for that.
func (h *HTTP) Start(ctx context.Context, id int) error {
	var resp string
	err := requests.
		URL(h.network.URL(id)).
		Client(h.controlClient()).
		Path("/start").
		ToString(&resp).
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("start node %d: %w", id, err)
	}
	return nil
}

func (h *HTTP) Stop(ctx context.Context, id int) error {
	err := requests.
		URL(h.network.URL(id)).
		Client(h.httpClient).
		Path("/stop").
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("stop node %d: %w", id, err)
	}
	return nil
}

func (h *HTTP) State(ctx context.Context, id int) (types.NodeState, error) {
	var state types.NodeState
	err := requests.
		URL(h.network.URL(id)).
		Client(h.httpClient).
		Path("/getState").
		ToJSON(&state).
		Fetch(ctx)
	if err != nil {
		return types.NodeState{}, fmt.Errorf("state of node %d: %w", id, err)
	}
	return state, nil
}

// controlClient drops the per-request timeout; /start may block until all
// nodes are up and is bounded by the caller's context instead.
func (h *HTTP) controlClient() *http.Client {
	c := *h.httpClient
	c.Timeout = 0
	return &c
}
