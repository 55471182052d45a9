// Package instance runs the Ben-Or round state machine of a single node.
package instance

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
	"github.com/ssvlabs/benor/network/transport"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/msgstore"
	"github.com/ssvlabs/benor/protocol/benor/quorum"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

// Instance is one node's consensus engine. Run it at most once.
type Instance struct {
	logger        *zap.Logger
	id            int
	network       networkconfig.Network
	state         *State
	store         *msgstore.Store
	broadcaster   transport.Broadcaster
	coin          Coin
	retryInterval time.Duration
	metrics       *metrics

	inflight sync.WaitGroup
}

type Option func(*Instance)

func WithLogger(logger *zap.Logger) Option {
	return func(i *Instance) {
		i.logger = logger
	}
}

func WithCoin(coin Coin) Option {
	return func(i *Instance) {
		i.coin = coin
	}
}

// WithRetryInterval sets how often a quorum wait re-checks its bucket
// without being woken by an append.
func WithRetryInterval(d time.Duration) Option {
	return func(i *Instance) {
		i.retryInterval = d
	}
}

func New(
	id int,
	network networkconfig.Network,
	state *State,
	store *msgstore.Store,
	broadcaster transport.Broadcaster,
	opts ...Option,
) *Instance {
	i := &Instance{
		logger:        zap.NewNop(),
		id:            id,
		network:       network,
		state:         state,
		store:         store,
		broadcaster:   broadcaster,
		coin:          NewRandomCoin(uint64(time.Now().UnixNano())),
		retryInterval: quorum.DefaultRetryInterval,
		metrics:       newMetrics(id),
	}

	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.Named(logging.NameBenOrInstance).With(fields.NodeID(id))

	return i
}

// Run executes rounds until the node decides or the round-entry guard fires
// (faulty, killed or missing state). Stopping the node is only noticed between
// rounds: a round already waiting for a quorum keeps waiting. ctx is the
// process lifetime and is the only way to abort a wait.
//
// Run returns ctx.Err() when aborted, nil otherwise. Broadcasts still in
// flight are awaited before returning.
func (i *Instance) Run(ctx context.Context) error {
	defer i.inflight.Wait()

	for {
		round, x, ok := i.state.enterRound()
		if !ok {
			state := i.state.Snapshot()
			i.logger.Debug("engine stopped",
				fields.Killed(state.Killed),
				fields.Decided(state.IsDecided()))
			return nil
		}
		i.metrics.RoundStarted(ctx)
		logger := i.logger.With(fields.Round(round))
		logger.Debug("round started", fields.Estimate(x))

		i.broadcast(ctx, logger, types.Message{Phase: types.PhaseOne, Round: round, Value: x})
		votes, err := i.wait(ctx, logger, types.PhaseOne, round, quorum.ConcreteAtLeast(i.network.Quorum()))
		if err != nil {
			return err
		}

		next := phaseOneEstimate(votes, i.network)
		logger.Debug("phase one aggregated", fields.Count(len(votes)), fields.Value(next))

		i.broadcast(ctx, logger, types.Message{Phase: types.PhaseTwo, Round: round, Value: next})
		votes, err = i.wait(ctx, logger, types.PhaseTwo, round, quorum.AtLeast(i.network.Quorum()))
		if err != nil {
			return err
		}

		outcome := phaseTwoDecision(votes, i.network)
		switch outcome.kind {
		case outcomeDecided:
			i.state.decide(outcome.value)
			logger.Info("decided", fields.Value(outcome.value))
		case outcomeAdopted:
			i.state.setEstimate(outcome.value)
			logger.Debug("adopted estimate", fields.Value(outcome.value))
		case outcomeCoin:
			outcome.value = i.coin.Flip()
			i.state.setEstimate(outcome.value)
			logger.Debug("no concrete vote, flipped coin", fields.Value(outcome.value))
		}
		i.metrics.RoundOutcome(ctx, outcome)

		if outcome.kind == outcomeDecided {
			return nil
		}
	}
}

// broadcast sends msg without waiting for delivery.
func (i *Instance) broadcast(ctx context.Context, logger *zap.Logger, msg types.Message) {
	i.inflight.Add(1)
	go func() {
		defer i.inflight.Done()
		res := i.broadcaster.Broadcast(ctx, msg)
		i.metrics.SendFailures(ctx, msg.Phase, res.Failed)
		logger.Debug("broadcast done",
			fields.Phase(msg.Phase),
			fields.Sent(res.Sent),
			fields.Failed(res.Failed))
	}()
}

func (i *Instance) wait(ctx context.Context, logger *zap.Logger, phase types.Phase, round int, predicate quorum.Predicate) ([]types.Value, error) {
	i.metrics.StartWait()
	votes, err := quorum.Wait(ctx, i.store, phase, round, predicate, i.retryInterval)
	took := i.metrics.EndWait(ctx, phase)
	if err != nil {
		logger.Debug("quorum wait aborted", fields.Phase(phase), zap.Error(err))
		return nil, err
	}
	logger.Debug("quorum reached", fields.Phase(phase), fields.Count(len(votes)), fields.Took(took))
	return votes, nil
}
