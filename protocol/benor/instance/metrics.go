package instance

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ssvlabs/benor/observability"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

type metrics struct {
	nodeID    int
	waitStart time.Time
}

func newMetrics(nodeID int) *metrics {
	return &metrics{nodeID: nodeID}
}

func (m *metrics) RoundStarted(ctx context.Context) {
	roundsCounter.Add(ctx, 1, metric.WithAttributes(
		observability.NodeIDAttribute(m.nodeID)))
}

func (m *metrics) StartWait() {
	m.waitStart = time.Now()
}

func (m *metrics) EndWait(ctx context.Context, phase types.Phase) time.Duration {
	took := time.Since(m.waitStart)
	quorumWaitHistogram.Record(ctx, took.Seconds(), metric.WithAttributes(
		observability.NodeIDAttribute(m.nodeID),
		observability.PhaseAttribute(phase)))
	return took
}

func (m *metrics) RoundOutcome(ctx context.Context, outcome phaseTwoOutcome) {
	roundOutcomesCounter.Add(ctx, 1, metric.WithAttributes(
		observability.NodeIDAttribute(m.nodeID),
		outcomeAttribute(outcome.kind)))
	if outcome.kind == outcomeDecided {
		decisionsCounter.Add(ctx, 1, metric.WithAttributes(
			observability.NodeIDAttribute(m.nodeID),
			observability.ValueAttribute(outcome.value)))
	}
}

func (m *metrics) SendFailures(ctx context.Context, phase types.Phase, failed int) {
	if failed == 0 {
		return
	}
	sendFailuresCounter.Add(ctx, int64(failed), metric.WithAttributes(
		observability.NodeIDAttribute(m.nodeID),
		observability.PhaseAttribute(phase)))
}
