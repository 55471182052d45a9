package node

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ssvlabs/benor/observability"
)

const (
	observabilityName      = "github.com/ssvlabs/benor/protocol/benor/node"
	observabilityNamespace = "benor.node"
)

const (
	outcomeStored    = "stored"
	outcomeIgnored   = "ignored"
	outcomeRejected  = "rejected"
	outcomeMalformed = "malformed"
)

var (
	meter = otel.Meter(observabilityName)

	messagesReceivedCounter = observability.NewMetric(
		meter.Int64Counter(
			metricName("messages.received"),
			metric.WithUnit("{message}"),
			metric.WithDescription("number of protocol messages received by outcome")))
)

func metricName(name string) string {
	return fmt.Sprintf("%s.%s", observabilityNamespace, name)
}

func recordMessage(ctx context.Context, nodeID int, outcome string) {
	messagesReceivedCounter.Add(ctx, 1, metric.WithAttributes(
		observability.NodeIDAttribute(nodeID),
		observability.MessageOutcomeAttribute(outcome)))
}
