package instance

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ssvlabs/benor/observability"
)

const (
	observabilityName      = "github.com/ssvlabs/benor/protocol/benor/instance"
	observabilityNamespace = "benor.instance"
)

var (
	meter = otel.Meter(observabilityName)

	roundsCounter = observability.NewMetric(
		meter.Int64Counter(
			metricName("rounds"),
			metric.WithUnit("{round}"),
			metric.WithDescription("number of rounds entered")))

	decisionsCounter = observability.NewMetric(
		meter.Int64Counter(
			metricName("decisions"),
			metric.WithUnit("{decision}"),
			metric.WithDescription("number of decisions by decided value")))

	roundOutcomesCounter = observability.NewMetric(
		meter.Int64Counter(
			metricName("round_outcomes"),
			metric.WithUnit("{round}"),
			metric.WithDescription("phase two outcomes: decided, adopted or coin")))

	sendFailuresCounter = observability.NewMetric(
		meter.Int64Counter(
			metricName("send_failures"),
			metric.WithUnit("{message}"),
			metric.WithDescription("number of votes that could not be delivered")))

	quorumWaitHistogram = observability.NewMetric(
		meter.Float64Histogram(
			metricName("quorum_wait.duration"),
			metric.WithUnit("s"),
			metric.WithDescription("time spent waiting for a phase quorum"),
			metric.WithExplicitBucketBoundaries(observability.SecondsHistogramBuckets...)))
)

func metricName(name string) string {
	return fmt.Sprintf("%s.%s", observabilityNamespace, name)
}

func outcomeAttribute(kind outcomeKind) attribute.KeyValue {
	return attribute.String("benor.round.outcome", kind.String())
}
