package observability

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

func NodeIDAttribute(id int) attribute.KeyValue {
	return attribute.Int("benor.node.id", id)
}

func RoundAttribute(round int) attribute.KeyValue {
	return attribute.Int("benor.round", round)
}

func PhaseAttribute(phase types.Phase) attribute.KeyValue {
	return attribute.Int("benor.phase", int(phase))
}

func ValueAttribute(value types.Value) attribute.KeyValue {
	return attribute.String("benor.value", value.String())
}

// MessageOutcomeAttribute tags received messages, e.g. "stored", "ignored", "rejected".
func MessageOutcomeAttribute(outcome string) attribute.KeyValue {
	return attribute.String("benor.message.outcome", outcome)
}
