package types

import (
	"encoding/json"
	"fmt"
)

// Phase is one of the two sub-steps of a Ben-Or round.
type Phase uint8

const (
	PhaseOne Phase = 1
	PhaseTwo Phase = 2
)

func (p Phase) Valid() bool {
	return p == PhaseOne || p == PhaseTwo
}

func (p Phase) String() string {
	return fmt.Sprintf("phase-%d", uint8(p))
}

// Message is a single vote. It carries no sender identity, so duplicate
// deliveries are indistinguishable from votes of distinct nodes.
type Message struct {
	Phase Phase `json:"phase"`
	Round int   `json:"k"`
	Value Value `json:"value"`
}

// Validate checks phase, round and value ranges.
func (m Message) Validate() error {
	if !m.Phase.Valid() {
		return fmt.Errorf("%w: unknown phase %d", ErrMalformedMessage, m.Phase)
	}
	if m.Round < 1 {
		return fmt.Errorf("%w: invalid round %d", ErrMalformedMessage, m.Round)
	}
	if !m.Value.Valid() {
		return fmt.Errorf("%w: invalid value %s", ErrMalformedMessage, m.Value)
	}
	return nil
}

// UnmarshalJSON rejects messages with missing fields, so that an absent value
// is never mistaken for Zero.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Phase *Phase `json:"phase"`
		Round *int   `json:"k"`
		Value *Value `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMessage, err.Error())
	}
	if raw.Phase == nil || raw.Round == nil || raw.Value == nil {
		return fmt.Errorf("%w: missing field", ErrMalformedMessage)
	}
	msg := Message{Phase: *raw.Phase, Round: *raw.Round, Value: *raw.Value}
	if err := msg.Validate(); err != nil {
		return err
	}
	*m = msg
	return nil
}

func (m Message) String() string {
	return fmt.Sprintf("{phase:%d k:%d value:%s}", m.Phase, m.Round, m.Value)
}

// Envelope is the body exchanged on the peer endpoint: {"message": {...}}.
type Envelope struct {
	Message *Message `json:"message"`
}

// Validate makes sure the envelope wraps a message.
func (e Envelope) Validate() error {
	if e.Message == nil {
		return fmt.Errorf("%w: missing message", ErrMalformedMessage)
	}
	return e.Message.Validate()
}
