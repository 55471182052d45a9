package types

import (
	"bytes"
	"fmt"
)

// Value is a binary consensus value, or Unknown when a node saw no majority.
type Value int8

const (
	Zero Value = iota
	One
	// Unknown is sent in phase two when phase one produced no majority.
	// It is a real vote and differs from a message that never arrived.
	Unknown
)

const unknownSymbol = "?"

func (v Value) String() string {
	switch v {
	case Zero:
		return "0"
	case One:
		return "1"
	case Unknown:
		return unknownSymbol
	default:
		return fmt.Sprintf("Value(%d)", int8(v))
	}
}

// Valid reports whether v is one of Zero, One or Unknown.
func (v Value) Valid() bool {
	return v == Zero || v == One || v == Unknown
}

// Concrete reports whether v is Zero or One.
func (v Value) Concrete() bool {
	return v == Zero || v == One
}

// MarshalJSON encodes Zero and One as numbers and Unknown as "?".
func (v Value) MarshalJSON() ([]byte, error) {
	switch v {
	case Zero:
		return []byte("0"), nil
	case One:
		return []byte("1"), nil
	case Unknown:
		return []byte(`"` + unknownSymbol + `"`), nil
	default:
		return nil, fmt.Errorf("cannot encode %s", v)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "0":
		*v = Zero
	case "1":
		*v = One
	case `"` + unknownSymbol + `"`:
		*v = Unknown
	default:
		return fmt.Errorf("%w: invalid value %s", ErrMalformedMessage, data)
	}
	return nil
}

// ParseValue parses the textual form used in configuration and flags.
// Only concrete values are accepted, since a node never starts from Unknown.
func ParseValue(s string) (Value, error) {
	switch s {
	case "0":
		return Zero, nil
	case "1":
		return One, nil
	default:
		return Zero, fmt.Errorf("invalid initial value %q, expected 0 or 1", s)
	}
}

// Tally counts the concrete and unknown votes in values.
func Tally(values []Value) (zeros, ones, unknowns int) {
	for _, v := range values {
		switch v {
		case Zero:
			zeros++
		case One:
			ones++
		case Unknown:
			unknowns++
		}
	}
	return zeros, ones, unknowns
}
