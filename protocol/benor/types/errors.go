package types

import "errors"

var (
	// ErrMalformedMessage is returned for protocol messages that cannot be decoded
	// or carry an unknown phase, round or value. Such messages are dropped.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrNodeStopped is returned when a stopped node receives a protocol message.
	ErrNodeStopped = errors.New("node is stopped")
)
