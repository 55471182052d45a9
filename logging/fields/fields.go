package fields

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

const (
	FieldAddress  = "address"
	FieldConfig   = "config"
	FieldCount    = "count"
	FieldDecided  = "decided"
	FieldDuration = "duration"
	FieldErrors   = "errors"
	FieldEstimate = "x"
	FieldFailed   = "failed"
	FieldKilled   = "killed"
	FieldNodeID   = "node_id"
	FieldPeer     = "peer"
	FieldPhase    = "phase"
	FieldRound    = "round"
	FieldRunID    = "run_id"
	FieldSent     = "sent"
	FieldTook     = "took"
	FieldValue    = "value"
)

func Address(val string) zapcore.Field {
	return zap.String(FieldAddress, val)
}

func Config(val fmt.Stringer) zapcore.Field {
	return zap.Stringer(FieldConfig, val)
}

func Count(val int) zapcore.Field {
	return zap.Int(FieldCount, val)
}

func Decided(val bool) zapcore.Field {
	return zap.Bool(FieldDecided, val)
}

// Duration logs the seconds elapsed since val.
func Duration(val time.Time) zapcore.Field {
	return zap.String(FieldDuration, strconv.FormatFloat(time.Since(val).Seconds(), 'f', -1, 64))
}

func Errors(errs []error) zapcore.Field {
	return zap.Errors(FieldErrors, errs)
}

// Estimate is the node's current preference x.
func Estimate(val types.Value) zapcore.Field {
	return zap.Stringer(FieldEstimate, val)
}

func Failed(val int) zapcore.Field {
	return zap.Int(FieldFailed, val)
}

func Killed(val bool) zapcore.Field {
	return zap.Bool(FieldKilled, val)
}

func NodeID(val int) zapcore.Field {
	return zap.Int(FieldNodeID, val)
}

func Peer(val int) zapcore.Field {
	return zap.Int(FieldPeer, val)
}

func Phase(val types.Phase) zapcore.Field {
	return zap.Uint8(FieldPhase, uint8(val))
}

func Round(val int) zapcore.Field {
	return zap.Int(FieldRound, val)
}

func RunID(val string) zapcore.Field {
	return zap.String(FieldRunID, val)
}

func Sent(val int) zapcore.Field {
	return zap.Int(FieldSent, val)
}

func Took(duration time.Duration) zapcore.Field {
	return zap.Duration(FieldTook, duration)
}

func Value(val types.Value) zapcore.Field {
	return zap.Stringer(FieldValue, val)
}
