package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var emptyBuffers = buffer.NewPool()

func newEncoder(logFormat string, config zapcore.EncoderConfig) (zapcore.Encoder, error) {
	switch logFormat {
	case "console", "":
		return zapcore.NewConsoleEncoder(config), nil
	case "json":
		return zapcore.NewJSONEncoder(config), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", logFormat)
	}
}

// quietEncoder drops debug entries of the named loggers, e.g. per-peer transport noise.
type quietEncoder struct {
	zapcore.Encoder
	quietLoggers []string
}

func (q quietEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	if entry.Level == zap.DebugLevel {
		for _, name := range q.quietLoggers {
			if strings.Contains(entry.LoggerName, name) {
				return emptyBuffers.Get(), nil
			}
		}
	}
	return q.Encoder.EncodeEntry(entry, fields)
}

func (q quietEncoder) Clone() zapcore.Encoder {
	return quietEncoder{
		Encoder:      q.Encoder.Clone(),
		quietLoggers: q.quietLoggers,
	}
}
