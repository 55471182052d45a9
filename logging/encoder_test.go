package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestQuietEncoder(t *testing.T) {
	enc := quietEncoder{
		Encoder:      zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		quietLoggers: []string{NameTransport},
	}

	tests := []struct {
		name   string
		entry  zapcore.Entry
		silent bool
	}{
		{
			name:   "debug from quiet logger",
			entry:  zapcore.Entry{Level: zapcore.DebugLevel, LoggerName: "node-1.Transport", Message: "send failed"},
			silent: true,
		},
		{
			name:  "info from quiet logger",
			entry: zapcore.Entry{Level: zapcore.InfoLevel, LoggerName: "node-1.Transport", Message: "ready"},
		},
		{
			name:  "debug from other logger",
			entry: zapcore.Entry{Level: zapcore.DebugLevel, LoggerName: "node-1.BenOrInstance", Message: "round"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := enc.Clone().EncodeEntry(tt.entry, nil)
			require.NoError(t, err)
			if tt.silent {
				require.Zero(t, buf.Len())
			} else {
				require.Contains(t, buf.String(), tt.entry.Message)
			}
		})
	}
}

func TestSetGlobalLogger(t *testing.T) {
	require.NoError(t, SetGlobalLogger("info", "capitalColor", "json", nil))
	require.NoError(t, SetGlobalLogger("debug", "lowercase", "console", &LogFileOptions{FilePath: t.TempDir() + "/node.log"}, NameTransport))
	require.Error(t, SetGlobalLogger("loud", "capital", "console", nil))
	require.Error(t, SetGlobalLogger("info", "capital", "xml", nil))
}
