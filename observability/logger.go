package observability

import (
	"go.uber.org/zap"

	"github.com/ssvlabs/benor/logging"
)

var logger = zap.NewNop()

func initLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named(logging.NameObservability)
	return logger
}
