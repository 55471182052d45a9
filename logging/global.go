package logging

import (
	"io"
	"log"
	"os"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileOptions enables a rotated JSON log file next to the console output.
type LogFileOptions struct {
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
}

func (o *LogFileOptions) writer() io.Writer {
	maxSize, maxBackups := o.MaxSize, o.MaxBackups
	if maxSize == 0 {
		maxSize = 500
	}
	if maxBackups == 0 {
		maxBackups = 3
	}
	return &lumberjack.Logger{
		Filename:   o.FilePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     28, // days
		Compress:   false,
	}
}

func parseConfigLevelEncoder(levelEncoderName string) zapcore.LevelEncoder {
	switch levelEncoderName {
	case "capitalColor":
		return zapcore.CapitalColorLevelEncoder
	case "capital":
		return zapcore.CapitalLevelEncoder
	case "lowercase":
		return zapcore.LowercaseLevelEncoder
	default:
		return zapcore.CapitalLevelEncoder
	}
}

// SetGlobalLogger replaces zap's global logger. Debug entries of loggers whose
// name contains one of quietLoggers are dropped from the console.
func SetGlobalLogger(levelName, levelEncoderName, logFormat string, fileOptions *LogFileOptions, quietLoggers ...string) error {
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return err
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:  "message",
		LevelKey:    "level",
		EncodeLevel: parseConfigLevelEncoder(levelEncoderName),
		TimeKey:     "time",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000000Z"))
		},
		CallerKey:        "caller",
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		NameKey:          "name",
		ConsoleSeparator: "\t",
	}

	consoleEncoder, err := newEncoder(logFormat, encoderConfig)
	if err != nil {
		return err
	}
	if len(quietLoggers) > 0 {
		consoleEncoder = quietEncoder{Encoder: consoleEncoder, quietLoggers: quietLoggers}
	}

	lv := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= level
	})
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), lv)

	if fileOptions == nil || fileOptions.FilePath == "" {
		zap.ReplaceGlobals(zap.New(consoleCore))
		return nil
	}

	// the file gets everything, debug included
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(fileOptions.writer()),
		zap.LevelEnablerFunc(func(zapcore.Level) bool { return true }),
	)
	zap.ReplaceGlobals(zap.New(zapcore.NewTee(consoleCore, fileCore)))
	return nil
}

func CapturePanic(logger *zap.Logger) {
	if r := recover(); r != nil {
		defer func() {
			if err := logger.Sync(); err != nil {
				log.Println("failed to sync zap.Logger", err)
			}
		}()
		stackTrace := string(debug.Stack())
		logger.Panic("Recovered from panic", zap.Any("panic", r), zap.String("stackTrace", stackTrace))
	}
}
