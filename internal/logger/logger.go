package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const name = "jobhunter"

// New builds the application logger. Logs go to stderr so that command output
// (tables, stats JSON, letters) can be piped from stdout.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoder := zapcore.EncoderConfig{
		MessageKey:   "step",
		LevelKey:     "level",
		TimeKey:      "time",
		NameKey:      "logger",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalColorLevelEncoder,
		EncodeTime:   zapcore.RFC3339TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
		EncodeName:   zapcore.FullNameEncoder,
	}

	cfg := zap.Config{
		Encoding:          "console",
		Level:             level,
		DisableStacktrace: !debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoder,
	}
	if json {
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Named(name), nil
}
