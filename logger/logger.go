package logger

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger - Initialize the global zap logger.
// Output goes to logPath when set, otherwise to stderr; stdout is reserved for command output.
func InitLogger(debug bool, logPath string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	output := "stderr"
	if logPath != "" {
		output = logPath
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Sync flushes the global logger, ignoring errors from non-syncable outputs.
func Sync() {
	_ = zap.L().Sync()
}
