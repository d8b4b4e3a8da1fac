package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger writing to w. Info and above are logged by
// default; verbose enables debug and prefixes each line with its level.
func New(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	levelKey := ""
	if verbose {
		level = zapcore.DebugLevel
		levelKey = "level"
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         levelKey,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: "\t",
	})
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
