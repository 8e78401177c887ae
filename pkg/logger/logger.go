// ABOUTME: Structured logging built on zap
// ABOUTME: File-backed output so the TUI screen stays clean
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a JSON logger at the given level writing to the given paths.
// With no paths it logs to a file under the XDG state directory, never to
// stdout: the TUI owns the terminal.
func New(level string, paths ...string) (*zap.Logger, error) {
	if len(paths) == 0 {
		path := filepath.Join(xdg.StateHome, "fbconsole", "console.log")
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
		paths = []string{path}
	}

	config := zap.Config{
		Level:    zap.NewAtomicLevelAt(parseLevel(level)),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
		},
		OutputPaths:      paths,
		ErrorOutputPaths: paths,
	}

	return config.Build()
}

// Nop returns a logger that discards everything; used in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
