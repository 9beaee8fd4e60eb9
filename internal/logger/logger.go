// Package logger provides a small wrapper around slog. The TUI owns
// stdout, so logs are written to a file under the config directory.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global logger instance. It discards output until Init
// points it at a file.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init directs the global logger at the given file, creating parent
// directories as needed.
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	Logger = slog.New(slog.NewTextHandler(f, nil))
	return nil
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
