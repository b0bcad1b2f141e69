// Package logger provides structured slog loggers. All logs are written in
// JSON format to rotated files under the configured log directory:
//
//	<logDir>/<name>.log    one file per command (serve, dev, bootstrap)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 20
	maxBackups = 5
	maxAgeDays = 28
)

// NewFileLogger creates a JSON slog.Logger that writes to <logDir>/<name>.log
// with size-based rotation. The directory is created if it does not exist.
// The returned closer flushes and closes the current log file.
func NewFileLogger(logDir, name string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, name+".log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return New(w, level).With("component", name), w, nil
}

// New creates a JSON slog.Logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
