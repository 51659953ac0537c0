// Package logging builds the slog logger used by every command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/runnerr0/bikeshare/internal/config"
)

// Logger wraps a slog.Logger together with the file it writes to, if any.
type Logger struct {
	*slog.Logger
	Session string
	file    *os.File
}

// New creates a logger from cfg. Records go to cfg.File when set, else to w.
// verbose forces the debug level. Every record carries a session id.
func New(cfg config.LoggingConfig, w io.Writer, verbose bool) (*Logger, error) {
	level := ParseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	l := &Logger{Session: uuid.NewString()}
	out := w
	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		l.file = f
		out = f
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	l.Logger = slog.New(handler).With(slog.String("session", l.Session))
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel converts a level name to slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openLogFile opens or creates a log file in append mode.
func openLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}
