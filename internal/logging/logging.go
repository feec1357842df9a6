// Package logging builds the slog loggers photowall hands to its components.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options configures Setup.
type Options struct {
	File  string
	Level string
	// Mirror receives a copy of every record when set (headless mode uses stderr).
	Mirror io.Writer
}

// Setup opens the log file for appending and returns a JSON logger writing to
// it, along with the file so the caller can close it on shutdown.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	logPath := opts.File
	if strings.HasPrefix(logPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve home dir: %w", err)
		}
		logPath = filepath.Join(home, logPath[1:])
	}
	if strings.TrimSpace(logPath) == "" {
		return nil, nil, fmt.Errorf("log file path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = file
	if opts.Mirror != nil {
		out = io.MultiWriter(file, opts.Mirror)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})
	return slog.New(handler), file, nil
}

// ParseLevel converts a config level name to a slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Null returns a logger that discards all output.
func Null() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component tags a logger with the component name used across photowall.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = Null()
	}
	return logger.With("component", name)
}
