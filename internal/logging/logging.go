// Package logging sets up a rotating debug log. CLI output goes to
// stdout/stderr directly; the slog logger is for diagnostics only, so it
// never interferes with the TUI or with printed search results.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	// Dir is the directory for the rotating log file. Empty disables logging.
	Dir string

	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string

	// MaxSizeMB is the max size in MB before rotation (default: 10).
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep (default: 3).
	MaxBackups int
}

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Init initializes the global logger. With no log dir configured all output
// is discarded.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	if cfg.Dir == "" {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "docdex.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// L returns the global logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ForComponent returns a logger tagged with a component name.
func ForComponent(name string) *slog.Logger {
	return L().With("component", name)
}
