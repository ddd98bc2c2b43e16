// internal/util/logger.go
package util

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger   *slog.Logger
	loggerMu sync.Mutex
)

// LogOptions configures the global logger.
type LogOptions struct {
	Level string
	// File, if set, receives a rotated copy of every log line.
	File string
}

// InitLogger initializes the global structured logger.
// It sets up a JSON handler for production-like logs.
func InitLogger(opts LogOptions) {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(opts.Level),
	})

	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// GetLogger returns the initialized global logger.
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	initialized := logger != nil
	loggerMu.Unlock()
	if !initialized {
		InitLogger(LogOptions{})
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
