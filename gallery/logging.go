package gallery

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
	levelVar = func() *slog.LevelVar {
		v := &slog.LevelVar{}
		v.Set(slog.LevelWarn)
		return v
	}()
)

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: false,
	}))
}

// Logger returns the logger used by the package.
func Logger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = defaultLogger()
	}
	return logger
}

// SetLogger replaces the package logger. Passing nil restores the default JSON logger.
func SetLogger(l *slog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// SetLogLevel sets the level of the default logger.
func SetLogLevel(level slog.Level) {
	levelVar.Set(level)
}

// SetRawLogLevel parses debug, info, warn or error. Anything else selects info.
func SetRawLogLevel(raw string) {
	var level slog.Level

	switch strings.ToLower(raw) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	levelVar.Set(level)
}
