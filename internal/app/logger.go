package app

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances. When
// fileW is non-nil, every record is additionally written to it as JSON at
// debug level, regardless of the console level.
func newLogger(levelStr, formatStr string, outW, fileW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var console slog.Handler
	if formatStr == "json" {
		console = slog.NewJSONHandler(outW, &slog.HandlerOptions{Level: level})
	} else {
		console = slog.NewTextHandler(outW, &slog.HandlerOptions{Level: level})
	}
	if fileW == nil {
		return slog.New(console)
	}

	file := slog.NewJSONHandler(fileW, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(slogmulti.Fanout(console, file))
}

// openLogFile opens the debug log file named by the configuration. An
// empty path creates a fresh file in the temp directory; LogFileDisabled
// returns nil.
func openLogFile(path string) (*os.File, error) {
	switch path {
	case LogFileDisabled:
		return nil, nil
	case "":
		return os.CreateTemp("", "geoff-*.log")
	default:
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
}
