// Package logging configures the process-wide structured logger. Global
// state is limited to this logger and is initialized once at startup and
// torn down at shutdown, per spec.md §9 "Global state".
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config controls where and how logs are written.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// FilePath is the path to a log file. Empty disables file logging.
	FilePath string
	// WriteToStderr mirrors output to stderr in addition to FilePath.
	WriteToStderr bool
}

// DefaultConfig returns sane defaults for a server process.
func DefaultConfig() Config {
	return Config{Level: "info", WriteToStderr: true}
}

// Setup builds a slog.Logger from cfg and returns a cleanup func that must
// be called on shutdown to flush and close any open file handle.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	var writers []io.Writer
	var closer io.Closer

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		closer = f
	}
	if cfg.WriteToStderr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	var out io.Writer
	if len(writers) == 1 {
		out = writers[0]
	} else {
		out = io.MultiWriter(writers...)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	logger := slog.New(handler)

	cleanup := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
	return logger, cleanup, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
