package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a colored text logger for dev/local and a JSON logger elsewhere.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env, levelFor(env))
}

// NewLoggerTo is NewLogger with an explicit writer and minimum level, for tools
// that keep stdout for their own output.
func NewLoggerTo(w io.Writer, env string, level slog.Level) *slog.Logger {
	return newLogger(w, env, level)
}

func newLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	switch strings.ToLower(env) {
	case "dev", "local":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}
}

func levelFor(env string) slog.Level {
	if strings.EqualFold(env, "dev") || strings.EqualFold(env, "local") {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
