package logger

import (
	"log/slog"
	"os"
)

// Log is the global structured logger
var Log *slog.Logger

func init() {
	Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Setup configures the global logger for the given environment. Production
// emits JSON for log aggregation; everything else stays human readable.
func Setup(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	Log = slog.New(handler)
	slog.SetDefault(Log)
}
