package logger

import (
	"log/slog"
	"os"

	"chatdesk/internal/config"
)

// New builds the process logger. Production gets JSON at info level,
// everything else gets text at debug level. The returned logger is also
// installed as the slog default so library code picks it up.
func New(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.Server.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	log := slog.New(handler).With(
		"service", "chatdesk",
		"environment", cfg.Server.Environment,
	)
	slog.SetDefault(log)
	return log
}
