package logger

import (
	"log/slog"
	"os"
	"time"
)

// SetupPrettySlog is the local development logger: text, debug level, short timestamps.
func SetupPrettySlog() *slog.Logger {
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	})
	return slog.New(h)
}
