package moqt

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

func init() {
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})
	defaultLogger = slog.New(h)
}

// SetLogHandler replaces the handler used by all sessions created after the
// call.
func SetLogHandler(handler slog.Handler) {
	defaultLogger = slog.New(handler)
}
