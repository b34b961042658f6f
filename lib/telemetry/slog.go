package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text logger. Verbose enables debug output,
// which includes full request/response dumps from instrumented resty clients.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
