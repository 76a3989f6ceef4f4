package log

import (
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// New returns a slog.Logger for the service. With telemetry enabled it
// writes through the OpenTelemetry bridge so errors reach the configured
// collector; otherwise it emits JSON lines on stdout.
func New(service string, otel bool) *slog.Logger {
	if otel {
		return slog.New(otelslog.NewHandler(service))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
