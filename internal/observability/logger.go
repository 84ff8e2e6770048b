package observability

import (
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const serviceName = "accident-etl"

// NewLogger builds the process logger through the shared observability
// package and tags every record with the service name.
func NewLogger(level, format string) *slog.Logger {
	return sharedobs.NewLogger(level, format).With("service", serviceName)
}
