package telemetry

import (
	"log/slog"
	"os"
	"testing"
)

var setupTestEnvironments = map[string]bool{}

// SetupForTesting installs a debug-level text logger and leaves the
// global otel providers as no-ops, so tests never need a collector.
// It ensures setup doesn't happen more than once per service name.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelDebug},
	)))
	return func() {}
}
