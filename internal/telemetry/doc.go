// Package telemetry bootstraps OpenTelemetry tracing for pipescope runs.
//
// Without an endpoint no exporter is created and a no-op provider is
// returned, so callers can trace unconditionally.
package telemetry
