// Package logging assembles structured slog loggers and formatting helpers
// used across the exporter.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so scheduler code can
// automatically tag log lines with run IDs and phase names. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
