package logging

import (
	"context"
	"log/slog"

	"mdxport/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for export run identifiers.
	FieldRunID = "run_id"
	// FieldPhase is the standardized structured logging key for scheduler phase names.
	FieldPhase = "phase"
	// FieldMode is the standardized structured logging key for export output modes.
	FieldMode = "mode"
	// FieldSegment is the standardized structured logging key for 1-based segment indices.
	FieldSegment = "segment"
	// FieldFrame is the standardized structured logging key for frame indices.
	FieldFrame = "frame"
	// FieldEventType is the standardized structured logging key for machine-readable event names.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if phase, ok := services.PhaseFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPhase, phase))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
