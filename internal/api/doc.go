// Package api serves the read-only status endpoints and defines the
// wire-format types they return.
//
// # Endpoints
//
// GET /health: process liveness plus version and uptime.
//
// GET /status: the scheduler's current snapshot (run id, phase, progress,
// ETA, completion payload once a run finishes).
//
// GET /history: recent export runs from the history store, newest first,
// with an optional ?limit= query parameter.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript consumers. Internal enums
// (export.Status, export.OutputMode) are exposed as lowercase strings and
// timestamps use RFC3339 with milliseconds. The server binds its listener
// eagerly so configuration errors surface at startup rather than on the
// first request.
package api
