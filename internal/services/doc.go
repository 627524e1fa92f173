// Package services defines shared utilities consumed by the export scheduler
// and its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and phase names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent terminal statuses (error vs silent idle).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// stays uniform across the exporter.
package services
