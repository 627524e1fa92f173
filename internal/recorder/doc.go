// Package recorder owns the encoder side of an export: the Recorder
// contract, the lifecycle guard that enforces strict construct/initialize/
// capture/finalize/dispose nesting with idempotent disposal, and the
// ffmpeg-backed implementations that consume raw RGBA frames over a pipe.
//
// Exactly one recorder is open at a time; the Owner type rejects overlapping
// acquisitions so segment rotation can never leak a half-finalized encoder.
package recorder
