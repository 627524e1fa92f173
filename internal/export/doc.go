// Package export implements the frame-accurate export scheduler.
//
// One Scheduler owns the phase state machine (warmup, optional stream-mode
// preview, recording with segment rotation, finishing) and drives the
// renderer with synthetic timestamps derived purely from the frame index, so
// output is reproducible regardless of wall-clock jitter. Work happens in
// time-budgeted batches on a single-goroutine executor: a batch yields after
// MaxBlockingTime and reposts itself, and a cooperative abort flag is polled
// every tick. Every exit path, including abort and failure, walks the same
// finishing pass that restores the renderer and disposes the recorder.
package export
