package export

import "time"

// LoopState is the mutable bookkeeping for one run, owned exclusively by the
// scheduler goroutine. Step functions receive it by pointer; nothing survives
// in package-level state between runs.
type LoopState struct {
	Phase Phase

	// FrameIndex counts frames of the active phase, starting at zero.
	FrameIndex int
	// TotalFrames is the frame count of the active phase, not the whole run.
	TotalFrames int
	// FrameDurationMs is the synthetic per-frame step.
	FrameDurationMs float64
	// BatchAnchorMs is the synthetic-time origin the timestamps build on.
	BatchAnchorMs float64

	StartedAt      time.Time
	LastETAPublish time.Time

	// Segmented-mode bookkeeping.
	SegmentIndex     int
	SegmentFrames    int
	FramesPerSegment int
	SegmentStartMs   float64
}

// TimestampMs returns the synthetic timestamp of the current frame.
func (s *LoopState) TimestampMs() float64 {
	return s.BatchAnchorMs + float64(s.FrameIndex)*s.FrameDurationMs
}

// GlobalSeconds is the position of the current frame on the un-segmented
// timeline. Effects keyed to total duration use this even when output is
// split into parts.
func (s *LoopState) GlobalSeconds() float64 {
	return float64(s.FrameIndex) * s.FrameDurationMs / 1000
}

// SegmentSeconds is the position of the current frame within its segment.
func (s *LoopState) SegmentSeconds() float64 {
	return (s.TimestampMs() - s.SegmentStartMs) / 1000
}

// enterPhase resets the per-phase frame counter.
func (s *LoopState) enterPhase(p Phase, totalFrames int) {
	s.Phase = p
	s.FrameIndex = 0
	s.TotalFrames = totalFrames
}
