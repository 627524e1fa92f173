package segment

import "math"

const (
	// DefaultTargetBytes caps each segment at 50 MB.
	DefaultTargetBytes int64 = 50 * 1000 * 1000
	// MinSegmentSeconds keeps segments long enough to stay playable.
	MinSegmentSeconds = 5.0
)

// Plan is the fixed per-segment sizing for one export.
type Plan struct {
	SegmentSeconds   float64
	FramesPerSegment int
}

// Planner computes size-capped segment boundaries from bitrate and duration.
type Planner struct {
	TargetBytes int64
	MinSeconds  float64
}

// NewPlanner returns a planner with the default size cap.
func NewPlanner() Planner {
	return Planner{TargetBytes: DefaultTargetBytes, MinSeconds: MinSegmentSeconds}
}

// Plan derives the segment duration from how long the bitrate takes to fill
// the target size, clamped between MinSeconds and the total duration.
func (p Planner) Plan(bitrateBps int64, totalDurationSec, fps float64) Plan {
	target := p.TargetBytes
	if target <= 0 {
		target = DefaultTargetBytes
	}
	minSeconds := p.MinSeconds
	if minSeconds <= 0 {
		minSeconds = MinSegmentSeconds
	}

	seconds := float64(target*8) / float64(bitrateBps)
	if seconds < minSeconds {
		seconds = minSeconds
	}
	if seconds > totalDurationSec {
		seconds = totalDurationSec
	}

	return Plan{
		SegmentSeconds:   seconds,
		FramesPerSegment: int(math.Ceil(seconds * fps)),
	}
}

// FramesFor returns the frame count of the next segment: the planned size,
// shortened for the final segment when fewer frames remain.
func (pl Plan) FramesFor(framesRemaining int) int {
	if framesRemaining < pl.FramesPerSegment {
		return framesRemaining
	}
	return pl.FramesPerSegment
}

// SegmentCount returns how many segments a total frame count splits into.
func (pl Plan) SegmentCount(totalFrames int) int {
	if pl.FramesPerSegment <= 0 || totalFrames <= 0 {
		return 0
	}
	return (totalFrames + pl.FramesPerSegment - 1) / pl.FramesPerSegment
}
