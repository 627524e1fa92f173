package export

import (
	"fmt"
	"time"
)

// Status is the published run state visible to the CLI and status API.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRendering  Status = "rendering"
	StatusPreviewing Status = "previewing"
	StatusEncoding   Status = "encoding"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Completion describes the artifacts a finished run produced, shaped by the
// output mode.
type Completion struct {
	Mode OutputMode `json:"mode"`
	// ArtifactPath is the single output of buffered and stream runs.
	ArtifactPath string `json:"artifact_path,omitempty"`
	// PreviewPath is the stream-mode confirmation clip, when one was kept.
	PreviewPath string `json:"preview_path,omitempty"`
	// SegmentPaths lists every emitted part of a segmented run, in order.
	SegmentPaths []string `json:"segment_paths,omitempty"`
	Bytes        int64    `json:"bytes"`
	Frames       int      `json:"frames"`
	Elapsed      string   `json:"elapsed,omitempty"`
}

// Snapshot is one observation of a run, safe to hand across goroutines.
type Snapshot struct {
	RunID       string      `json:"run_id,omitempty"`
	Status      Status      `json:"status"`
	Phase       string      `json:"phase"`
	Progress    float64     `json:"progress"`
	ETA         string      `json:"eta,omitempty"`
	Frame       int         `json:"frame"`
	TotalFrames int         `json:"total_frames"`
	Segment     int         `json:"segment,omitempty"`
	Message     string      `json:"message,omitempty"`
	Completion  *Completion `json:"completion,omitempty"`
}

// statusForPhase maps the machine phase to the published status enum.
func statusForPhase(p Phase) Status {
	switch p {
	case PhaseWarmup:
		return StatusRendering
	case PhasePreview:
		return StatusPreviewing
	case PhaseRecording, PhaseFinishing:
		return StatusEncoding
	case PhaseError:
		return StatusError
	default:
		return StatusIdle
	}
}

// formatETA renders the remaining-time estimate from elapsed wall time and
// the completed fraction. Early samples are too noisy to publish.
func formatETA(elapsed time.Duration, progress float64) string {
	if progress < 0.01 || progress >= 1 {
		return ""
	}
	remaining := time.Duration(float64(elapsed) * (1 - progress) / progress)
	remaining = remaining.Round(time.Second)
	if remaining >= time.Hour {
		return fmt.Sprintf("%dh%dm", int(remaining.Hours()), int(remaining.Minutes())%60)
	}
	if remaining >= time.Minute {
		return fmt.Sprintf("%dm%ds", int(remaining.Minutes()), int(remaining.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(remaining.Seconds()))
}
