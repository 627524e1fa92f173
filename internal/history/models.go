package history

import "time"

// Run is one export run's persisted record.
type Run struct {
	ID              int64
	RunID           string
	Mode            string
	Status          string
	Format          string
	Codec           string
	Width           int
	Height          int
	FPS             float64
	DurationSeconds float64
	TotalFrames     int
	FramesDone      int
	Progress        float64
	ArtifactPath    string
	SegmentCount    int
	Bytes           int64
	ErrorMessage    string
	StartedAt       time.Time
	FinishedAt      time.Time
	UpdatedAt       time.Time
}

// Terminal reports whether the run reached a final state.
func (r *Run) Terminal() bool {
	switch r.Status {
	case "completed", "error", "idle":
		return true
	}
	return false
}
