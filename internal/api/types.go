package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// HealthResponse reports process liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptimeSeconds"`
}

// ExportStatus describes the current (or last) export run in a
// transport-friendly format.
type ExportStatus struct {
	RunID       string            `json:"runId,omitempty"`
	Status      string            `json:"status"`
	Phase       string            `json:"phase"`
	Progress    float64           `json:"progress"`
	ETA         string            `json:"eta,omitempty"`
	Frame       int               `json:"frame"`
	TotalFrames int               `json:"totalFrames"`
	Segment     int               `json:"segment,omitempty"`
	Message     string            `json:"message,omitempty"`
	Completion  *ExportCompletion `json:"completion,omitempty"`
}

// ExportCompletion lists the artifacts a finished run produced.
type ExportCompletion struct {
	Mode         string   `json:"mode"`
	ArtifactPath string   `json:"artifactPath,omitempty"`
	PreviewPath  string   `json:"previewPath,omitempty"`
	SegmentPaths []string `json:"segmentPaths,omitempty"`
	Bytes        int64    `json:"bytes"`
	Frames       int      `json:"frames"`
	Elapsed      string   `json:"elapsed,omitempty"`
}

// HistoryRun mirrors a persisted export run record.
type HistoryRun struct {
	RunID           string  `json:"runId"`
	Mode            string  `json:"mode"`
	Status          string  `json:"status"`
	Format          string  `json:"format"`
	Codec           string  `json:"codec"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FPS             float64 `json:"fps"`
	DurationSeconds float64 `json:"durationSeconds"`
	TotalFrames     int     `json:"totalFrames"`
	FramesDone      int     `json:"framesDone"`
	Progress        float64 `json:"progress"`
	ArtifactPath    string  `json:"artifactPath,omitempty"`
	SegmentCount    int     `json:"segmentCount,omitempty"`
	Bytes           int64   `json:"bytes,omitempty"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
	StartedAt       string  `json:"startedAt,omitempty"`
	FinishedAt      string  `json:"finishedAt,omitempty"`
}

// HistoryResponse wraps the recent-runs listing.
type HistoryResponse struct {
	Runs []HistoryRun `json:"runs"`
}

// ErrorResponse is the JSON body for non-2xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
