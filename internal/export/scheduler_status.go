package export

import (
	"time"

	"mdxport/internal/logging"
)

// publishProgress refreshes the published snapshot for the active phase.
// The ETA is recomputed at most once per second; progress log lines are
// bucketed so steady-state recording does not flood the log.
func (r *run) publishProgress() {
	progress := 0.0
	if r.state.TotalFrames > 0 {
		progress = float64(r.state.FrameIndex) / float64(r.state.TotalFrames)
	}
	if progress > 1 {
		progress = 1
	}

	eta := r.lastETA
	if r.state.Phase == PhaseRecording {
		now := time.Now()
		if now.Sub(r.state.LastETAPublish) >= etaPublishInterval {
			r.state.LastETAPublish = now
			eta = formatETA(now.Sub(r.state.StartedAt), progress)
			r.lastETA = eta
		}
	} else {
		eta = ""
		r.lastETA = ""
	}

	snap := Snapshot{
		RunID:       r.runID,
		Status:      statusForPhase(r.state.Phase),
		Phase:       r.state.Phase.String(),
		Progress:    progress,
		ETA:         eta,
		Frame:       r.state.FrameIndex,
		TotalFrames: r.state.TotalFrames,
	}
	if r.settings.Mode == ModeSegmented {
		snap.Segment = r.state.SegmentIndex + 1
	}
	r.s.publish(snap)

	if r.sampler.ShouldLog(progress*100, r.state.Phase.String()) {
		r.logger.Info("export progress",
			logging.String(logging.FieldPhase, r.state.Phase.String()),
			logging.Int(logging.FieldFrame, r.state.FrameIndex),
			logging.Int("total_frames", r.state.TotalFrames),
			logging.Float64("percent", progress*100),
			logging.String("eta", eta),
			logging.String(logging.FieldEventType, "export_progress"),
		)
	}
}

// publishTerminal reports the final state of the run. Completed runs carry
// the mode-specific artifact details.
func (r *run) publishTerminal(status Status, message string) {
	snap := Snapshot{
		RunID:       r.runID,
		Status:      status,
		Phase:       r.state.Phase.String(),
		Frame:       r.state.FrameIndex,
		TotalFrames: r.state.TotalFrames,
		Message:     message,
	}
	switch status {
	case StatusCompleted:
		snap.Progress = 1
		snap.Completion = r.completionPayload(time.Since(r.state.StartedAt))
	case StatusIdle:
		snap.Progress = 0
	}
	r.s.publish(snap)
}
