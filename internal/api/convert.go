package api

import (
	"mdxport/internal/export"
	"mdxport/internal/history"
)

// FromSnapshot converts a scheduler observation to its API representation.
func FromSnapshot(snap export.Snapshot) ExportStatus {
	dto := ExportStatus{
		RunID:       snap.RunID,
		Status:      string(snap.Status),
		Phase:       snap.Phase,
		Progress:    snap.Progress,
		ETA:         snap.ETA,
		Frame:       snap.Frame,
		TotalFrames: snap.TotalFrames,
		Segment:     snap.Segment,
		Message:     snap.Message,
	}
	if snap.Completion != nil {
		dto.Completion = &ExportCompletion{
			Mode:         string(snap.Completion.Mode),
			ArtifactPath: snap.Completion.ArtifactPath,
			PreviewPath:  snap.Completion.PreviewPath,
			SegmentPaths: snap.Completion.SegmentPaths,
			Bytes:        snap.Completion.Bytes,
			Frames:       snap.Completion.Frames,
			Elapsed:      snap.Completion.Elapsed,
		}
	}
	return dto
}

// FromRun converts a history record to its API representation.
func FromRun(run *history.Run) HistoryRun {
	if run == nil {
		return HistoryRun{}
	}
	dto := HistoryRun{
		RunID:           run.RunID,
		Mode:            run.Mode,
		Status:          run.Status,
		Format:          run.Format,
		Codec:           run.Codec,
		Width:           run.Width,
		Height:          run.Height,
		FPS:             run.FPS,
		DurationSeconds: run.DurationSeconds,
		TotalFrames:     run.TotalFrames,
		FramesDone:      run.FramesDone,
		Progress:        run.Progress,
		ArtifactPath:    run.ArtifactPath,
		SegmentCount:    run.SegmentCount,
		Bytes:           run.Bytes,
		ErrorMessage:    run.ErrorMessage,
	}
	if !run.StartedAt.IsZero() {
		dto.StartedAt = run.StartedAt.UTC().Format(dateTimeFormat)
	}
	if !run.FinishedAt.IsZero() {
		dto.FinishedAt = run.FinishedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}
