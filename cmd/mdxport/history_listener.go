package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mdxport/internal/export"
	"mdxport/internal/history"
	"mdxport/internal/logging"
)

// progressPersistStep bounds how often progress updates hit the database.
const progressPersistStep = 0.05

// historyRecorder mirrors scheduler snapshots into the history store. The
// scheduler publishes every frame; writes are throttled to coarse progress
// steps so the database is not hammered during fast exports.
type historyRecorder struct {
	store    *history.Store
	settings export.Settings
	logger   *slog.Logger

	mu           sync.Mutex
	runID        string
	started      bool
	finished     bool
	lastProgress float64
}

func newHistoryRecorder(store *history.Store, settings export.Settings, logger *slog.Logger) *historyRecorder {
	return &historyRecorder{
		store:    store,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "history"),
	}
}

// Observe receives scheduler snapshots. Terminal states are left to Flush so
// the final record always carries the run error when there is one.
func (h *historyRecorder) Observe(snap export.Snapshot) {
	if snap.RunID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := context.Background()
	if !h.started {
		// A run that went straight back to idle (cancelled destination
		// pick) never started; don't record it.
		if snap.Status == export.StatusIdle {
			return
		}
		h.runID = snap.RunID
		h.started = true
		err := h.store.StartRun(ctx, history.Run{
			RunID:           snap.RunID,
			Mode:            string(h.settings.Mode),
			Status:          string(snap.Status),
			Format:          h.settings.Format,
			Codec:           h.settings.Codec,
			Width:           h.settings.Width,
			Height:          h.settings.Height,
			FPS:             h.settings.FPS,
			DurationSeconds: h.settings.DurationSeconds,
			TotalFrames:     h.settings.TotalFrames(),
			StartedAt:       time.Now().UTC(),
		})
		if err != nil {
			h.logger.Warn("record run start failed", logging.Error(err))
		}
		return
	}

	if snap.Status == export.StatusCompleted || snap.Status == export.StatusError {
		return
	}
	if snap.Progress < h.lastProgress+progressPersistStep {
		return
	}
	h.lastProgress = snap.Progress
	if err := h.store.UpdateProgress(ctx, h.runID, string(snap.Status), snap.Frame, snap.Progress); err != nil {
		h.logger.Warn("record run progress failed", logging.Error(err))
	}
}

// Flush writes the terminal record once the run has returned.
func (h *historyRecorder) Flush(snap export.Snapshot, runErr error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started || h.finished {
		return
	}
	h.finished = true

	status := string(snap.Status)
	message := ""
	if runErr != nil {
		status = string(export.StatusError)
		message = runErr.Error()
	}

	var artifact string
	var segmentCount int
	var bytes int64
	if snap.Completion != nil {
		artifact = snap.Completion.ArtifactPath
		segmentCount = len(snap.Completion.SegmentPaths)
		bytes = snap.Completion.Bytes
	}

	err := h.store.FinishRun(context.Background(), h.runID, status, artifact, segmentCount, bytes, message)
	if err != nil {
		h.logger.Warn("record run finish failed", logging.Error(err))
	}
}
