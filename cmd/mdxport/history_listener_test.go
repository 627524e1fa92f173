package main

import (
	"context"
	"errors"
	"testing"

	"mdxport/internal/export"
	"mdxport/internal/history"
	"mdxport/internal/logging"
	"mdxport/internal/testsupport"
)

func testExportSettings() export.Settings {
	return export.Settings{
		Mode:            export.ModeBuffered,
		FPS:             30,
		DurationSeconds: 10,
		BitrateKbps:     8000,
		Width:           1920,
		Height:          1080,
		Format:          "mp4",
		Codec:           "h264",
	}
}

func TestHistoryRecorderPersistsRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	rec := newHistoryRecorder(store, testExportSettings(), logging.NewNop())

	rec.Observe(export.Snapshot{RunID: "run-1", Status: export.StatusRendering, Phase: "warmup"})
	rec.Observe(export.Snapshot{RunID: "run-1", Status: export.StatusEncoding, Phase: "recording", Frame: 150, Progress: 0.5})
	rec.Flush(export.Snapshot{
		RunID:  "run-1",
		Status: export.StatusCompleted,
		Completion: &export.Completion{
			Mode:         export.ModeBuffered,
			ArtifactPath: "/exports/out.mp4",
			Bytes:        1024,
			Frames:       300,
		},
	}, nil)

	run, err := store.GetRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != "completed" || run.ArtifactPath != "/exports/out.mp4" || run.Bytes != 1024 {
		t.Fatalf("unexpected record: %#v", run)
	}
	if run.FramesDone != 150 || run.Progress != 0.5 {
		t.Fatalf("progress not persisted: %#v", run)
	}
	if run.TotalFrames != 300 {
		t.Fatalf("total frames not derived from settings: %#v", run)
	}
}

func TestHistoryRecorderThrottlesProgressWrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	rec := newHistoryRecorder(store, testExportSettings(), logging.NewNop())

	rec.Observe(export.Snapshot{RunID: "run-2", Status: export.StatusRendering})
	rec.Observe(export.Snapshot{RunID: "run-2", Status: export.StatusEncoding, Frame: 3, Progress: 0.01})
	rec.Observe(export.Snapshot{RunID: "run-2", Status: export.StatusEncoding, Frame: 6, Progress: 0.02})

	run, err := store.GetRun(context.Background(), "run-2")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.FramesDone != 0 {
		t.Fatalf("sub-threshold progress should not be written, got %d frames", run.FramesDone)
	}

	rec.Observe(export.Snapshot{RunID: "run-2", Status: export.StatusEncoding, Frame: 30, Progress: 0.1})
	run, err = store.GetRun(context.Background(), "run-2")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.FramesDone != 30 {
		t.Fatalf("threshold progress should be written, got %d frames", run.FramesDone)
	}
}

func TestHistoryRecorderRecordsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	rec := newHistoryRecorder(store, testExportSettings(), logging.NewNop())

	rec.Observe(export.Snapshot{RunID: "run-3", Status: export.StatusRendering})
	rec.Flush(export.Snapshot{RunID: "run-3", Status: export.StatusError}, errors.New("encoder exited early"))

	run, err := store.GetRun(context.Background(), "run-3")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != "error" || run.ErrorMessage != "encoder exited early" {
		t.Fatalf("failure not recorded: %#v", run)
	}
}

func TestHistoryRecorderIgnoresIdleFirstSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	rec := newHistoryRecorder(store, testExportSettings(), logging.NewNop())

	rec.Observe(export.Snapshot{RunID: "run-4", Status: export.StatusIdle})
	rec.Flush(export.Snapshot{RunID: "run-4", Status: export.StatusIdle}, nil)

	if _, err := store.GetRun(context.Background(), "run-4"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("cancelled pick should not be recorded, got %v", err)
	}
}
