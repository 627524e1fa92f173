package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mdxport/internal/history"
	"mdxport/internal/testsupport"
)

func sampleRun(runID string) history.Run {
	return history.Run{
		RunID:           runID,
		Mode:            "buffered",
		Status:          "rendering",
		Format:          "mp4",
		Codec:           "h264",
		Width:           1920,
		Height:          1080,
		FPS:             30,
		DurationSeconds: 10,
		TotalFrames:     300,
		StartedAt:       time.Now().UTC(),
	}
}

func TestStartAndGetRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := store.StartRun(ctx, sampleRun("run-1")); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	run, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Mode != "buffered" || run.TotalFrames != 300 {
		t.Fatalf("unexpected run: %#v", run)
	}
	if run.Terminal() {
		t.Fatal("fresh run should not be terminal")
	}
	if run.StartedAt.IsZero() || run.UpdatedAt.IsZero() {
		t.Fatal("timestamps not recorded")
	}
}

func TestGetRunNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgressAndFinish(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := store.StartRun(ctx, sampleRun("run-2")); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	if err := store.UpdateProgress(ctx, "run-2", "encoding", 150, 0.5); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	run, err := store.GetRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != "encoding" || run.FramesDone != 150 || run.Progress != 0.5 {
		t.Fatalf("progress not persisted: %#v", run)
	}

	if err := store.FinishRun(ctx, "run-2", "completed", "/exports/out.mp4", 0, 4096, ""); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	run, err = store.GetRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("GetRun after finish: %v", err)
	}
	if !run.Terminal() {
		t.Fatal("completed run should be terminal")
	}
	if run.ArtifactPath != "/exports/out.mp4" || run.Bytes != 4096 {
		t.Fatalf("terminal fields not persisted: %#v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("finished_at not recorded")
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := store.StartRun(ctx, sampleRun("run-3")); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.FinishRun(ctx, "run-3", "error", "", 0, 0, "encoder exited with status 1"); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := store.GetRun(ctx, "run-3")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != "error" || run.ErrorMessage == "" {
		t.Fatalf("error state not persisted: %#v", run)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		run := sampleRun("run-" + string(rune('a'+i)))
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.StartRun(ctx, run); err != nil {
			t.Fatalf("StartRun %d: %v", i, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].RunID != "run-e" || runs[2].RunID != "run-c" {
		t.Fatalf("unexpected ordering: %s, %s, %s", runs[0].RunID, runs[1].RunID, runs[2].RunID)
	}
}
