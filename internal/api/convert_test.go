package api

import (
	"testing"
	"time"

	"mdxport/internal/export"
	"mdxport/internal/history"
)

func TestFromSnapshotCarriesCompletion(t *testing.T) {
	snap := export.Snapshot{
		RunID:       "run-9",
		Status:      export.StatusCompleted,
		Phase:       "idle",
		Progress:    1,
		Frame:       300,
		TotalFrames: 300,
		Completion: &export.Completion{
			Mode:         export.ModeSegmented,
			SegmentPaths: []string{"/out/a-part1.mp4", "/out/a-part2.mp4"},
			Bytes:        2048,
			Frames:       300,
			Elapsed:      "12s",
		},
	}

	dto := FromSnapshot(snap)
	if dto.Status != "completed" || dto.Progress != 1 {
		t.Fatalf("unexpected status dto: %#v", dto)
	}
	if dto.Completion == nil {
		t.Fatal("completion not converted")
	}
	if dto.Completion.Mode != "segmented" || len(dto.Completion.SegmentPaths) != 2 {
		t.Fatalf("unexpected completion dto: %#v", dto.Completion)
	}
}

func TestFromSnapshotOmitsCompletionWhenAbsent(t *testing.T) {
	dto := FromSnapshot(export.Snapshot{Status: export.StatusRendering, Phase: "warmup"})
	if dto.Completion != nil {
		t.Fatalf("expected nil completion, got %#v", dto.Completion)
	}
}

func TestFromRunFormatsTimestamps(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	run := &history.Run{
		RunID:     "run-1",
		Mode:      "buffered",
		Status:    "completed",
		StartedAt: started,
	}

	dto := FromRun(run)
	if dto.StartedAt != "2026-03-14T09:26:53.000Z" {
		t.Fatalf("unexpected started_at: %q", dto.StartedAt)
	}
	if dto.FinishedAt != "" {
		t.Fatalf("zero finished_at should be omitted, got %q", dto.FinishedAt)
	}
}

func TestFromRunNil(t *testing.T) {
	if dto := FromRun(nil); dto.RunID != "" {
		t.Fatalf("nil run should convert to zero dto, got %#v", dto)
	}
}
