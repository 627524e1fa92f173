package segment

import (
	"math"
	"testing"
)

func TestPlanFiftyMBAtEightMbps(t *testing.T) {
	plan := NewPlanner().Plan(8_000_000, 600, 30)

	// 50 MB at 8 Mbps fills in exactly 50s of payload.
	if math.Abs(plan.SegmentSeconds-50) > 1e-9 {
		t.Fatalf("segment seconds = %v, want 50", plan.SegmentSeconds)
	}
	if plan.FramesPerSegment != 1500 {
		t.Fatalf("frames per segment = %d, want 1500", plan.FramesPerSegment)
	}
}

func TestPlanClampLow(t *testing.T) {
	// An extreme bitrate would yield sub-second segments; the floor holds.
	plan := NewPlanner().Plan(1_000_000_000, 600, 30)
	if plan.SegmentSeconds != MinSegmentSeconds {
		t.Fatalf("segment seconds = %v, want floor %v", plan.SegmentSeconds, MinSegmentSeconds)
	}
	if plan.FramesPerSegment != 150 {
		t.Fatalf("frames per segment = %d, want 150", plan.FramesPerSegment)
	}
}

func TestPlanClampHigh(t *testing.T) {
	// A tiny bitrate never fills the target; the whole export is one segment.
	plan := NewPlanner().Plan(1000, 10, 30)
	if plan.SegmentSeconds != 10 {
		t.Fatalf("segment seconds = %v, want total duration 10", plan.SegmentSeconds)
	}
	if plan.FramesPerSegment != 300 {
		t.Fatalf("frames per segment = %d, want 300", plan.FramesPerSegment)
	}
}

func TestFramesForFinalSegment(t *testing.T) {
	plan := Plan{SegmentSeconds: 50, FramesPerSegment: 1500}

	if got := plan.FramesFor(4000); got != 1500 {
		t.Fatalf("full segment = %d, want 1500", got)
	}
	if got := plan.FramesFor(700); got != 700 {
		t.Fatalf("final segment = %d, want 700", got)
	}
	if got := plan.FramesFor(0); got != 0 {
		t.Fatalf("empty remainder = %d, want 0", got)
	}
}

func TestSegmentCount(t *testing.T) {
	plan := Plan{FramesPerSegment: 1500}

	cases := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{1500, 1},
		{1501, 2},
		{18000, 12},
	}
	for _, tc := range cases {
		if got := plan.SegmentCount(tc.total); got != tc.want {
			t.Fatalf("SegmentCount(%d) = %d, want %d", tc.total, got, tc.want)
		}
	}
}
