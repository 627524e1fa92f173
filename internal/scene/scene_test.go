package scene_test

import (
	"math"
	"testing"

	"mdxport/internal/config"
	"mdxport/internal/scene"
)

func testSceneConfig() config.Scene {
	return config.Scene{
		Dimension: 4,
		Rotations: []config.Rotation{
			{Plane: "XY", Speed: 0.6},
			{Plane: "ZW", Speed: -0.4},
		},
		ProjectionDistance: 4,
	}
}

func TestAdvanceIsDeterministic(t *testing.T) {
	a, err := scene.New(testSceneConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := scene.New(testSceneConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// One big step vs many small steps of the same total delta.
	a.Advance(2.0)
	for i := 0; i < 100; i++ {
		b.Advance(0.02)
	}

	pa, pb := a.Planes(), b.Planes()
	for i := range pa {
		if math.Abs(pa[i].Angle-pb[i].Angle) > 1e-9 {
			t.Fatalf("plane %s diverged: %v vs %v", pa[i].Name, pa[i].Angle, pb[i].Angle)
		}
	}
}

func TestAdvanceWrapsAngles(t *testing.T) {
	s, err := scene.New(testSceneConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Advance(1000)
	for _, p := range s.Planes() {
		if p.Angle < 0 || p.Angle >= 2*math.Pi {
			t.Fatalf("plane %s angle %v out of range", p.Name, p.Angle)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := scene.New(testSceneConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Advance(3.7)
	snap := s.Snapshot()
	want := s.Planes()

	// Simulate a preview pass running the animation ahead.
	s.Advance(2.9)
	s.Restore(snap)

	got := s.Planes()
	for i := range want {
		if got[i].Angle != want[i].Angle {
			t.Fatalf("plane %s not restored: %v vs %v", want[i].Name, got[i].Angle, want[i].Angle)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, err := scene.New(testSceneConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := s.Snapshot()
	before := snap["XY"]
	s.Advance(1)
	if snap["XY"] != before {
		t.Fatal("snapshot mutated by Advance")
	}
}

func TestNewRejectsBadPlane(t *testing.T) {
	cfg := testSceneConfig()
	cfg.Rotations = append(cfg.Rotations, config.Rotation{Plane: "VU", Speed: 1})
	if _, err := scene.New(cfg); err == nil {
		t.Fatal("expected error for plane outside dimension")
	}
}

func TestProjectedEdgesShape(t *testing.T) {
	s, err := scene.New(testSceneConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	edges := s.ProjectedEdges()
	if len(edges) != 32 {
		t.Fatalf("expected 32 projected tesseract edges, got %d", len(edges))
	}
	s.Advance(0.5)
	moved := s.ProjectedEdges()
	same := true
	for i := range edges {
		if edges[i] != moved[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("advancing the scene did not move any edge")
	}
}
