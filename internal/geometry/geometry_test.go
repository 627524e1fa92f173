package geometry_test

import (
	"math"
	"testing"

	"mdxport/internal/geometry"
)

func TestParsePlane(t *testing.T) {
	i, j, err := geometry.ParsePlane("zw", 4)
	if err != nil {
		t.Fatalf("ParsePlane: %v", err)
	}
	if i != 2 || j != 3 {
		t.Fatalf("unexpected indices: %d %d", i, j)
	}

	// Order is normalized.
	i, j, err = geometry.ParsePlane("WX", 4)
	if err != nil {
		t.Fatalf("ParsePlane: %v", err)
	}
	if i != 0 || j != 3 {
		t.Fatalf("unexpected indices: %d %d", i, j)
	}
}

func TestParsePlaneRejectsInvalid(t *testing.T) {
	for _, name := range []string{"", "X", "XX", "XQ", "WV"} {
		if _, _, err := geometry.ParsePlane(name, 4); err == nil {
			t.Fatalf("expected error for plane %q in dim 4", name)
		}
	}
}

func TestRotationMatrixRotatesPlane(t *testing.T) {
	m := geometry.RotationMatrix(4, 0, 1, math.Pi/2)
	v := geometry.Apply(m, []float64{1, 0, 0, 0})
	want := []float64{0, 1, 0, 0}
	for k := range want {
		if math.Abs(v[k]-want[k]) > 1e-12 {
			t.Fatalf("unexpected rotated vector %v", v)
		}
	}
}

func TestComposeRotationsMatchesSequentialApply(t *testing.T) {
	planes := [][2]int{{0, 1}, {2, 3}}
	angles := []float64{0.3, -0.7}
	composed := geometry.ComposeRotations(4, planes, angles)

	v := []float64{0.5, -1, 2, 0.25}
	got := geometry.Apply(composed, v)

	step := geometry.Apply(geometry.RotationMatrix(4, 2, 3, angles[1]), v)
	want := geometry.Apply(geometry.RotationMatrix(4, 0, 1, angles[0]), step)

	for k := range want {
		if math.Abs(got[k]-want[k]) > 1e-12 {
			t.Fatalf("composed apply mismatch: got %v want %v", got, want)
		}
	}
}

func TestRotationPreservesLength(t *testing.T) {
	m := geometry.ComposeRotations(5, [][2]int{{0, 3}, {1, 4}}, []float64{1.1, 2.3})
	v := []float64{1, 2, 3, 4, 5}
	rotated := geometry.Apply(m, v)

	var before, after float64
	for k := range v {
		before += v[k] * v[k]
		after += rotated[k] * rotated[k]
	}
	if math.Abs(before-after) > 1e-9 {
		t.Fatalf("rotation changed vector length: %v vs %v", before, after)
	}
}

func TestProject3HigherDimsContributeDepth(t *testing.T) {
	// A point at the origin of the higher dimensions projects with
	// scale 1/distance.
	p := geometry.Project3([]float64{2, 4, 6, 0}, 4)
	if math.Abs(p[0]-0.5) > 1e-12 || math.Abs(p[1]-1.0) > 1e-12 || math.Abs(p[2]-1.5) > 1e-12 {
		t.Fatalf("unexpected projection %v", p)
	}

	// Positive depth moves the point closer to the projection plane and
	// enlarges it.
	near := geometry.Project3([]float64{1, 0, 0, 1}, 4)
	far := geometry.Project3([]float64{1, 0, 0, -1}, 4)
	if near[0] <= far[0] {
		t.Fatalf("expected near point scaled larger: near=%v far=%v", near, far)
	}
}

func TestProject3ClampsNearPlane(t *testing.T) {
	p := geometry.Project3([]float64{1, 0, 0, 4}, 4)
	if math.IsInf(p[0], 0) || math.IsNaN(p[0]) {
		t.Fatalf("projection not clamped: %v", p)
	}
}

func TestHypercubeScaffolding(t *testing.T) {
	vertices := geometry.HypercubeVertices(4)
	if len(vertices) != 16 {
		t.Fatalf("expected 16 tesseract vertices, got %d", len(vertices))
	}
	edges := geometry.HypercubeEdges(4)
	if len(edges) != 32 {
		t.Fatalf("expected 32 tesseract edges, got %d", len(edges))
	}
	for _, e := range edges {
		diff := 0
		for d := range vertices[e[0]] {
			if vertices[e[0]][d] != vertices[e[1]][d] {
				diff++
			}
		}
		if diff != 1 {
			t.Fatalf("edge %v does not connect adjacent corners", e)
		}
	}
}

func TestPlaneCount(t *testing.T) {
	if got := geometry.PlaneCount(4); got != 6 {
		t.Fatalf("expected 6 planes in dim 4, got %d", got)
	}
}
