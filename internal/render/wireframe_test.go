package render_test

import (
	"testing"

	"mdxport/internal/config"
	"mdxport/internal/render"
	"mdxport/internal/scene"
)

func newTestRenderer(t *testing.T) *render.Wireframe {
	t.Helper()
	state, err := scene.New(config.Scene{
		Dimension:          4,
		Rotations:          []config.Rotation{{Plane: "XY", Speed: 0.6}},
		ProjectionDistance: 4,
	})
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	return render.NewWireframe(state, config.Render{
		Quality:                    "high",
		Refinement:                 true,
		TemporalReprojection:       true,
		PixelRatio:                 1,
		PreviewWidth:               64,
		PreviewHeight:              48,
		LineWidth:                  1,
		BackgroundLuminancePercent: 4,
	})
}

func TestAdvanceProducesNonEmptyFrame(t *testing.T) {
	r := newTestRenderer(t)
	r.Advance(0)

	frame := r.Frame()
	if frame.Bounds().Dx() != 64 || frame.Bounds().Dy() != 48 {
		t.Fatalf("unexpected frame bounds %v", frame.Bounds())
	}

	background := frame.RGBAAt(0, 0)
	foreground := 0
	for y := frame.Bounds().Min.Y; y < frame.Bounds().Max.Y; y++ {
		for x := frame.Bounds().Min.X; x < frame.Bounds().Max.X; x++ {
			if frame.RGBAAt(x, y) != background {
				foreground++
			}
		}
	}
	if foreground == 0 {
		t.Fatal("expected wireframe pixels above the background")
	}
}

func TestSetSizeReallocatesFramebuffer(t *testing.T) {
	r := newTestRenderer(t)
	if err := r.SetSize(128, 72); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	r.Advance(0)
	if got := r.Frame().Bounds(); got.Dx() != 128 || got.Dy() != 72 {
		t.Fatalf("unexpected bounds after resize: %v", got)
	}
	if err := r.SetSize(0, 72); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestPixelRatioScalesBackingStore(t *testing.T) {
	r := newTestRenderer(t)
	r.SetPixelRatio(2)
	if got := r.Frame().Bounds(); got.Dx() != 128 || got.Dy() != 96 {
		t.Fatalf("unexpected backing store bounds: %v", got)
	}
	w, h := r.Size()
	if w != 64 || h != 48 {
		t.Fatalf("logical size should be unchanged, got %dx%d", w, h)
	}
}

func TestQualityRoundTrip(t *testing.T) {
	r := newTestRenderer(t)
	saved := r.Quality()
	r.SetQuality(render.Quality{Profile: "draft"})
	r.SetQuality(saved)
	if got := r.Quality(); got != saved {
		t.Fatalf("quality not restored: %+v vs %+v", got, saved)
	}
}

func TestFrameCountAdvances(t *testing.T) {
	r := newTestRenderer(t)
	r.Advance(0)
	r.Advance(33.3)
	if r.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.FrameCount())
	}
}
