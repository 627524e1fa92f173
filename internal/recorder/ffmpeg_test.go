package recorder

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Width:      1920,
		Height:     1080,
		FPS:        30,
		BitrateBps: 8_000_000,
		Format:     "mp4",
		Codec:      "h264",
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	odd := validConfig()
	odd.Width = 1921
	if err := odd.Validate(); err == nil {
		t.Fatal("expected odd width to be rejected")
	}

	zeroFPS := validConfig()
	zeroFPS.FPS = 0
	if err := zeroFPS.Validate(); err == nil {
		t.Fatal("expected zero fps to be rejected")
	}

	badCrop := validConfig()
	badCrop.Crop = &CropRegion{X: 1900, Y: 0, Width: 100, Height: 100}
	if err := badCrop.Validate(); err == nil {
		t.Fatal("expected out-of-bounds crop to be rejected")
	}
}

func TestArgsRawInputAndContainer(t *testing.T) {
	cfg := validConfig()
	cfg.Destination = "/tmp/out.mp4"
	joined := strings.Join(cfg.args(), " ")

	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt rgba",
		"-video_size 1920x1080",
		"-framerate 30",
		"-c:v libx264",
		"-b:v 8000000",
		"-movflags +faststart",
		"/tmp/out.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
}

func TestArgsCodecMapping(t *testing.T) {
	cfg := validConfig()
	cfg.Format = "webm"
	cfg.Codec = "vp9"
	cfg.Destination = "out.webm"
	joined := strings.Join(cfg.args(), " ")
	if !strings.Contains(joined, "-c:v libvpx-vp9") {
		t.Fatalf("expected vp9 encoder in %q", joined)
	}
	if !strings.Contains(joined, "-f webm") {
		t.Fatalf("expected webm muxer in %q", joined)
	}
}

func TestFilterChainCropAndOverlay(t *testing.T) {
	cfg := validConfig()
	cfg.Crop = &CropRegion{X: 320, Y: 180, Width: 1280, Height: 720}
	cfg.OverlayText = "tesseract"
	chain := cfg.filterChain()
	if !strings.Contains(chain, "crop=1280:720:320:180") {
		t.Fatalf("missing crop in %q", chain)
	}
	if !strings.Contains(chain, "drawtext=text='tesseract'") {
		t.Fatalf("missing overlay in %q", chain)
	}
}

func TestFilterChainFadeUsesGlobalTimeline(t *testing.T) {
	// Final segment of a 60s export starting at global 50s: the fade sits
	// at 9s of segment-relative time, not 59s.
	cfg := validConfig()
	cfg.TotalDurationSec = 60
	cfg.GlobalOffsetSec = 50
	chain := cfg.filterChain()
	if !strings.Contains(chain, "fade=t=out:st=9.000") {
		t.Fatalf("fade not shifted into segment time: %q", chain)
	}

	cfg.GlobalOffsetSec = 0
	cfg.TotalDurationSec = 0
	if chain := cfg.filterChain(); chain != "" {
		t.Fatalf("expected empty chain without a total duration, got %q", chain)
	}
}
