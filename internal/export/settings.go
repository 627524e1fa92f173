package export

import (
	"fmt"
	"math"
	"strings"

	"mdxport/internal/config"
	"mdxport/internal/recorder"
	"mdxport/internal/segment"
	"mdxport/internal/services"
)

// OutputMode selects one of the three mutually exclusive output strategies.
type OutputMode string

const (
	// ModeBuffered encodes into memory and hands back one artifact at the end.
	ModeBuffered OutputMode = "buffered"
	// ModeStream writes incrementally to a destination chosen up front.
	ModeStream OutputMode = "stream"
	// ModeSegmented emits size-capped parts as recording progresses.
	ModeSegmented OutputMode = "segmented"
)

// previewSeconds bounds the stream-mode confirmation clip.
const previewSeconds = 3.0

// resolutionPresets maps named output sizes to explicit dimensions. All
// entries are even on both axes for encoder compatibility.
var resolutionPresets = map[string][2]int{
	"1080p":    {1920, 1080},
	"720p":     {1280, 720},
	"4k":       {3840, 2160},
	"square":   {1080, 1080},
	"vertical": {1080, 1920},
}

// PresetNames returns the supported resolution preset names.
func PresetNames() []string {
	return []string{"1080p", "720p", "4k", "square", "vertical"}
}

// Settings is the immutable per-run export description. Build one with
// SettingsFromConfig and treat it as read-only afterwards.
type Settings struct {
	Mode            OutputMode
	FPS             float64
	DurationSeconds float64
	BitrateKbps     int
	Width           int
	Height          int
	Format          string
	Codec           string
	WarmupFrames    int

	Crop        *recorder.CropRegion
	OverlayText string

	// DisableReprojection turns the renderer's temporal reprojection
	// shortcut off for the duration of the run.
	DisableReprojection bool

	SegmentTargetBytes int64
	FFmpegBinary       string

	// OutputDir receives buffered and segmented artifacts. Stream mode
	// writes to the picker-chosen destination instead.
	OutputDir string
	// BaseName is the artifact filename stem, without extension.
	BaseName string
}

// SettingsFromConfig resolves the configured defaults into a run description.
// Preset resolution happens here; width/height win when both are given.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	exp := cfg.Export

	width, height := exp.Width, exp.Height
	if width == 0 || height == 0 {
		preset := strings.ToLower(strings.TrimSpace(exp.Preset))
		size, ok := resolutionPresets[preset]
		if !ok {
			return Settings{}, services.Wrap(services.ErrConfiguration, "export", "resolve preset",
				fmt.Sprintf("unknown resolution preset %q", exp.Preset), nil)
		}
		width, height = size[0], size[1]
	}

	s := Settings{
		Mode:                OutputMode(exp.Mode),
		FPS:                 exp.FPS,
		DurationSeconds:     exp.DurationSeconds,
		BitrateKbps:         exp.BitrateKbps,
		Width:               width,
		Height:              height,
		Format:              exp.Format,
		Codec:               exp.Codec,
		WarmupFrames:        exp.WarmupFrames,
		OverlayText:         exp.OverlayText,
		DisableReprojection: cfg.Render.DisableReprojectionExport,
		SegmentTargetBytes:  int64(exp.SegmentTargetMB) * 1000 * 1000,
		FFmpegBinary:        cfg.FFmpegBinary(),
		OutputDir:           cfg.Paths.OutputDir,
		BaseName:            "mdxport",
	}
	if exp.Crop != nil {
		s.Crop = &recorder.CropRegion{
			X:      exp.Crop.X,
			Y:      exp.Crop.Y,
			Width:  exp.Crop.Width,
			Height: exp.Crop.Height,
		}
	}
	return s, nil
}

// Validate rejects settings that must never reach the renderer or encoder.
// It runs before any side effect, so a failed run leaves everything untouched.
func (s Settings) Validate() error {
	if !positiveFinite(s.FPS) {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("fps must be a positive finite number, got %v", s.FPS), nil)
	}
	if !positiveFinite(s.DurationSeconds) {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("duration must be a positive finite number, got %v", s.DurationSeconds), nil)
	}
	if s.BitrateKbps <= 0 {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("bitrate must be positive, got %d", s.BitrateKbps), nil)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("resolution must be positive, got %dx%d", s.Width, s.Height), nil)
	}
	if s.Width%2 != 0 || s.Height%2 != 0 {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("resolution must use even dimensions, got %dx%d", s.Width, s.Height), nil)
	}
	if s.WarmupFrames < 0 {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("warmup frames must not be negative, got %d", s.WarmupFrames), nil)
	}
	switch s.Mode {
	case ModeBuffered, ModeStream, ModeSegmented:
	default:
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("unknown output mode %q", s.Mode), nil)
	}
	if _, ok := config.FormatExtension(s.Format); !ok {
		return services.Wrap(services.ErrValidation, "export", "validate settings",
			fmt.Sprintf("unknown container format %q", s.Format), nil)
	}
	if s.Crop != nil {
		if s.Crop.Width <= 0 || s.Crop.Height <= 0 || s.Crop.X < 0 || s.Crop.Y < 0 {
			return services.Wrap(services.ErrValidation, "export", "validate settings",
				"crop region must have positive size and non-negative origin", nil)
		}
		if s.Crop.X+s.Crop.Width > s.Width || s.Crop.Y+s.Crop.Height > s.Height {
			return services.Wrap(services.ErrValidation, "export", "validate settings",
				"crop region exceeds output resolution", nil)
		}
	}
	return nil
}

// TotalFrames is the recording frame count: ceil(duration * fps).
func (s Settings) TotalFrames() int {
	return int(math.Ceil(s.DurationSeconds * s.FPS))
}

// PreviewFrames is the stream-mode confirmation clip length in frames.
func (s Settings) PreviewFrames() int {
	frames := int(math.Ceil(previewSeconds * s.FPS))
	if total := s.TotalFrames(); frames > total {
		frames = total
	}
	return frames
}

// FrameDurationMs is the synthetic per-frame step, 1000/fps.
func (s Settings) FrameDurationMs() float64 {
	return 1000 / s.FPS
}

// BitrateBps converts the configured kilobit rate to bits per second.
func (s Settings) BitrateBps() int64 {
	return int64(s.BitrateKbps) * 1000
}

// Extension returns the validated file extension for the configured format.
func (s Settings) Extension() string {
	ext, _ := config.FormatExtension(s.Format)
	return ext
}

// SegmentPlan computes the fixed per-segment sizing for segmented mode.
func (s Settings) SegmentPlan() segment.Plan {
	planner := segment.NewPlanner()
	planner.TargetBytes = s.SegmentTargetBytes
	return planner.Plan(s.BitrateBps(), s.DurationSeconds, s.FPS)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
