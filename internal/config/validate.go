package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var supportedModes = map[string]struct{}{
	"buffered":  {},
	"stream":    {},
	"segmented": {},
}

var supportedFormats = map[string]string{
	"mp4":  ".mp4",
	"webm": ".webm",
	"mkv":  ".mkv",
}

var supportedCodecs = map[string]struct{}{
	"h264": {},
	"vp9":  {},
	"av1":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScene(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScene() error {
	if c.Scene.Dimension < 3 || c.Scene.Dimension > 6 {
		return fmt.Errorf("scene.dimension must be between 3 and 6, got %d", c.Scene.Dimension)
	}
	if len(c.Scene.Rotations) == 0 {
		return errors.New("scene.rotations must define at least one rotation plane")
	}
	for _, rot := range c.Scene.Rotations {
		if len(rot.Plane) != 2 {
			return fmt.Errorf("scene.rotations plane %q must name two axes (e.g. \"XY\")", rot.Plane)
		}
		if !isFinite(rot.Speed) {
			return fmt.Errorf("scene.rotations plane %q has non-finite speed", rot.Plane)
		}
	}
	if c.Scene.ProjectionDistance <= 0 {
		return errors.New("scene.projection_distance must be positive")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.PixelRatio <= 0 {
		return errors.New("render.pixel_ratio must be positive")
	}
	if c.Render.PreviewWidth <= 0 || c.Render.PreviewHeight <= 0 {
		return errors.New("render.preview_width and render.preview_height must be positive")
	}
	return nil
}

func (c *Config) validateExport() error {
	if !isFinite(c.Export.FPS) || c.Export.FPS <= 0 {
		return errors.New("export.fps must be a positive finite number")
	}
	if !isFinite(c.Export.DurationSeconds) || c.Export.DurationSeconds <= 0 {
		return errors.New("export.duration_seconds must be a positive finite number")
	}
	if c.Export.BitrateKbps <= 0 {
		return errors.New("export.bitrate_kbps must be positive")
	}
	if _, ok := supportedModes[c.Export.Mode]; !ok {
		return fmt.Errorf("export.mode must be one of buffered, stream, segmented; got %q", c.Export.Mode)
	}
	if _, ok := supportedFormats[c.Export.Format]; !ok {
		return fmt.Errorf("export.format %q is not supported", c.Export.Format)
	}
	if _, ok := supportedCodecs[c.Export.Codec]; !ok {
		return fmt.Errorf("export.codec %q is not supported", c.Export.Codec)
	}
	if c.Export.WarmupFrames < 0 {
		return errors.New("export.warmup_frames must not be negative")
	}
	if c.Export.SegmentTargetMB <= 0 {
		return errors.New("export.segment_target_mb must be positive")
	}
	if strings.TrimSpace(c.Export.Preset) == "" && (c.Export.Width <= 0 || c.Export.Height <= 0) {
		return errors.New("export requires either a resolution preset or explicit width/height")
	}
	if c.Export.Crop != nil {
		crop := c.Export.Crop
		if crop.Width <= 0 || crop.Height <= 0 || crop.X < 0 || crop.Y < 0 {
			return errors.New("export.crop must have positive width/height and non-negative offsets")
		}
	}
	return nil
}

// FormatExtension returns the file extension for a validated container format.
func FormatExtension(format string) (string, bool) {
	ext, ok := supportedFormats[strings.ToLower(strings.TrimSpace(format))]
	return ext, ok
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
