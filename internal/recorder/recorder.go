package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

// Config describes one encoder instance. Width and height must be even for
// codec compatibility; Destination is only set when writing straight to a
// user-chosen path.
type Config struct {
	Width       int
	Height      int
	FPS         float64
	BitrateBps  int64
	Format      string
	Codec       string
	Crop        *CropRegion
	OverlayText string
	// TotalDurationSec, when positive, lets duration-keyed effects (fades)
	// reference the full un-segmented timeline.
	TotalDurationSec float64
	// GlobalOffsetSec is this recorder's start position on the full
	// timeline. Zero except for segments after the first.
	GlobalOffsetSec float64
	Destination     string
	FFmpegBinary    string
}

// CropRegion is an output crop in pixels.
type CropRegion struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FrameTiming carries the timestamps attached to one captured frame.
// SegmentSeconds restarts at zero for every segment; GlobalSeconds is the
// position on the full export timeline and equals SegmentSeconds for
// unsegmented output.
type FrameTiming struct {
	SegmentSeconds  float64
	DurationSeconds float64
	GlobalSeconds   float64
}

// Recorder is the encoder contract. Lifecycle is strictly nested: Initialize
// before any CaptureFrame, Finalize as the last productive call, Dispose on
// every exit path.
type Recorder interface {
	Initialize(ctx context.Context) error
	CaptureFrame(ctx context.Context, frame *image.RGBA, timing FrameTiming) error
	// Finalize flushes the container. Buffered recorders return the encoded
	// bytes; recorders bound to a destination return nil.
	Finalize(ctx context.Context) ([]byte, error)
	Dispose()
}

// Validate checks the encoder configuration before any process is spawned.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("recorder dimensions %dx%d must be positive", c.Width, c.Height)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("recorder dimensions %dx%d must be even", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return errors.New("recorder fps must be positive")
	}
	if c.BitrateBps <= 0 {
		return errors.New("recorder bitrate must be positive")
	}
	if strings.TrimSpace(c.Format) == "" {
		return errors.New("recorder format must be set")
	}
	if c.Crop != nil {
		crop := c.Crop
		if crop.Width <= 0 || crop.Height <= 0 {
			return errors.New("crop region must have positive dimensions")
		}
		if crop.X < 0 || crop.Y < 0 || crop.X+crop.Width > c.Width || crop.Y+crop.Height > c.Height {
			return fmt.Errorf("crop region %dx%d+%d+%d exceeds frame %dx%d",
				crop.Width, crop.Height, crop.X, crop.Y, c.Width, c.Height)
		}
	}
	return nil
}
