package recorder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"mdxport/internal/logging"
	"mdxport/internal/services"
)

// fadeSeconds is the duration-keyed fade-out applied to the end of the full
// export timeline.
const fadeSeconds = 1.0

// FFmpeg encodes raw RGBA frames by piping them into an ffmpeg process bound
// to a destination path.
type FFmpeg struct {
	cfg    Config
	logger *slog.Logger

	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stderr   bytes.Buffer
	frames   int64
	rowBuf   []byte
	disposed bool
}

// NewFFmpeg constructs an encoder writing to cfg.Destination.
func NewFFmpeg(cfg Config, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{cfg: cfg, logger: logging.NewComponentLogger(logger, "recorder")}
}

// Initialize validates the configuration and spawns the encoder process.
func (f *FFmpeg) Initialize(ctx context.Context) error {
	if err := f.cfg.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "", "recorder initialize", "", err)
	}
	if strings.TrimSpace(f.cfg.Destination) == "" {
		return services.Wrap(services.ErrConfiguration, "", "recorder initialize", "destination not set", nil)
	}

	args := f.cfg.args()
	binary := f.cfg.FFmpegBinary
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = &f.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "recorder initialize", "open encoder pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "", "recorder initialize", "start encoder", err)
	}

	f.cmd = cmd
	f.stdin = stdin
	f.logger.Debug("encoder started",
		logging.String("destination", f.cfg.Destination),
		logging.String("codec", f.cfg.Codec),
		logging.Int("width", f.cfg.Width),
		logging.Int("height", f.cfg.Height),
	)
	return nil
}

// CaptureFrame streams one RGBA frame to the encoder. Frames must match the
// configured dimensions after pixel-ratio scaling.
func (f *FFmpeg) CaptureFrame(ctx context.Context, frame *image.RGBA, timing FrameTiming) error {
	if f.stdin == nil {
		return services.Wrap(services.ErrExternalTool, "", "capture frame", "encoder not running", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bounds := frame.Bounds()
	if bounds.Dx() != f.cfg.Width || bounds.Dy() != f.cfg.Height {
		return services.Wrap(services.ErrResource, "", "capture frame",
			fmt.Sprintf("frame %dx%d does not match encoder %dx%d", bounds.Dx(), bounds.Dy(), f.cfg.Width, f.cfg.Height), nil)
	}

	rowBytes := f.cfg.Width * 4
	if frame.Stride == rowBytes && bounds.Min == (image.Point{}) {
		if _, err := f.stdin.Write(frame.Pix); err != nil {
			return f.captureError(err)
		}
	} else {
		if cap(f.rowBuf) < rowBytes {
			f.rowBuf = make([]byte, rowBytes)
		}
		for y := 0; y < f.cfg.Height; y++ {
			offset := frame.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(f.rowBuf[:rowBytes], frame.Pix[offset:offset+rowBytes])
			if _, err := f.stdin.Write(f.rowBuf[:rowBytes]); err != nil {
				return f.captureError(err)
			}
		}
	}

	f.frames++
	return nil
}

func (f *FFmpeg) captureError(err error) error {
	detail := strings.TrimSpace(tail(f.stderr.String(), 400))
	return services.Wrap(services.ErrExternalTool, "", "capture frame", detail, err)
}

// Finalize closes the frame pipe and waits for the container to flush. The
// artifact lives at the destination path, so no bytes are returned.
func (f *FFmpeg) Finalize(ctx context.Context) ([]byte, error) {
	if f.cmd == nil {
		return nil, services.Wrap(services.ErrExternalTool, "", "recorder finalize", "encoder not running", nil)
	}
	if f.stdin != nil {
		_ = f.stdin.Close()
		f.stdin = nil
	}

	done := make(chan error, 1)
	go func() { done <- f.cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = f.cmd.Process.Kill()
		<-done
		f.cmd = nil
		return nil, ctx.Err()
	case err := <-done:
		f.cmd = nil
		if err != nil {
			detail := strings.TrimSpace(tail(f.stderr.String(), 400))
			return nil, services.Wrap(services.ErrExternalTool, "", "recorder finalize", detail, err)
		}
	}

	f.logger.Debug("encoder finalized",
		logging.String("destination", f.cfg.Destination),
		logging.Int64("frames", f.frames),
	)
	return nil, nil
}

// Dispose kills a still-running encoder. Safe to call repeatedly.
func (f *FFmpeg) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	if f.stdin != nil {
		_ = f.stdin.Close()
		f.stdin = nil
	}
	if f.cmd != nil {
		_ = f.cmd.Process.Kill()
		_ = f.cmd.Wait()
		f.cmd = nil
	}
}

// args builds the ffmpeg invocation for this configuration.
func (c Config) args() []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height),
		"-framerate", fmt.Sprintf("%g", c.FPS),
		"-i", "-",
	}

	if filters := c.filterChain(); filters != "" {
		args = append(args, "-vf", filters)
	}

	args = append(args, "-c:v", codecEncoder(c.Codec))
	args = append(args, "-b:v", fmt.Sprintf("%d", c.BitrateBps))
	args = append(args, "-pix_fmt", "yuv420p")

	switch strings.ToLower(c.Format) {
	case "mp4":
		args = append(args, "-movflags", "+faststart", "-f", "mp4")
	case "webm":
		args = append(args, "-f", "webm")
	case "mkv":
		args = append(args, "-f", "matroska")
	}

	return append(args, c.Destination)
}

// filterChain assembles crop, overlay, and the duration-keyed fade. The fade
// references the global timeline: for a segment starting at GlobalOffsetSec,
// the fade start is shifted into segment-relative time.
func (c Config) filterChain() string {
	var filters []string
	if c.Crop != nil {
		filters = append(filters, fmt.Sprintf("crop=%d:%d:%d:%d", c.Crop.Width, c.Crop.Height, c.Crop.X, c.Crop.Y))
	}
	if text := strings.TrimSpace(c.OverlayText); text != "" {
		escaped := strings.ReplaceAll(text, "'", `\'`)
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':x=16:y=h-th-16:fontsize=24:fontcolor=white@0.85", escaped))
	}
	if c.TotalDurationSec > fadeSeconds {
		start := c.TotalDurationSec - fadeSeconds - c.GlobalOffsetSec
		if start+fadeSeconds > 0 {
			if start < 0 {
				start = 0
			}
			filters = append(filters, fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f", start, fadeSeconds))
		}
	}
	return strings.Join(filters, ",")
}

func codecEncoder(codec string) string {
	switch strings.ToLower(codec) {
	case "vp9":
		return "libvpx-vp9"
	case "av1":
		return "libsvtav1"
	default:
		return "libx264"
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
