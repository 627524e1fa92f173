package recorder

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	"mdxport/internal/services"
)

// Buffered encodes into a scratch file and hands the finished container back
// as in-memory bytes. Used for the fully-buffered output mode and the
// stream-mode preview clip.
type Buffered struct {
	inner    *FFmpeg
	scratch  string
	disposed bool
}

// NewBuffered constructs a buffered encoder. The configuration's Destination
// is ignored; a scratch file is allocated at Initialize.
func NewBuffered(cfg Config, logger *slog.Logger) *Buffered {
	return &Buffered{inner: NewFFmpeg(cfg, logger)}
}

func (b *Buffered) Initialize(ctx context.Context) error {
	pattern := fmt.Sprintf("mdxport-*%s", containerExt(b.inner.cfg.Format))
	scratch, err := os.CreateTemp("", pattern)
	if err != nil {
		return services.Wrap(services.ErrResource, "", "recorder initialize", "allocate scratch file", err)
	}
	name := scratch.Name()
	_ = scratch.Close()

	b.scratch = name
	b.inner.cfg.Destination = name
	return b.inner.Initialize(ctx)
}

func (b *Buffered) CaptureFrame(ctx context.Context, frame *image.RGBA, timing FrameTiming) error {
	return b.inner.CaptureFrame(ctx, frame, timing)
}

// Finalize flushes the encoder and loads the finished container into memory.
func (b *Buffered) Finalize(ctx context.Context) ([]byte, error) {
	if _, err := b.inner.Finalize(ctx); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.scratch)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, "", "recorder finalize", "read scratch file", err)
	}
	return data, nil
}

func (b *Buffered) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.inner.Dispose()
	if b.scratch != "" {
		_ = os.Remove(b.scratch)
		b.scratch = ""
	}
}

func containerExt(format string) string {
	switch format {
	case "webm":
		return ".webm"
	case "mkv":
		return ".mkv"
	default:
		return ".mp4"
	}
}

var _ Recorder = (*Buffered)(nil)
var _ Recorder = (*FFmpeg)(nil)
