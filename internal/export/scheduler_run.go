package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mdxport/internal/fileutil"
	"mdxport/internal/logging"
	"mdxport/internal/preflight"
	"mdxport/internal/recorder"
	"mdxport/internal/render"
	"mdxport/internal/scene"
	"mdxport/internal/segment"
	"mdxport/internal/services"
)

// ErrExportActive is returned when a run is started while another one is
// still in a non-idle state.
var ErrExportActive = errors.New("an export is already running")

// run bundles the mutable state of one export. Everything here is owned by
// the scheduler goroutine for the duration of Run.
type run struct {
	s        *Scheduler
	ctx      context.Context
	settings Settings
	logger   *slog.Logger
	sampler  *logging.ProgressSampler

	runID string
	stamp string

	state *LoopState
	exec  *executor
	plan  segment.Plan

	destination    string
	rec            *recorder.Lifecycle
	currentSegment string

	angles   scene.Snapshot
	baseline rendererBaseline
	sized    bool
	restored bool

	segmentPaths []string
	previewPath  string
	artifact     string
	artifactSize int64
	lastETA      string

	err     error
	aborted bool
}

// rendererBaseline is the renderer state captured once at export start and
// restored exactly once at finishing.
type rendererBaseline struct {
	width      int
	height     int
	pixelRatio float64
	quality    render.Quality
}

// Run executes one export to completion. It blocks until the machine reaches
// a terminal phase. A cancelled destination pick returns (nil, nil) with the
// published status back at idle; a user abort likewise yields no artifact and
// no error.
func (s *Scheduler) Run(ctx context.Context, settings Settings) (*Completion, error) {
	// Validation happens before any side effect: a failed run here leaves
	// the renderer and filesystem untouched.
	if err := settings.Validate(); err != nil {
		s.publish(Snapshot{Status: StatusError, Phase: PhaseIdle.String(), Message: err.Error()})
		return nil, err
	}

	if err := s.cfg.EnsureDirectories(); err != nil {
		wrapped := services.Wrap(services.ErrResource, "export", "prepare directories", "", err)
		s.publish(Snapshot{Status: StatusError, Phase: PhaseIdle.String(), Message: wrapped.Error()})
		return nil, wrapped
	}

	lock, err := s.acquireLock()
	if err != nil {
		return nil, err
	}
	defer s.release(lock)
	defer s.abort.Store(false)
	s.batches.Store(0)

	r := &run{
		s:        s,
		ctx:      ctx,
		settings: settings,
		runID:    uuid.NewString(),
		stamp:    time.Now().Format("20060102-150405"),
		sampler:  logging.NewProgressSampler(5),
	}
	r.logger = s.logger.With(
		logging.String(logging.FieldRunID, r.runID),
		logging.String(logging.FieldMode, string(settings.Mode)),
	)

	if settings.Mode == ModeStream {
		dest, err := s.picker.PickDestination(ctx, r.artifactFilePath())
		if errors.Is(err, ErrPickerCancelled) {
			r.logger.Info("destination selection cancelled",
				logging.String(logging.FieldEventType, "destination_cancelled"))
			s.publish(Snapshot{RunID: r.runID, Status: StatusIdle, Phase: PhaseIdle.String()})
			return nil, nil
		}
		if err != nil {
			wrapped := services.Wrap(services.ErrResource, "export", "pick destination", "", err)
			s.publish(Snapshot{RunID: r.runID, Status: StatusError, Phase: PhaseIdle.String(), Message: wrapped.Error()})
			return nil, wrapped
		}
		r.destination = dest
	}

	dir := settings.OutputDir
	if settings.Mode == ModeStream {
		dir = filepath.Dir(r.destination)
	}
	estimated := preflight.EstimateBytes(settings.BitrateBps(), settings.DurationSeconds)
	if err := preflight.Require(dir, estimated); err != nil {
		s.publish(Snapshot{RunID: r.runID, Status: StatusError, Phase: PhaseIdle.String(), Message: err.Error()})
		return nil, err
	}

	if err := r.applyRendererSettings(); err != nil {
		r.restore()
		s.publish(Snapshot{RunID: r.runID, Status: StatusError, Phase: PhaseIdle.String(), Message: err.Error()})
		return nil, err
	}

	r.state = &LoopState{
		FrameDurationMs: settings.FrameDurationMs(),
		StartedAt:       time.Now(),
	}
	if settings.Mode == ModeSegmented {
		r.plan = settings.SegmentPlan()
	}
	phase, terr := Transition(PhaseIdle, EventStart, settings.Mode)
	if terr != nil {
		r.restore()
		return nil, terr
	}
	r.state.enterPhase(phase, settings.WarmupFrames)

	r.logger.Info("export started",
		logging.Int("total_frames", settings.TotalFrames()),
		logging.Float64("fps", settings.FPS),
		logging.Float64("duration_seconds", settings.DurationSeconds),
		logging.String(logging.FieldEventType, "export_started"),
	)
	if err := s.notifier.NotifyExportStarted(ctx, string(settings.Mode), settings.TotalFrames()); err != nil {
		r.logger.Warn("start notification failed", logging.Error(err))
	}
	r.publishProgress()

	r.exec = newExecutor()
	r.exec.post(r.processBatch)
	r.exec.run(ctx)

	// The executor can exit on context cancellation with a batch still
	// queued; the finishing pass must run regardless.
	if !r.restored {
		r.aborted = true
		if r.state.Phase != PhaseFinishing {
			if next, err := Transition(r.state.Phase, EventAbort, settings.Mode); err == nil {
				r.state.enterPhase(next, 0)
			}
		}
		r.finish()
	}

	elapsed := time.Since(r.state.StartedAt)
	if r.err != nil {
		if nerr := s.notifier.NotifyError(ctx, r.err, r.state.Phase.String()); nerr != nil {
			r.logger.Warn("error notification failed", logging.Error(nerr))
		}
		return nil, r.err
	}
	if r.aborted {
		r.logger.Info("export aborted",
			logging.Int(logging.FieldFrame, r.state.FrameIndex),
			logging.String(logging.FieldEventType, "export_aborted"))
		return nil, nil
	}

	completion := r.completionPayload(elapsed)
	r.logger.Info("export completed",
		logging.Int("frames", completion.Frames),
		logging.Int64("bytes", completion.Bytes),
		logging.String("elapsed", completion.Elapsed),
		logging.String(logging.FieldEventType, "export_completed"),
	)
	if err := s.notifier.NotifyExportCompleted(ctx, completion.ArtifactPath, elapsed); err != nil {
		r.logger.Warn("completion notification failed", logging.Error(err))
	}
	return completion, nil
}

// applyRendererSettings captures the renderer baseline and sizes it for the
// export. Frames are captured at exactly the output resolution, so the pixel
// ratio is pinned to 1 until restoration.
func (r *run) applyRendererSettings() error {
	renderer := r.s.renderer
	w, h := renderer.Size()
	r.baseline = rendererBaseline{
		width:      w,
		height:     h,
		pixelRatio: renderer.PixelRatio(),
		quality:    renderer.Quality(),
	}
	if err := renderer.SetSize(r.settings.Width, r.settings.Height); err != nil {
		return services.Wrap(services.ErrResource, "export", "resize renderer", "", err)
	}
	r.sized = true
	renderer.SetPixelRatio(1)

	quality := r.baseline.quality
	if r.settings.DisableReprojection {
		quality.TemporalReprojection = false
	}
	renderer.SetQuality(quality)
	return nil
}

// restore undoes every shared-resource mutation the run made. It is invoked
// from every exit path and is idempotent.
func (r *run) restore() {
	if r.restored {
		return
	}
	r.restored = true

	r.s.owner.Release()
	r.rec = nil

	if r.sized {
		renderer := r.s.renderer
		if err := renderer.SetSize(r.baseline.width, r.baseline.height); err != nil {
			r.logger.Warn("failed to restore renderer size", logging.Error(err))
		}
		renderer.SetPixelRatio(r.baseline.pixelRatio)
		renderer.SetQuality(r.baseline.quality)
	}
}

func (r *run) artifactFilePath() string {
	return r.outputPath("")
}

func (r *run) previewFilePath() string {
	return r.outputPath("-preview")
}

// segmentFilePath names part n (1-based) of a segmented run.
func (r *run) segmentFilePath(n int) string {
	return r.outputPath(fmt.Sprintf("-part%d", n))
}

func (r *run) outputPath(suffix string) string {
	name := fmt.Sprintf("%s-%s%s%s", r.settings.BaseName, r.stamp, suffix, r.settings.Extension())
	return filepath.Join(r.settings.OutputDir, name)
}

func (r *run) completionPayload(elapsed time.Duration) *Completion {
	c := &Completion{
		Mode:        r.settings.Mode,
		Frames:      r.settings.TotalFrames(),
		Elapsed:     elapsed.Round(time.Second).String(),
		PreviewPath: r.previewPath,
	}
	switch r.settings.Mode {
	case ModeSegmented:
		c.SegmentPaths = append([]string(nil), r.segmentPaths...)
		for _, path := range r.segmentPaths {
			if info, err := os.Stat(path); err == nil {
				c.Bytes += info.Size()
			}
		}
	default:
		c.ArtifactPath = r.artifact
		c.Bytes = r.artifactSize
	}
	return c
}

// writeArtifact lands the buffered container bytes in the output directory.
func (r *run) writeArtifact(data []byte) error {
	path := r.artifactFilePath()
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return services.Wrap(services.ErrResource, "export", "write artifact", "", err)
	}
	r.artifact = path
	r.artifactSize = int64(len(data))
	return nil
}

func (r *run) writePreview(path string, data []byte) error {
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return services.Wrap(services.ErrResource, "export", "write preview", "", err)
	}
	return nil
}
