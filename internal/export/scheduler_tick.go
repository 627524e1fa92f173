package export

import (
	"os"
	"time"

	"mdxport/internal/logging"
	"mdxport/internal/recorder"
	"mdxport/internal/services"
)

// processBatch is the time-budgeted batch runner. It performs phase ticks
// until the budget is spent, then reposts itself so the executor can
// interleave other work. A batch never spins for the whole export.
func (r *run) processBatch() {
	r.s.batches.Add(1)
	r.pollAbort()

	batchStart := time.Now()
	for {
		if r.terminal() {
			r.exec.finish()
			return
		}
		r.tick()
		if r.terminal() {
			r.exec.finish()
			return
		}
		if time.Since(batchStart) >= r.s.maxBlockingTime {
			break
		}
	}
	if !r.exec.post(r.processBatch) {
		r.exec.finish()
	}
}

func (r *run) terminal() bool {
	return r.state.Phase == PhaseIdle || r.state.Phase == PhaseError
}

// pollAbort routes an abort request through finishing. Checked at the top of
// every batch and every tick, so cancellation lands within one tick.
func (r *run) pollAbort() {
	if r.state.Phase == PhaseFinishing || r.terminal() {
		return
	}
	if r.s.abort.Load() || r.ctx.Err() != nil {
		r.aborted = true
		if next, err := Transition(r.state.Phase, EventAbort, r.settings.Mode); err == nil {
			r.state.enterPhase(next, 0)
		}
	}
}

func (r *run) tick() {
	r.pollAbort()
	switch r.state.Phase {
	case PhaseWarmup:
		r.tickWarmup()
	case PhasePreview:
		r.tickPreview()
	case PhaseRecording:
		r.tickRecording()
	case PhaseFinishing:
		r.finish()
	}
}

// tickWarmup renders settle frames without capture.
func (r *run) tickWarmup() {
	if r.state.FrameIndex >= r.state.TotalFrames {
		r.leaveWarmup()
		return
	}
	r.renderFrame()
	r.state.FrameIndex++
}

func (r *run) leaveWarmup() {
	next, err := Transition(r.state.Phase, EventWarmupDone, r.settings.Mode)
	if err != nil {
		r.fail(services.Wrap(services.ErrResource, "export", "phase transition", err.Error(), nil))
		return
	}

	if next == PhasePreview {
		// The preview run perturbs the animation; capture the angles now so
		// recording can start from exactly this state.
		r.angles = r.s.scene.Snapshot()
		cfg := r.recorderConfig("", 0, 0)
		if err := r.openRecorder(cfg); err != nil {
			r.fail(err)
			return
		}
		r.state.enterPhase(next, r.settings.PreviewFrames())
		r.state.BatchAnchorMs = 0
		r.state.SegmentStartMs = 0
		r.publishProgress()
		return
	}

	if err := r.openMainRecorder(); err != nil {
		r.fail(err)
		return
	}
	r.enterRecording(next)
}

// tickPreview captures the short stream-mode confirmation clip.
func (r *run) tickPreview() {
	if r.state.FrameIndex >= r.state.TotalFrames {
		r.finishPreview()
		return
	}
	r.renderFrame()
	if err := r.captureFrame(); err != nil {
		r.fail(services.Wrap(services.ErrExternalTool, "export", "capture preview frame", "", err))
		return
	}
	r.state.FrameIndex++
}

func (r *run) finishPreview() {
	data, err := r.rec.Finalize(r.ctx)
	if err != nil {
		r.fail(services.Wrap(services.ErrExternalTool, "export", "finalize preview", "", err))
		return
	}
	r.s.owner.Release()
	r.rec = nil

	if len(data) > 0 {
		path := r.previewFilePath()
		if err := r.writePreview(path, data); err != nil {
			r.fail(err)
			return
		}
		r.previewPath = path
	}

	// Restore the post-warmup angles so the preview pass leaves no trace on
	// the recording timeline.
	r.s.scene.Restore(r.angles)
	r.angles = nil

	next, err := Transition(r.state.Phase, EventPreviewDone, r.settings.Mode)
	if err != nil {
		r.fail(services.Wrap(services.ErrResource, "export", "phase transition", err.Error(), nil))
		return
	}
	if err := r.openMainRecorder(); err != nil {
		r.fail(err)
		return
	}
	r.enterRecording(next)
}

// tickRecording is the steady-state phase. The segment boundary is evaluated
// before the per-frame render/capture step, so a segment never holds one
// frame more than planned.
func (r *run) tickRecording() {
	if r.state.FrameIndex >= r.state.TotalFrames {
		next, err := Transition(r.state.Phase, EventRecordingDone, r.settings.Mode)
		if err != nil {
			r.fail(services.Wrap(services.ErrResource, "export", "phase transition", err.Error(), nil))
			return
		}
		r.state.Phase = next
		return
	}

	if r.settings.Mode == ModeSegmented && r.state.SegmentFrames >= r.state.FramesPerSegment {
		if err := r.rotateSegment(); err != nil {
			r.fail(err)
			return
		}
	}

	r.renderFrame()
	if err := r.captureFrame(); err != nil {
		r.fail(services.Wrap(services.ErrExternalTool, "export", "capture frame", "", err))
		return
	}
	r.state.FrameIndex++
	r.state.SegmentFrames++
	r.publishProgress()
}

// renderFrame advances the scene by one synthetic frame duration and renders
// at the timestamp derived from the frame index, never from wall time.
func (r *run) renderFrame() {
	r.s.scene.Advance(r.state.FrameDurationMs / 1000)
	r.s.renderer.Advance(r.state.TimestampMs())
}

func (r *run) captureFrame() error {
	timing := recorder.FrameTiming{
		SegmentSeconds:  r.state.SegmentSeconds(),
		DurationSeconds: r.state.FrameDurationMs / 1000,
		GlobalSeconds:   r.state.GlobalSeconds(),
	}
	return r.rec.CaptureFrame(r.ctx, r.s.renderer.Frame(), timing)
}

func (r *run) enterRecording(p Phase) {
	r.state.enterPhase(p, r.settings.TotalFrames())
	r.state.BatchAnchorMs = 0
	r.state.SegmentStartMs = 0
	r.state.SegmentIndex = 0
	r.state.SegmentFrames = 0
	if r.settings.Mode == ModeSegmented {
		r.state.FramesPerSegment = r.plan.FramesFor(r.state.TotalFrames)
	}
	r.publishProgress()
}

// openMainRecorder constructs the recorder for the recording phase.
func (r *run) openMainRecorder() error {
	switch r.settings.Mode {
	case ModeStream:
		return r.openRecorder(r.recorderConfig(r.destination, r.settings.DurationSeconds, 0))
	case ModeSegmented:
		return r.openRecorder(r.recorderConfig(r.segmentFilePath(1), r.settings.DurationSeconds, 0))
	default:
		return r.openRecorder(r.recorderConfig("", r.settings.DurationSeconds, 0))
	}
}

// rotateSegment closes the full segment and opens the next one, sized as the
// smaller of the planned count and the frames remaining. The global frame
// counter keeps running.
func (r *run) rotateSegment() error {
	if _, err := r.rec.Finalize(r.ctx); err != nil {
		return services.Wrap(services.ErrExternalTool, "export", "finalize segment", "", err)
	}
	r.s.owner.Release()
	r.rec = nil
	r.segmentPaths = append(r.segmentPaths, r.currentSegment)
	r.logger.Info("segment complete",
		logging.Int(logging.FieldSegment, r.state.SegmentIndex+1),
		logging.String("path", r.currentSegment),
		logging.String(logging.FieldEventType, "segment_complete"),
	)

	r.state.SegmentIndex++
	r.state.SegmentFrames = 0
	r.state.SegmentStartMs = r.state.TimestampMs()
	r.state.FramesPerSegment = r.plan.FramesFor(r.state.TotalFrames - r.state.FrameIndex)

	cfg := r.recorderConfig(
		r.segmentFilePath(r.state.SegmentIndex+1),
		r.settings.DurationSeconds,
		r.state.GlobalSeconds(),
	)
	return r.openRecorder(cfg)
}

func (r *run) recorderConfig(destination string, totalDurationSec, globalOffsetSec float64) recorder.Config {
	return recorder.Config{
		Width:            r.settings.Width,
		Height:           r.settings.Height,
		FPS:              r.settings.FPS,
		BitrateBps:       r.settings.BitrateBps(),
		Format:           r.settings.Format,
		Codec:            r.settings.Codec,
		Crop:             r.settings.Crop,
		OverlayText:      r.settings.OverlayText,
		TotalDurationSec: totalDurationSec,
		GlobalOffsetSec:  globalOffsetSec,
		Destination:      destination,
		FFmpegBinary:     r.settings.FFmpegBinary,
	}
}

// openRecorder acquires single ownership of a fresh recorder and initializes
// it. On failure the instance is disposed before returning.
func (r *run) openRecorder(cfg recorder.Config) error {
	if err := cfg.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "export", "configure recorder", "", err)
	}
	lc, err := r.s.owner.Acquire(r.s.factory(cfg))
	if err != nil {
		return services.Wrap(services.ErrResource, "export", "acquire recorder", "", err)
	}
	if err := lc.Initialize(r.ctx); err != nil {
		r.s.owner.Release()
		return services.Wrap(services.ErrExternalTool, "export", "initialize recorder", "", err)
	}
	r.rec = lc
	if r.settings.Mode == ModeSegmented {
		r.currentSegment = cfg.Destination
	}
	return nil
}

// fail records the first error and routes the machine into finishing so the
// restoration pass still runs.
func (r *run) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.logger.Error("export failed",
		logging.Error(err),
		logging.String(logging.FieldPhase, r.state.Phase.String()),
		logging.Int(logging.FieldFrame, r.state.FrameIndex),
	)
	if r.state.Phase != PhaseFinishing && !r.terminal() {
		if next, terr := Transition(r.state.Phase, EventAbort, r.settings.Mode); terr == nil {
			r.state.enterPhase(next, 0)
		}
	}
}

// finish is the single exit path: finalize the open recorder, land the
// mode-specific artifact, restore shared state, and publish the terminal
// snapshot. Safe to call more than once.
func (r *run) finish() {
	if r.rec != nil && r.err == nil {
		data, err := r.rec.Finalize(r.ctx)
		if err != nil {
			r.err = services.Wrap(services.ErrExternalTool, "export", "finalize recorder", "", err)
		} else if !r.aborted {
			switch r.settings.Mode {
			case ModeBuffered:
				if werr := r.writeArtifact(data); werr != nil {
					r.err = werr
				}
			case ModeStream:
				r.artifact = r.destination
				if info, statErr := os.Stat(r.destination); statErr == nil {
					r.artifactSize = info.Size()
				}
			case ModeSegmented:
				r.segmentPaths = append(r.segmentPaths, r.currentSegment)
			}
		}
	}

	r.restore()

	if r.err != nil && !services.IsCancellation(r.err) {
		if next, terr := Transition(PhaseFinishing, EventFailed, r.settings.Mode); terr == nil {
			r.state.Phase = next
		}
		r.publishTerminal(StatusError, r.err.Error())
		return
	}
	if next, terr := Transition(PhaseFinishing, EventRestored, r.settings.Mode); terr == nil {
		r.state.Phase = next
	}
	if r.aborted {
		r.publishTerminal(StatusIdle, "")
		return
	}
	r.publishTerminal(StatusCompleted, "")
}
