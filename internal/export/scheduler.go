package export

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"mdxport/internal/config"
	"mdxport/internal/logging"
	"mdxport/internal/notifications"
	"mdxport/internal/recorder"
	"mdxport/internal/render"
	"mdxport/internal/scene"
)

// MaxBlockingTime bounds one batch-runner invocation. The runner yields and
// reposts itself once a batch has consumed this much wall time.
const MaxBlockingTime = 30 * time.Millisecond

// etaPublishInterval throttles ETA recomputation in the published snapshot.
const etaPublishInterval = time.Second

// RecorderFactory builds the encoder for one recorder configuration. The
// default factory returns a buffered recorder when no destination is set and
// an ffmpeg recorder bound to the destination path otherwise.
type RecorderFactory func(cfg recorder.Config) recorder.Recorder

// Scheduler drives one export at a time: the phase machine, the batch
// runner, status publication, and resource restoration.
type Scheduler struct {
	cfg      *config.Config
	scene    *scene.State
	renderer render.Renderer
	factory  RecorderFactory
	picker   DestinationPicker
	notifier notifications.Service
	logger   *slog.Logger

	maxBlockingTime time.Duration
	lockPath        string

	owner   recorder.Owner
	abort   atomic.Bool
	batches atomic.Int64

	mu       sync.Mutex
	running  bool
	snapshot Snapshot
	listener func(Snapshot)
}

// Option configures optional Scheduler behavior.
type Option func(*Scheduler)

// WithDestinationPicker sets the stream-mode save location resolver.
func WithDestinationPicker(p DestinationPicker) Option {
	return func(s *Scheduler) { s.picker = p }
}

// WithNotifier overrides the notification service (used in tests).
func WithNotifier(n notifications.Service) Option {
	return func(s *Scheduler) { s.notifier = n }
}

// WithStatusListener registers a callback invoked on every published
// snapshot. The callback runs on the scheduler goroutine and must be quick.
func WithStatusListener(fn func(Snapshot)) Option {
	return func(s *Scheduler) { s.listener = fn }
}

// WithRecorderFactory overrides encoder construction (used in tests).
func WithRecorderFactory(f RecorderFactory) Option {
	return func(s *Scheduler) { s.factory = f }
}

// WithMaxBlockingTime overrides the batch budget (used in tests).
func WithMaxBlockingTime(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.maxBlockingTime = d
		}
	}
}

// New constructs a scheduler over the given scene and renderer.
func New(cfg *config.Config, sceneState *scene.State, renderer render.Renderer, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scheduler{
		cfg:             cfg,
		scene:           sceneState,
		renderer:        renderer,
		logger:          logger.With(logging.String(logging.FieldComponent, "export")),
		maxBlockingTime: MaxBlockingTime,
		lockPath:        cfg.LockFilePath(),
		notifier:        notifications.NewService(cfg),
		picker:          StaticPicker{},
		snapshot:        Snapshot{Status: StatusIdle, Phase: PhaseIdle.String()},
	}
	s.factory = func(rc recorder.Config) recorder.Recorder {
		if rc.Destination == "" {
			return recorder.NewBuffered(rc, s.logger)
		}
		return recorder.NewFFmpeg(rc, s.logger)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the latest published snapshot.
func (s *Scheduler) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Abort requests cooperative cancellation. It takes effect within one tick;
// the run still walks the finishing phase so restoration is guaranteed.
func (s *Scheduler) Abort() {
	s.abort.Store(true)
}

// Running reports whether an export is currently active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) publish(snap Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		listener(snap)
	}
}

// acquireLock guards against a second export both in-process and across
// processes (flock on the lock file).
func (s *Scheduler) acquireLock() (*flock.Flock, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrExportActive
	}
	s.running = true
	s.mu.Unlock()

	lock := flock.New(s.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		s.release(nil)
		return nil, err
	}
	if !ok {
		s.release(nil)
		return nil, ErrExportActive
	}
	return lock, nil
}

func (s *Scheduler) release(lock *flock.Flock) {
	if lock != nil {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release export lock", logging.Error(err))
		}
	}
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
