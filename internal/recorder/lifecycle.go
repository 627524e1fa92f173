package recorder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

type lifecycleState int

const (
	stateNew lifecycleState = iota
	stateInitialized
	stateFinalized
	stateDisposed
)

func (s lifecycleState) String() string {
	switch s {
	case stateNew:
		return "new"
	case stateInitialized:
		return "initialized"
	case stateFinalized:
		return "finalized"
	default:
		return "disposed"
	}
}

// Lifecycle wraps a Recorder and enforces the strict call order the encoder
// requires: Initialize, then captures, then Finalize, then Dispose. Dispose
// is idempotent and safe from any state.
type Lifecycle struct {
	mu    sync.Mutex
	inner Recorder
	state lifecycleState
}

// NewLifecycle wraps the given recorder.
func NewLifecycle(inner Recorder) *Lifecycle {
	return &Lifecycle{inner: inner}
}

// Initialize transitions new -> initialized.
func (l *Lifecycle) Initialize(ctx context.Context) error {
	l.mu.Lock()
	if l.state != stateNew {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("recorder initialize from state %s", state)
	}
	l.mu.Unlock()

	if err := l.inner.Initialize(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	l.state = stateInitialized
	l.mu.Unlock()
	return nil
}

// CaptureFrame forwards a frame to the encoder. Only valid while initialized.
func (l *Lifecycle) CaptureFrame(ctx context.Context, frame *image.RGBA, timing FrameTiming) error {
	l.mu.Lock()
	if l.state != stateInitialized {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("recorder capture from state %s", state)
	}
	l.mu.Unlock()
	return l.inner.CaptureFrame(ctx, frame, timing)
}

// Finalize flushes the container and transitions to finalized.
func (l *Lifecycle) Finalize(ctx context.Context) ([]byte, error) {
	l.mu.Lock()
	if l.state != stateInitialized {
		state := l.state
		l.mu.Unlock()
		return nil, fmt.Errorf("recorder finalize from state %s", state)
	}
	l.mu.Unlock()

	out, err := l.inner.Finalize(ctx)

	l.mu.Lock()
	l.state = stateFinalized
	l.mu.Unlock()
	return out, err
}

// Dispose releases encoder resources. Repeat calls are no-ops.
func (l *Lifecycle) Dispose() {
	l.mu.Lock()
	if l.state == stateDisposed {
		l.mu.Unlock()
		return
	}
	l.state = stateDisposed
	l.mu.Unlock()
	l.inner.Dispose()
}

// Open reports whether the recorder still needs a Dispose call.
func (l *Lifecycle) Open() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state != stateDisposed
}

// Owner enforces single ownership of the active recorder: a new lifecycle
// can only be acquired after the prior one was disposed.
type Owner struct {
	mu      sync.Mutex
	current *Lifecycle
}

// ErrRecorderActive is returned when an acquisition overlaps an open recorder.
var ErrRecorderActive = errors.New("a recorder is already active")

// Acquire wraps inner in a Lifecycle and registers it as the active recorder.
func (o *Owner) Acquire(inner Recorder) (*Lifecycle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil && o.current.Open() {
		return nil, ErrRecorderActive
	}
	lc := NewLifecycle(inner)
	o.current = lc
	return lc, nil
}

// Release disposes the active recorder if one is still open.
func (o *Owner) Release() {
	o.mu.Lock()
	current := o.current
	o.current = nil
	o.mu.Unlock()
	if current != nil {
		current.Dispose()
	}
}
