package export

import "fmt"

// Phase identifies one state of the export machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWarmup
	PhasePreview
	PhaseRecording
	PhaseFinishing
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWarmup:
		return "warmup"
	case PhasePreview:
		return "preview"
	case PhaseRecording:
		return "recording"
	case PhaseFinishing:
		return "finishing"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Event is an input to the phase transition function.
type Event int

const (
	// EventStart begins a run from idle.
	EventStart Event = iota
	// EventWarmupDone fires when the warm-up frame counter reaches the
	// configured count.
	EventWarmupDone
	// EventPreviewDone fires when the stream-mode preview clip is complete.
	EventPreviewDone
	// EventRecordingDone fires when the frame index reaches the total count.
	EventRecordingDone
	// EventAbort routes any active phase through finishing so restoration
	// still runs.
	EventAbort
	// EventRestored fires after the finishing pass restored all resources.
	EventRestored
	// EventFailed marks the terminal state as error instead of idle.
	EventFailed
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventWarmupDone:
		return "warmup_done"
	case EventPreviewDone:
		return "preview_done"
	case EventRecordingDone:
		return "recording_done"
	case EventAbort:
		return "abort"
	case EventRestored:
		return "restored"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Transition is the pure phase-machine step. Segment rotation is not a phase
// of its own; it happens inside recording and never changes the phase.
func Transition(p Phase, ev Event, mode OutputMode) (Phase, error) {
	switch ev {
	case EventStart:
		if p == PhaseIdle || p == PhaseError {
			return PhaseWarmup, nil
		}
	case EventWarmupDone:
		if p == PhaseWarmup {
			if mode == ModeStream {
				return PhasePreview, nil
			}
			return PhaseRecording, nil
		}
	case EventPreviewDone:
		if p == PhasePreview {
			return PhaseRecording, nil
		}
	case EventRecordingDone:
		if p == PhaseRecording {
			return PhaseFinishing, nil
		}
	case EventAbort:
		switch p {
		case PhaseWarmup, PhasePreview, PhaseRecording:
			return PhaseFinishing, nil
		case PhaseFinishing:
			return PhaseFinishing, nil
		}
	case EventRestored:
		if p == PhaseFinishing {
			return PhaseIdle, nil
		}
	case EventFailed:
		if p == PhaseFinishing {
			return PhaseError, nil
		}
	}
	return p, fmt.Errorf("invalid transition: %s on %s", ev, p)
}
