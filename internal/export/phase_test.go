package export

import "testing"

func TestTransitionHappyPaths(t *testing.T) {
	cases := []struct {
		name  string
		from  Phase
		event Event
		mode  OutputMode
		want  Phase
	}{
		{"start from idle", PhaseIdle, EventStart, ModeBuffered, PhaseWarmup},
		{"restart after error", PhaseError, EventStart, ModeBuffered, PhaseWarmup},
		{"warmup to recording buffered", PhaseWarmup, EventWarmupDone, ModeBuffered, PhaseRecording},
		{"warmup to recording segmented", PhaseWarmup, EventWarmupDone, ModeSegmented, PhaseRecording},
		{"warmup to preview stream", PhaseWarmup, EventWarmupDone, ModeStream, PhasePreview},
		{"preview to recording", PhasePreview, EventPreviewDone, ModeStream, PhaseRecording},
		{"recording to finishing", PhaseRecording, EventRecordingDone, ModeBuffered, PhaseFinishing},
		{"abort from warmup", PhaseWarmup, EventAbort, ModeBuffered, PhaseFinishing},
		{"abort from preview", PhasePreview, EventAbort, ModeStream, PhaseFinishing},
		{"abort from recording", PhaseRecording, EventAbort, ModeSegmented, PhaseFinishing},
		{"abort while finishing stays", PhaseFinishing, EventAbort, ModeBuffered, PhaseFinishing},
		{"finishing to idle", PhaseFinishing, EventRestored, ModeBuffered, PhaseIdle},
		{"finishing to error", PhaseFinishing, EventFailed, ModeBuffered, PhaseError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.from, tc.event, tc.mode)
			if err != nil {
				t.Fatalf("Transition(%s, %s) error: %v", tc.from, tc.event, err)
			}
			if got != tc.want {
				t.Fatalf("Transition(%s, %s) = %s, want %s", tc.from, tc.event, got, tc.want)
			}
		})
	}
}

func TestTransitionRejectsInvalid(t *testing.T) {
	cases := []struct {
		from  Phase
		event Event
		mode  OutputMode
	}{
		{PhaseIdle, EventWarmupDone, ModeBuffered},
		{PhaseIdle, EventRecordingDone, ModeBuffered},
		{PhaseWarmup, EventStart, ModeBuffered},
		{PhaseWarmup, EventPreviewDone, ModeStream},
		{PhaseRecording, EventWarmupDone, ModeBuffered},
		{PhaseRecording, EventRestored, ModeBuffered},
		{PhaseIdle, EventAbort, ModeBuffered},
		{PhaseError, EventRestored, ModeBuffered},
	}
	for _, tc := range cases {
		if got, err := Transition(tc.from, tc.event, tc.mode); err == nil {
			t.Errorf("Transition(%s, %s) = %s, want error", tc.from, tc.event, got)
		}
	}
}
