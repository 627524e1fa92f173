package export

import (
	"context"
	"errors"
	"strings"
)

// ErrPickerCancelled is returned by a DestinationPicker when the user backs
// out of choosing a save location. It is not a failure: the run returns to
// idle without reporting an error.
var ErrPickerCancelled = errors.New("destination selection cancelled")

// DestinationPicker resolves the stream-mode save location before any
// rendering side effect happens.
type DestinationPicker interface {
	PickDestination(ctx context.Context, suggested string) (string, error)
}

// StaticPicker resolves to a fixed path, typically from an --output flag.
// An empty path means the user declined to choose one.
type StaticPicker struct {
	Path string
}

func (p StaticPicker) PickDestination(_ context.Context, _ string) (string, error) {
	path := strings.TrimSpace(p.Path)
	if path == "" {
		return "", ErrPickerCancelled
	}
	return path, nil
}
