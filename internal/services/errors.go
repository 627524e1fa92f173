package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks settings rejected before any side effect occurred.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration discovered at wiring time.
	ErrConfiguration = errors.New("configuration error")
	// ErrCancelled marks user-initiated cancellation; it is not a failure.
	ErrCancelled = errors.New("cancelled")
	// ErrResource marks failures of shared resources (renderer, destination).
	ErrResource = errors.New("resource error")
	// ErrExternalTool marks failures of the external encoder process.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrResource
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancellation reports whether err represents user cancellation rather than
// a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrCancelled)
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
