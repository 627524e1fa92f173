package preflight

import (
	"context"
	"fmt"

	"mdxport/internal/config"
	"mdxport/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// spaceHeadroom inflates the size estimate so an export never runs a
// filesystem to the last byte.
const spaceHeadroom = 1.2

// RunAll executes every applicable readiness check for the given config.
// The status command renders these; failures there are advisory.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFFmpeg(ctx, cfg.FFmpegBinary()),
	}
	return results
}

// Require gates an export run: the destination directory must be writable
// and hold the estimated output size plus headroom. It returns a resource
// error suitable for surfacing directly.
func Require(dir string, estimatedBytes int64) error {
	if res := CheckDirectoryAccess("Output directory", dir); !res.Passed {
		return services.Wrap(services.ErrResource, "preflight", "check destination", res.Detail, nil)
	}
	required := int64(float64(estimatedBytes) * spaceHeadroom)
	if res := CheckFreeSpace("Free space", dir, required); !res.Passed {
		return services.Wrap(services.ErrResource, "preflight", "check free space", res.Detail, nil)
	}
	return nil
}

// EstimateBytes predicts the artifact size from bitrate and duration.
func EstimateBytes(bitrateBps int64, durationSeconds float64) int64 {
	return int64(float64(bitrateBps) / 8 * durationSeconds)
}

func formatBytes(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGTPE"[exp])
}
