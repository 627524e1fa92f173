package main

import (
	"fmt"
	"strconv"
	"strings"

	"mdxport/internal/recorder"
)

// parseCropFlag parses a crop region given as "X,Y,WIDTH,HEIGHT".
func parseCropFlag(value string) (*recorder.CropRegion, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid crop %q: expected X,Y,WIDTH,HEIGHT", value)
	}
	numbers := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid crop %q: %w", value, err)
		}
		numbers[i] = n
	}
	return &recorder.CropRegion{
		X:      numbers[0],
		Y:      numbers[1],
		Width:  numbers[2],
		Height: numbers[3],
	}, nil
}

// formatBytes renders a byte count with decimal units for display.
func formatBytes(count int64) string {
	switch {
	case count >= 1000*1000*1000:
		return fmt.Sprintf("%.2f GB", float64(count)/(1000*1000*1000))
	case count >= 1000*1000:
		return fmt.Sprintf("%.1f MB", float64(count)/(1000*1000))
	case count >= 1000:
		return fmt.Sprintf("%.1f kB", float64(count)/1000)
	default:
		return fmt.Sprintf("%d B", count)
	}
}
