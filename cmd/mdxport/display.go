package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// displayMode renders an output mode name for human-facing output.
func displayMode(mode string) string {
	if mode == "" {
		return "Unknown"
	}
	return titleCaser.String(mode)
}

// displayCodec renders a codec identifier for human-facing output. Known
// codecs keep their conventional capitalization.
func displayCodec(codec string) string {
	switch strings.ToLower(codec) {
	case "h264":
		return "H.264"
	case "hevc", "h265":
		return "HEVC"
	case "vp9":
		return "VP9"
	case "av1":
		return "AV1"
	case "":
		return "Unknown"
	default:
		return titleCaser.String(codec)
	}
}

// displayResolution renders WxH with a preset-style suffix where one applies.
func displayResolution(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}
