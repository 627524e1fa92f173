package main

import "testing"

func TestDisplayMode(t *testing.T) {
	if got := displayMode("buffered"); got != "Buffered" {
		t.Fatalf("displayMode = %q", got)
	}
	if got := displayMode(""); got != "Unknown" {
		t.Fatalf("displayMode empty = %q", got)
	}
}

func TestDisplayCodec(t *testing.T) {
	cases := map[string]string{
		"h264": "H.264",
		"hevc": "HEVC",
		"vp9":  "VP9",
		"av1":  "AV1",
	}
	for in, want := range cases {
		if got := displayCodec(in); got != want {
			t.Errorf("displayCodec(%q) = %q, want %q", in, got, want)
		}
	}
}
