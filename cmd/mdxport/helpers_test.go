package main

import "testing"

func TestParseCropFlag(t *testing.T) {
	crop, err := parseCropFlag("10, 20, 640, 360")
	if err != nil {
		t.Fatalf("parseCropFlag: %v", err)
	}
	if crop.X != 10 || crop.Y != 20 || crop.Width != 640 || crop.Height != 360 {
		t.Fatalf("unexpected crop: %#v", crop)
	}
}

func TestParseCropFlagRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "10,20,640", "10,20,640,x", "10 20 640 360"} {
		if _, err := parseCropFlag(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{1500, "1.5 kB"},
		{50 * 1000 * 1000, "50.0 MB"},
		{2 * 1000 * 1000 * 1000, "2.00 GB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
