package summarizer

import (
	"strings"
	"testing"
	"time"
)

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Source: SourceInfo{
			Kind:   "directory",
			Path:   "./frames",
			Frames: 30,
			SpanMs: 1000,
		},
		Settings: Settings{
			Quality:    "medium",
			FPS:        30,
			KeepAspect: true,
			OutroMs:    2000,
		},
		Video: VideoInfo{
			Path:         "out.avi",
			FrameCount:   91,
			UniqueFrames: 30,
			DurationMs:   3033,
			FileSize:     1024 * 1024, // 1 MB
			MoviBytes:    91 * 1024,
			LargestFrame: 2048,
			Width:        320,
			Height:       240,
			Verified:     true,
		},
	}

	result := formatter.Format(summary)

	checks := []string{
		"# Encoding Summary",
		"2024-01-15 10:30:00 UTC",
		"./frames",
		"| Source Frames | 30 |",
		"| Quality | medium |",
		"30 fps",
		"2000 ms",
		"320x240",
		"| Frame Count | 91 |",
		"1.00 MB",
		"2.00 KB",
		"1.00 KB",
		"| Verified | Yes |",
		"Generated by mjpegw",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_EmptyVideo(t *testing.T) {
	formatter := NewMarkdownFormatter()

	result := formatter.Format(&Summary{GeneratedAt: time.Now()})

	if strings.Contains(result, "Average Frame") {
		t.Error("average frame size should be omitted without frames")
	}
	if !strings.Contains(result, "| Verified | No |") {
		t.Error("expected unverified output")
	}
	if strings.Contains(result, "Source Path") {
		t.Error("empty source path should be omitted")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Encoding Summary": "エンコードサマリー",
			"Frame Count":      "フレーム数",
			"Yes":              "はい",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	formatter := NewMarkdownFormatter(WithTranslator(translator))

	summary := &Summary{
		GeneratedAt: time.Now(),
		Video:       VideoInfo{FrameCount: 3, Verified: true},
	}

	result := formatter.Format(summary)

	if !strings.Contains(result, "エンコードサマリー") {
		t.Error("expected translated 'Encoding Summary'")
	}
	if !strings.Contains(result, "フレーム数") {
		t.Error("expected translated 'Frame Count'")
	}
	if !strings.Contains(result, "はい") {
		t.Error("expected translated 'Yes'")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	formatter := NewMarkdownFormatter(WithVersion("v1.2.0"))

	result := formatter.Format(&Summary{GeneratedAt: time.Now()})

	if !strings.Contains(result, "mjpegw v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
