package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/mjpegw/pkg/mocks"
	"github.com/user/mjpegw/pkg/orchestrator"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSource(t *testing.T) {
	summary := NewBuilder().
		WithSource("directory", "./frames", 42, 1400).
		Build()

	if summary.Source.Kind != "directory" || summary.Source.Path != "./frames" {
		t.Errorf("unexpected source: %+v", summary.Source)
	}
	if summary.Source.Frames != 42 || summary.Source.SpanMs != 1400 {
		t.Errorf("unexpected counts: %+v", summary.Source)
	}
}

func TestBuilder_WithSettingsAndVideo(t *testing.T) {
	summary := NewBuilder().
		WithSettings(Settings{Quality: "high", FPS: 25, OutroMs: 500}).
		WithVideo(VideoInfo{FrameCount: 100, FileSize: 102400}).
		Build()

	if summary.Settings.Quality != "high" || summary.Settings.FPS != 25 {
		t.Errorf("unexpected settings: %+v", summary.Settings)
	}
	if summary.Video.FrameCount != 100 || summary.Video.FileSize != 102400 {
		t.Errorf("unexpected video: %+v", summary.Video)
	}
}

func TestBuilder_WithRunResult(t *testing.T) {
	result := orchestrator.RunResult{
		OutputPath:    "out.avi",
		SourceFrames:  10,
		SourceSpanMs:  900,
		FrameCount:    57,
		UniqueFrames:  10,
		VideoDuration: 1900,
		VideoFileSize: 40000,
		MoviBytes:     38000,
		LargestFrame:  900,
		Width:         320,
		Height:        240,
		FPS:           30,
		Quality:       3,
		Verified:      true,
	}

	summary := NewBuilder().
		WithSource("demo", "", 0, 0).
		WithRunResult(result, 1000).
		Build()

	if summary.Source.Kind != "demo" {
		t.Errorf("expected source kind to be kept, got %q", summary.Source.Kind)
	}
	if summary.Source.Frames != 10 || summary.Source.SpanMs != 900 {
		t.Errorf("unexpected source counts: %+v", summary.Source)
	}
	if summary.Settings.Quality != "high" || summary.Settings.FPS != 30 || summary.Settings.OutroMs != 1000 {
		t.Errorf("unexpected settings: %+v", summary.Settings)
	}
	if summary.Video.Path != "out.avi" || summary.Video.FrameCount != 57 || !summary.Video.Verified {
		t.Errorf("unexpected video: %+v", summary.Video)
	}
	if summary.Video.Width != 320 || summary.Video.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", summary.Video.Width, summary.Video.Height)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	formatter := FormatFunc(func(s *Summary) string {
		return "frames=" + s.Video.Path
	})
	w := NewWriter(formatter, fs)

	summary := NewBuilder().WithVideo(VideoInfo{Path: "x.avi"}).Build()
	if err := w.Write("out/summary.md", summary); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile("out/summary.md")
	if !ok {
		t.Fatal("summary file was not written")
	}
	if string(data) != "frames=x.avi" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}
	w := NewWriter(NewMarkdownFormatter(), fs)

	err := w.Write("summary.md", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
