// Package summarizer provides summary generation for encoding results.
package summarizer

import (
	"time"

	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/orchestrator"
)

// Summary contains all data collected during an encoding run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Where the frames came from
	Source SourceInfo

	// Encoding settings
	Settings Settings

	// Video output details
	Video VideoInfo
}

// SourceInfo describes the input frames.
type SourceInfo struct {
	Kind   string // "directory" or "demo"
	Path   string
	Frames int
	SpanMs int
}

// Settings contains the encoding configuration.
type Settings struct {
	Quality    string
	FPS        int
	KeepAspect bool
	OutroMs    int
	Workers    int
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path         string
	FrameCount   int
	UniqueFrames int
	DurationMs   int
	FileSize     int64
	MoviBytes    int64
	LargestFrame int
	Width        int
	Height       int
	Verified     bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source information.
func (b *Builder) WithSource(kind, path string, frames, spanMs int) *Builder {
	b.summary.Source = SourceInfo{
		Kind:   kind,
		Path:   path,
		Frames: frames,
		SpanMs: spanMs,
	}
	return b
}

// WithSettings sets encoding settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// WithRunResult fills source counts, settings and video details from a
// pipeline run. Source kind and path are left as they are.
func (b *Builder) WithRunResult(r orchestrator.RunResult, outroMs int) *Builder {
	b.summary.Source.Frames = r.SourceFrames
	b.summary.Source.SpanMs = r.SourceSpanMs

	b.summary.Settings.Quality = jpegenc.Quality(r.Quality).String()
	b.summary.Settings.FPS = r.FPS
	b.summary.Settings.OutroMs = outroMs

	b.summary.Video = VideoInfo{
		Path:         r.OutputPath,
		FrameCount:   r.FrameCount,
		UniqueFrames: r.UniqueFrames,
		DurationMs:   r.VideoDuration,
		FileSize:     r.VideoFileSize,
		MoviBytes:    r.MoviBytes,
		LargestFrame: r.LargestFrame,
		Width:        r.Width,
		Height:       r.Height,
		Verified:     r.Verified,
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
