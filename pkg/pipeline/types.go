package pipeline

import (
	"image"
	"image/color"

	"github.com/user/mjpegw/pkg/avi"
	"github.com/user/mjpegw/pkg/ports"
)

// =============================================================================
// Source Stage Types
// =============================================================================

// SourceInput selects which source frames to keep.
type SourceInput struct {
	MaxFrames int // 0 keeps every frame
}

// SourceResult contains the source frames ordered by timestamp.
type SourceResult struct {
	Frames     []ports.VideoFrame
	DurationMs int // timestamp of the last frame plus its duration
}

// =============================================================================
// Prepare Stage Types
// =============================================================================

// PrepareInput contains parameters for frame preparation.
type PrepareInput struct {
	Frames []ports.VideoFrame

	// Output size. When zero, the size of the first frame is used.
	Width  int
	Height int

	// KeepAspect letterboxes frames whose aspect ratio differs from the
	// output instead of stretching them.
	KeepAspect bool

	// Background fills letterbox bars and shows through transparent pixels.
	Background color.Color
}

// DefaultBackground is black.
var DefaultBackground color.Color = color.RGBA{A: 255}

// PrepareResult contains frames ready for the encoder.
type PrepareResult struct {
	Frames []PreparedFrame
	Width  int
	Height int
}

// PreparedFrame is an opaque, top-down RGBA image at the output size.
type PreparedFrame struct {
	TimestampMs int
	Image       *image.RGBA
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains parameters for video encoding.
type EncodeInput struct {
	Frames     []PreparedFrame
	OutputPath string
	FPS        int
	Quality    int // 1 (low), 2 (medium), 3 (high)
	OutroMs    int // Duration to hold the last frame
}

// EncodeResult describes the written video.
type EncodeResult struct {
	OutputPath   string
	FrameCount   int // frames in the file
	SourceFrames int // distinct prepared frames used
	DurationMs   int
	FileSize     int64
	MoviBytes    int64
	LargestFrame int
}

// =============================================================================
// Inspect Stage Types
// =============================================================================

// InspectInput names the file to verify.
type InspectInput struct {
	Path string
}

// InspectResult contains the parsed container headers and index.
type InspectResult struct {
	Info *avi.FileInfo
}
