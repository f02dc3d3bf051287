package ports

import (
	"context"
	"image"
)

// VideoFrame is a source image with timing information.
type VideoFrame struct {
	Image       image.Image
	TimestampMs int
	Duration    int // Duration in milliseconds
}

// FrameSource produces the frames to encode.
type FrameSource interface {
	// Frames returns every frame of the source ordered by timestamp.
	Frames(ctx context.Context) ([]VideoFrame, error)
}
