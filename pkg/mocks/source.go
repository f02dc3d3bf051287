package mocks

import (
	"context"
	"image"
	"image/color"

	"github.com/user/mjpegw/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	FramesFunc func(ctx context.Context) ([]ports.VideoFrame, error)
	List       []ports.VideoFrame
}

func (m *FrameSource) Frames(ctx context.Context) ([]ports.VideoFrame, error) {
	if m.FramesFunc != nil {
		return m.FramesFunc(ctx)
	}
	return m.List, nil
}

var _ ports.FrameSource = (*FrameSource)(nil)

// SolidFrames returns n frames of the given size spaced intervalMs apart.
// Frame i is filled with gray level i*16 so frames can be told apart.
func SolidFrames(n, width, height, intervalMs int) []ports.VideoFrame {
	frames := make([]ports.VideoFrame, n)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		v := uint8(i * 16)
		c := color.RGBA{R: v, G: v, B: v, A: 255}
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = c.R, c.G, c.B, c.A
		}
		frames[i] = ports.VideoFrame{
			Image:       img,
			TimestampMs: i * intervalMs,
			Duration:    intervalMs,
		}
	}
	return frames
}
