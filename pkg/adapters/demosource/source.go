// Package demosource renders a synthetic test animation: colour bars, a ball
// bouncing across the frame and a frame counter.
package demosource

import (
	"context"
	"fmt"
	"image/color"

	"github.com/user/mjpegw/pkg/ports"
)

// Options configures the animation.
type Options struct {
	Frames int
	Width  int
	Height int
	FPS    int
}

// DefaultOptions returns three seconds of 320x240 at 30 fps.
func DefaultOptions() Options {
	return Options{Frames: 90, Width: 320, Height: 240, FPS: 30}
}

var bars = []color.RGBA{
	{R: 192, G: 192, B: 192, A: 255},
	{R: 192, G: 192, B: 0, A: 255},
	{R: 0, G: 192, B: 192, A: 255},
	{R: 0, G: 192, B: 0, A: 255},
	{R: 192, G: 0, B: 192, A: 255},
	{R: 192, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 192, A: 255},
}

// Source implements ports.FrameSource.
type Source struct {
	renderer ports.Renderer
	opts     Options
}

// New creates a new Source.
func New(renderer ports.Renderer, opts Options) *Source {
	return &Source{renderer: renderer, opts: opts}
}

// Frames renders every frame of the animation.
func (s *Source) Frames(ctx context.Context) ([]ports.VideoFrame, error) {
	o := s.opts
	if o.Frames < 1 || o.Width < 1 || o.Height < 1 || o.FPS < 1 {
		return nil, fmt.Errorf("invalid demo options %+v", o)
	}

	frames := make([]ports.VideoFrame, o.Frames)
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frames[i] = ports.VideoFrame{
			Image:       s.render(i).ToImage(),
			TimestampMs: i * 1000 / o.FPS,
			Duration:    1000 / o.FPS,
		}
	}
	return frames, nil
}

func (s *Source) render(i int) ports.Canvas {
	o := s.opts
	c := s.renderer.CreateCanvas(o.Width, o.Height, color.Black)

	barHeight := o.Height * 2 / 3
	for b, col := range bars {
		x0 := b * o.Width / len(bars)
		x1 := (b + 1) * o.Width / len(bars)
		c.DrawRect(x0, 0, x1-x0, barHeight, col)
	}

	// Ping-pong across the lower third.
	radius := max(o.Height/12, 2)
	travel := max(o.Width-2*radius, 1)
	step := max(travel/max(o.FPS, 1), 1)
	pos := (i * step) % (2 * travel)
	if pos > travel {
		pos = 2*travel - pos
	}
	cy := barHeight + (o.Height-barHeight)/2
	c.DrawLine(0, cy, o.Width, cy, color.Gray{Y: 64}, 1)
	c.DrawCircle(radius+pos, cy, radius, color.White)

	c.DrawText(fmt.Sprintf("%04d", i), o.Width/2, barHeight/2, ports.TextStyle{
		FontSize: 13,
		Color:    color.Black,
		Align:    ports.AlignCenter,
	})
	return c
}

var _ ports.FrameSource = (*Source)(nil)
