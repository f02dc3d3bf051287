package prepare

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/mjpegw/pkg/adapters/ggrenderer"
	"github.com/user/mjpegw/pkg/adapters/logger"
	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/mocks"
	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
)

func TestStage_KeepsOrderAndTimestamps(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	stage := NewStage(ggrenderer.New(), sink, logger.NewNoop(), 4)

	frames := mocks.SolidFrames(12, 16, 16, 100)
	result, err := stage.Execute(context.Background(), pipeline.PrepareInput{Frames: frames})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Width != 16 || result.Height != 16 {
		t.Errorf("size = %dx%d, want 16x16", result.Width, result.Height)
	}
	if len(result.Frames) != 12 {
		t.Fatalf("expected 12 frames, got %d", len(result.Frames))
	}
	for i, f := range result.Frames {
		if f.TimestampMs != i*100 {
			t.Errorf("frame %d timestamp = %d", i, f.TimestampMs)
		}
		if got := f.Image.Pix[0]; got != uint8(i*16) {
			t.Errorf("frame %d gray = %d, want %d", i, got, i*16)
		}
	}
	if sink.PreparedCount() != 12 {
		t.Errorf("expected 12 debug frames, got %d", sink.PreparedCount())
	}
}

func TestStage_ResizesToTarget(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer, &mocks.NullSink{}, logger.NewNoop(), 2)

	frames := mocks.SolidFrames(3, 40, 30, 50)
	result, err := stage.Execute(context.Background(), pipeline.PrepareInput{
		Frames: frames,
		Width:  20,
		Height: 16,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for i, f := range result.Frames {
		if b := f.Image.Bounds(); b.Dx() != 20 || b.Dy() != 16 {
			t.Errorf("frame %d size = %dx%d", i, b.Dx(), b.Dy())
		}
	}
	if renderer.ResizeCalls != 3 {
		t.Errorf("expected 3 resizes, got %d", renderer.ResizeCalls)
	}
}

func TestStage_SameSizeSkipsResize(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer, &mocks.NullSink{}, logger.NewNoop(), 1)

	if _, err := stage.Execute(context.Background(), pipeline.PrepareInput{
		Frames: mocks.SolidFrames(2, 8, 8, 10),
		Width:  8,
		Height: 8,
	}); err != nil {
		t.Fatal(err)
	}
	if renderer.ResizeCalls != 0 {
		t.Errorf("expected no resizes, got %d", renderer.ResizeCalls)
	}
}

func TestStage_FlattensAlpha(t *testing.T) {
	stage := NewStage(ggrenderer.New(), &mocks.NullSink{}, logger.NewNoop(), 1)

	src := image.NewNRGBA(image.Rect(0, 0, 4, 4)) // fully transparent
	result, err := stage.Execute(context.Background(), pipeline.PrepareInput{
		Frames:     []ports.VideoFrame{{Image: src}},
		Background: color.RGBA{R: 10, G: 20, B: 30, A: 255},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := result.Frames[0].Image.RGBAAt(2, 2)
	if got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v, want background", got)
	}
}

func TestStage_KeepAspectLetterboxes(t *testing.T) {
	stage := NewStage(ggrenderer.New(), &mocks.NullSink{}, logger.NewNoop(), 1)

	white := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range white.Pix {
		white.Pix[i] = 0xff
	}
	result, err := stage.Execute(context.Background(), pipeline.PrepareInput{
		Frames:     []ports.VideoFrame{{Image: white}},
		Width:      20,
		Height:     20,
		KeepAspect: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	img := result.Frames[0].Image
	if c := img.RGBAAt(10, 1); c.R != 0 {
		t.Errorf("top bar pixel = %v, want black", c)
	}
	if c := img.RGBAAt(10, 10); c.R != 0xff {
		t.Errorf("centre pixel = %v, want white", c)
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		w, h, dw, dh int
		want         image.Rectangle
	}{
		{20, 10, 20, 20, image.Rect(0, 5, 20, 15)},
		{10, 20, 20, 20, image.Rect(5, 0, 15, 20)},
		{16, 9, 32, 18, image.Rect(0, 0, 32, 18)},
		{1000, 1, 10, 10, image.Rect(0, 4, 10, 5)},
	}
	for _, tt := range tests {
		if got := fitRect(tt.w, tt.h, tt.dw, tt.dh); got != tt.want {
			t.Errorf("fitRect(%d,%d,%d,%d) = %v, want %v", tt.w, tt.h, tt.dw, tt.dh, got, tt.want)
		}
	}
}

func TestStage_Errors(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, &mocks.NullSink{}, logger.NewNoop(), 2)
	ctx := context.Background()

	if _, err := stage.Execute(ctx, pipeline.PrepareInput{}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("empty input: got %v, want ErrNoFrames", err)
	}

	frames := mocks.SolidFrames(1, 8, 8, 10)
	_, err := stage.Execute(ctx, pipeline.PrepareInput{Frames: frames, Width: 70000, Height: 8})
	if !errors.Is(err, jpegenc.ErrDimensionOverflow) {
		t.Errorf("oversized: got %v, want ErrDimensionOverflow", err)
	}

	_, err = stage.Execute(ctx, pipeline.PrepareInput{Frames: []ports.VideoFrame{{}}})
	if err == nil {
		t.Error("expected error for frame without image")
	}
}

func TestStage_Cancelled(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, &mocks.NullSink{}, logger.NewNoop(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.PrepareInput{Frames: mocks.SolidFrames(5, 8, 8, 10)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
