// Package prepare implements the frame preparation stage: every source frame
// becomes an opaque, top-down RGBA image at the output size.
package prepare

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
)

// ErrNoFrames is returned when there is nothing to prepare.
var ErrNoFrames = errors.New("no frames to prepare")

// Stage converts source frames to encoder input.
type Stage struct {
	renderer   ports.Renderer
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new prepare stage. numWorkers <= 0 uses one worker per CPU.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		sink:       sink,
		logger:     logger.WithComponent("prepare"),
		numWorkers: numWorkers,
	}
}

// Execute prepares all frames, keeping their order.
func (s *Stage) Execute(ctx context.Context, input pipeline.PrepareInput) (pipeline.PrepareResult, error) {
	if len(input.Frames) == 0 {
		return pipeline.PrepareResult{}, ErrNoFrames
	}

	if input.Width == 0 || input.Height == 0 {
		if input.Frames[0].Image == nil {
			return pipeline.PrepareResult{}, errors.New("prepare frame 0: frame has no image")
		}
		b := input.Frames[0].Image.Bounds()
		input.Width, input.Height = b.Dx(), b.Dy()
	}
	if input.Width <= 0 || input.Height <= 0 {
		return pipeline.PrepareResult{}, jpegenc.ErrInvalidDimensions
	}
	if input.Width > jpegenc.MaxDimension || input.Height > jpegenc.MaxDimension {
		return pipeline.PrepareResult{}, fmt.Errorf("%w: %dx%d", jpegenc.ErrDimensionOverflow, input.Width, input.Height)
	}
	if input.Background == nil {
		input.Background = pipeline.DefaultBackground
	}

	workers := min(s.numWorkers, len(input.Frames))
	s.logger.Debug("Preparing %d frames at %dx%d with %d workers", len(input.Frames), input.Width, input.Height, workers)

	frames, err := s.executeParallel(ctx, input, workers)
	if err != nil {
		return pipeline.PrepareResult{}, err
	}

	s.logger.Debug("Preparation completed")
	return pipeline.PrepareResult{
		Frames: frames,
		Width:  input.Width,
		Height: input.Height,
	}, nil
}

type indexedFrame struct {
	index int
	frame pipeline.PreparedFrame
}

func (s *Stage) executeParallel(ctx context.Context, input pipeline.PrepareInput, workers int) ([]pipeline.PreparedFrame, error) {
	numFrames := len(input.Frames)
	jobs := make(chan int, numFrames)
	results := make(chan indexedFrame, numFrames)
	errChan := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, input, jobs, results, errChan)
	}

	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	collected := make([]indexedFrame, 0, numFrames)
	for result := range results {
		collected = append(collected, result)

		if s.sink.Enabled() {
			if err := s.sink.SavePreparedFrame(result.index, result.frame.Image); err != nil {
				s.logger.Warn("Failed to save debug frame %d: %s", result.index, err)
			}
		}
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	frames := make([]pipeline.PreparedFrame, len(collected))
	for i, f := range collected {
		frames[i] = f.frame
	}
	return frames, nil
}

func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input pipeline.PrepareInput,
	jobs <-chan int,
	results chan<- indexedFrame,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := s.prepareFrame(input, idx)
		if err != nil {
			select {
			case errChan <- fmt.Errorf("prepare frame %d: %w", idx, err):
			default:
			}
			return
		}

		results <- indexedFrame{index: idx, frame: frame}
	}
}

func (s *Stage) prepareFrame(input pipeline.PrepareInput, idx int) (pipeline.PreparedFrame, error) {
	src := input.Frames[idx]
	if src.Image == nil {
		return pipeline.PreparedFrame{}, errors.New("frame has no image")
	}
	b := src.Image.Bounds()
	if b.Empty() {
		return pipeline.PreparedFrame{}, fmt.Errorf("empty frame bounds %v", b)
	}

	dst := image.NewRGBA(image.Rect(0, 0, input.Width, input.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(input.Background), image.Point{}, draw.Src)

	area := dst.Bounds()
	if input.KeepAspect {
		area = fitRect(b.Dx(), b.Dy(), input.Width, input.Height)
	}

	img := src.Image
	if area.Dx() != b.Dx() || area.Dy() != b.Dy() {
		img = s.renderer.ResizeImage(img, area.Dx(), area.Dy())
	}
	draw.Draw(dst, area, img, img.Bounds().Min, draw.Over)

	// A translucent background composites over black.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	return pipeline.PreparedFrame{
		TimestampMs: src.TimestampMs,
		Image:       dst,
	}, nil
}

// fitRect returns the largest rectangle with the aspect ratio of w x h that
// fits centred in a dw x dh area.
func fitRect(w, h, dw, dh int) image.Rectangle {
	fw, fh := dw, h*dw/w
	if fh > dh {
		fw, fh = w*dh/h, dh
	}
	fw, fh = max(fw, 1), max(fh, 1)
	x := (dw - fw) / 2
	y := (dh - fh) / 2
	return image.Rect(x, y, x+fw, y+fh)
}
