// Package encode implements the video encoding stage.
package encode

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
)

var (
	// ErrNoFrames is returned when there is nothing to encode.
	ErrNoFrames = errors.New("no frames to encode")
	// ErrInvalidFPS is returned for a frame rate below 1.
	ErrInvalidFPS = errors.New("fps must be at least 1")
)

// Stage places prepared frames on the fixed frame-rate grid of the output
// and feeds them to the video encoder.
type Stage struct {
	encoder ports.VideoEncoder
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.VideoEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute writes the video. Frame slot k is shown at k*1000/FPS ms after the
// first frame and holds the latest frame whose timestamp is not later. The
// last frame is held for OutroMs.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{OutputPath: input.OutputPath}

	if len(input.Frames) == 0 {
		return result, ErrNoFrames
	}
	if input.FPS < 1 {
		return result, fmt.Errorf("%w: %d", ErrInvalidFPS, input.FPS)
	}
	if input.OutputPath == "" {
		return result, errors.New("output path is required")
	}

	slots := Schedule(input.Frames, input.FPS, input.OutroMs)

	bounds := input.Frames[0].Image.Bounds()
	opts := ports.EncoderOptions{Quality: input.Quality}
	if err := s.encoder.Begin(input.OutputPath, bounds.Dx(), bounds.Dy(), input.FPS, opts); err != nil {
		return result, fmt.Errorf("begin encoding: %w", err)
	}

	s.logger.Debug("Encoding %d frame slots from %d frames at %d fps", len(slots), len(input.Frames), input.FPS)

	used := make(map[int]bool)
	for k, idx := range slots {
		if err := ctx.Err(); err != nil {
			s.abort()
			return result, err
		}
		if err := s.encoder.EncodeFrame(input.Frames[idx].Image); err != nil {
			s.abort()
			return result, fmt.Errorf("encode frame slot %d: %w", k, err)
		}
		used[idx] = true
	}

	stats, err := s.encoder.End()
	if err != nil {
		return result, fmt.Errorf("end encoding: %w", err)
	}

	result.FrameCount = stats.Frames
	result.SourceFrames = len(used)
	result.DurationMs = len(slots) * 1000 / input.FPS
	result.FileSize = stats.FileSize
	result.MoviBytes = stats.MoviBytes
	result.LargestFrame = stats.LargestJPG

	s.logger.Debug("Encoded %d frames, %d bytes", result.FrameCount, result.FileSize)
	return result, nil
}

// abort closes the output after a failure so no file handle is leaked.
func (s *Stage) abort() {
	if _, err := s.encoder.End(); err != nil {
		s.logger.Warn("Failed to finalize output: %s", err)
	}
}

// Schedule maps each output frame slot to the index of the frame it shows.
// Frames must be sorted by timestamp. Slots cover the span from the first
// frame to the last frame plus outroMs, rounded up so the last frame is
// always shown.
func Schedule(frames []pipeline.PreparedFrame, fps, outroMs int) []int {
	if len(frames) == 0 || fps < 1 {
		return nil
	}
	base := frames[0].TimestampMs
	span := frames[len(frames)-1].TimestampMs - base + max(outroMs, 0)
	n := (span*fps+999)/1000 + 1

	slots := make([]int, n)
	cur := 0
	for k := range slots {
		t := base + k*1000/fps
		for cur+1 < len(frames) && frames[cur+1].TimestampMs <= t {
			cur++
		}
		slots[k] = cur
	}
	return slots
}
