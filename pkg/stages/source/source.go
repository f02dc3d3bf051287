// Package source implements the stage that loads frames from a frame source.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
)

// ErrEmptySource is returned when the source yields no frames.
var ErrEmptySource = errors.New("frame source is empty")

// Stage reads and orders source frames.
type Stage struct {
	source ports.FrameSource
	logger ports.Logger
}

// NewStage creates a new source stage.
func NewStage(source ports.FrameSource, logger ports.Logger) *Stage {
	return &Stage{
		source: source,
		logger: logger.WithComponent("source"),
	}
}

// Execute loads the frames, sorts them by timestamp and fills in missing
// durations from the gap to the next frame.
func (s *Stage) Execute(ctx context.Context, input pipeline.SourceInput) (pipeline.SourceResult, error) {
	frames, err := s.source.Frames(ctx)
	if err != nil {
		return pipeline.SourceResult{}, err
	}
	if len(frames) == 0 {
		return pipeline.SourceResult{}, ErrEmptySource
	}
	for i, f := range frames {
		if f.Image == nil {
			return pipeline.SourceResult{}, fmt.Errorf("frame %d has no image", i)
		}
	}

	frames = append([]ports.VideoFrame(nil), frames...)
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].TimestampMs < frames[j].TimestampMs
	})

	if input.MaxFrames > 0 && len(frames) > input.MaxFrames {
		s.logger.Debug("Keeping %d of %d frames", input.MaxFrames, len(frames))
		frames = frames[:input.MaxFrames]
	}

	for i := range frames {
		if frames[i].Duration == 0 && i+1 < len(frames) {
			frames[i].Duration = frames[i+1].TimestampMs - frames[i].TimestampMs
		}
	}

	last := frames[len(frames)-1]
	result := pipeline.SourceResult{
		Frames:     frames,
		DurationMs: last.TimestampMs - frames[0].TimestampMs + last.Duration,
	}
	s.logger.Debug("Loaded %d frames spanning %d ms", len(frames), result.DurationMs)
	return result, nil
}
