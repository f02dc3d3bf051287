// Package inspect implements the stage that re-reads a written AVI file and
// checks its container structure.
package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/mjpegw/pkg/avi"
	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
)

// Stage verifies output files.
type Stage struct {
	fs     ports.FileSystem
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new inspect stage.
func NewStage(fs ports.FileSystem, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		fs:     fs,
		sink:   sink,
		logger: logger.WithComponent("inspect"),
	}
}

// Execute parses and validates the file at input.Path.
func (s *Stage) Execute(ctx context.Context, input pipeline.InspectInput) (pipeline.InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.InspectResult{}, err
	}

	data, err := s.fs.ReadFile(input.Path)
	if err != nil {
		return pipeline.InspectResult{}, fmt.Errorf("read %s: %w", input.Path, err)
	}

	r := bytes.NewReader(data)
	info, err := avi.Inspect(r)
	if err != nil {
		return pipeline.InspectResult{}, err
	}

	if s.sink.Enabled() {
		if js, err := json.MarshalIndent(info, "", "  "); err == nil {
			if err := s.sink.SaveInspectJSON(js); err != nil {
				s.logger.Warn("Failed to save inspection: %s", err)
			}
		}
	}

	if err := info.Validate(r); err != nil {
		return pipeline.InspectResult{Info: info}, err
	}

	s.logger.Debug("Verified %s: %d frames, %d index entries", input.Path, info.TotalFrames, len(info.Index))
	return pipeline.InspectResult{Info: info}, nil
}
