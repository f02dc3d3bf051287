// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/ideamans/go-l10n"

	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Output
	OutputPath string

	// Frame preparation. Zero width or height keeps the source size.
	Width      int
	Height     int
	KeepAspect bool
	Background [4]uint8 // RGBA
	MaxFrames  int      // 0 keeps every frame

	// Encoding
	FPS     int
	Quality int // 1 (low), 2 (medium), 3 (high)
	OutroMs int

	// Verify re-reads the output and checks its container structure.
	Verify bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		KeepAspect: true,
		Background: [4]uint8{0, 0, 0, 255},
		FPS:        30,
		Quality:    int(jpegenc.QualityMedium),
		OutroMs:    1000,
		Verify:     true,
	}
}

// Validate checks the settings that do not depend on the source frames.
func (c Config) Validate() error {
	var errs []error
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if c.FPS < 1 {
		errs = append(errs, fmt.Errorf("fps must be at least 1, got %d", c.FPS))
	}
	if !jpegenc.Quality(c.Quality).Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", jpegenc.ErrInvalidQuality, c.Quality))
	}
	if c.Width < 0 || c.Height < 0 || c.Width > jpegenc.MaxDimension || c.Height > jpegenc.MaxDimension {
		errs = append(errs, fmt.Errorf("%w: %dx%d", jpegenc.ErrDimensionOverflow, c.Width, c.Height))
	}
	if c.OutroMs < 0 {
		errs = append(errs, fmt.Errorf("outro must not be negative, got %d", c.OutroMs))
	}
	return errors.Join(errs...)
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	sourceStage  pipeline.Stage[pipeline.SourceInput, pipeline.SourceResult]
	prepareStage pipeline.Stage[pipeline.PrepareInput, pipeline.PrepareResult]
	encodeStage  pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	inspectStage pipeline.Stage[pipeline.InspectInput, pipeline.InspectResult]
	logger       ports.Logger
}

// New creates a new Orchestrator. A stage is not started once the run
// context is done.
func New(
	sourceStage pipeline.Stage[pipeline.SourceInput, pipeline.SourceResult],
	prepareStage pipeline.Stage[pipeline.PrepareInput, pipeline.PrepareResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	inspectStage pipeline.Stage[pipeline.InspectInput, pipeline.InspectResult],
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		sourceStage:  pipeline.Cancellable(sourceStage),
		prepareStage: pipeline.Cancellable(prepareStage),
		encodeStage:  pipeline.Cancellable(encodeStage),
		inspectStage: pipeline.Cancellable(inspectStage),
		logger:       logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	if err := config.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid config: %w", err)
	}

	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Load source frames
	o.logger.Info(l10n.T("Loading frames"))
	source, err := o.sourceStage.Execute(ctx, pipeline.SourceInput{MaxFrames: config.MaxFrames})
	if err != nil {
		o.logger.Error(l10n.F("Failed to load frames: %s", err))
		return RunResult{}, fmt.Errorf("source stage: %w", err)
	}
	o.logger.Info(l10n.F("Loaded %d frames spanning %d ms", len(source.Frames), source.DurationMs))

	// 2. Prepare frames
	prepared, err := o.prepareStage.Execute(ctx, o.buildPrepareInput(config, source))
	if err != nil {
		o.logger.Error(l10n.F("Failed to prepare frames: %s", err))
		return RunResult{}, fmt.Errorf("prepare stage: %w", err)
	}
	o.logger.Info(l10n.F("Prepared %d frames at %dx%d", len(prepared.Frames), prepared.Width, prepared.Height))

	// 3. Encode video
	o.logger.Info(l10n.F("Encoding video at %d fps with %s quality", config.FPS, jpegenc.Quality(config.Quality)))
	encoded, err := o.encodeStage.Execute(ctx, o.buildEncodeInput(config, prepared))
	if err != nil {
		o.logger.Error(l10n.F("Failed to encode video: %s", err))
		return RunResult{}, fmt.Errorf("encode stage: %w", err)
	}
	o.logger.Info(l10n.F("Video encoded: %d frames, %d bytes", encoded.FrameCount, encoded.FileSize))

	result := RunResult{
		OutputPath:    config.OutputPath,
		SourceFrames:  len(source.Frames),
		SourceSpanMs:  source.DurationMs,
		FrameCount:    encoded.FrameCount,
		UniqueFrames:  encoded.SourceFrames,
		VideoDuration: encoded.DurationMs,
		VideoFileSize: encoded.FileSize,
		MoviBytes:     encoded.MoviBytes,
		LargestFrame:  encoded.LargestFrame,
		Width:         prepared.Width,
		Height:        prepared.Height,
		FPS:           config.FPS,
		Quality:       config.Quality,
	}

	// 4. Verify the container
	if config.Verify {
		o.logger.Info(l10n.F("Verifying %s", config.OutputPath))
		if _, err := o.inspectStage.Execute(ctx, pipeline.InspectInput{Path: config.OutputPath}); err != nil {
			o.logger.Error(l10n.F("Verification failed: %s", err))
			return result, fmt.Errorf("inspect stage: %w", err)
		}
		result.Verified = true
	}

	o.logger.Info(l10n.F("Output saved to %s", config.OutputPath))
	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

func (o *Orchestrator) buildPrepareInput(config Config, source pipeline.SourceResult) pipeline.PrepareInput {
	return pipeline.PrepareInput{
		Frames:     source.Frames,
		Width:      config.Width,
		Height:     config.Height,
		KeepAspect: config.KeepAspect,
		Background: rgbaFromArray(config.Background),
	}
}

func (o *Orchestrator) buildEncodeInput(config Config, prepared pipeline.PrepareResult) pipeline.EncodeInput {
	return pipeline.EncodeInput{
		Frames:     prepared.Frames,
		OutputPath: config.OutputPath,
		FPS:        config.FPS,
		Quality:    config.Quality,
		OutroMs:    config.OutroMs,
	}
}

func rgbaFromArray(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	OutputPath string

	// Source information
	SourceFrames int
	SourceSpanMs int

	// Video information
	FrameCount    int
	UniqueFrames  int // distinct source frames that made it into the video
	VideoDuration int // in ms (includes outro)
	VideoFileSize int64
	MoviBytes     int64
	LargestFrame  int
	Width         int
	Height        int
	FPS           int
	Quality       int

	Verified bool
}
