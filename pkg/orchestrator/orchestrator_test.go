package orchestrator

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/mjpegw/pkg/adapters/demosource"
	"github.com/user/mjpegw/pkg/adapters/ggrenderer"
	"github.com/user/mjpegw/pkg/adapters/logger"
	"github.com/user/mjpegw/pkg/adapters/mjpegencoder"
	"github.com/user/mjpegw/pkg/adapters/osfilesystem"
	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/mocks"
	"github.com/user/mjpegw/pkg/pipeline"
	"github.com/user/mjpegw/pkg/stages/encode"
	"github.com/user/mjpegw/pkg/stages/inspect"
	"github.com/user/mjpegw/pkg/stages/prepare"
	"github.com/user/mjpegw/pkg/stages/source"
)

// mockSourceStage is a mock for the source stage.
type mockSourceStage struct {
	result pipeline.SourceResult
	err    error
	input  pipeline.SourceInput
}

func (m *mockSourceStage) Execute(ctx context.Context, input pipeline.SourceInput) (pipeline.SourceResult, error) {
	m.input = input
	return m.result, m.err
}

// mockPrepareStage is a mock for the prepare stage.
type mockPrepareStage struct {
	result pipeline.PrepareResult
	err    error
	input  pipeline.PrepareInput
}

func (m *mockPrepareStage) Execute(ctx context.Context, input pipeline.PrepareInput) (pipeline.PrepareResult, error) {
	m.input = input
	return m.result, m.err
}

// mockEncodeStage is a mock for the encode stage.
type mockEncodeStage struct {
	result pipeline.EncodeResult
	err    error
	input  pipeline.EncodeInput
}

func (m *mockEncodeStage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	m.input = input
	return m.result, m.err
}

// mockInspectStage is a mock for the inspect stage.
type mockInspectStage struct {
	err    error
	called bool
}

func (m *mockInspectStage) Execute(ctx context.Context, input pipeline.InspectInput) (pipeline.InspectResult, error) {
	m.called = true
	return pipeline.InspectResult{}, m.err
}

func newMockStages() (*mockSourceStage, *mockPrepareStage, *mockEncodeStage, *mockInspectStage) {
	src := &mockSourceStage{
		result: pipeline.SourceResult{
			Frames:     mocks.SolidFrames(2, 32, 32, 100),
			DurationMs: 200,
		},
	}
	prep := &mockPrepareStage{
		result: pipeline.PrepareResult{
			Frames: []pipeline.PreparedFrame{
				{TimestampMs: 0, Image: image.NewRGBA(image.Rect(0, 0, 32, 32))},
				{TimestampMs: 100, Image: image.NewRGBA(image.Rect(0, 0, 32, 32))},
			},
			Width:  32,
			Height: 32,
		},
	}
	enc := &mockEncodeStage{
		result: pipeline.EncodeResult{
			FrameCount:   33,
			SourceFrames: 2,
			DurationMs:   1100,
			FileSize:     4096,
		},
	}
	return src, prep, enc, &mockInspectStage{}
}

func TestOrchestrator_Run(t *testing.T) {
	src, prep, enc, insp := newMockStages()
	orch := New(src, prep, enc, insp, logger.NewNoop())

	config := DefaultConfig()
	config.OutputPath = "out.avi"
	config.Width = 32
	config.Height = 32
	config.MaxFrames = 10
	config.Background = [4]uint8{1, 2, 3, 255}

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.input.MaxFrames != 10 {
		t.Errorf("source MaxFrames = %d", src.input.MaxFrames)
	}
	if len(prep.input.Frames) != 2 || prep.input.Width != 32 || !prep.input.KeepAspect {
		t.Errorf("unexpected prepare input %+v", prep.input)
	}
	if r, g, b, _ := prep.input.Background.RGBA(); r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Error("background colour not passed to prepare stage")
	}
	if enc.input.OutputPath != "out.avi" || enc.input.FPS != 30 || enc.input.Quality != 2 || enc.input.OutroMs != 1000 {
		t.Errorf("unexpected encode input %+v", enc.input)
	}
	if !insp.called || !result.Verified {
		t.Error("expected output to be verified")
	}
	if result.FrameCount != 33 || result.SourceFrames != 2 || result.VideoFileSize != 4096 || result.Width != 32 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	src, prep, enc, insp := newMockStages()
	orch := New(src, prep, enc, insp, logger.NewNoop())

	config := DefaultConfig()
	config.OutputPath = "out.avi"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Run(ctx, config)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if src.input.MaxFrames != 0 || prep.input.Frames != nil || insp.called {
		t.Error("no stage should run after cancellation")
	}
}

func TestOrchestrator_Run_NoVerify(t *testing.T) {
	src, prep, enc, insp := newMockStages()
	orch := New(src, prep, enc, insp, logger.NewNoop())

	config := DefaultConfig()
	config.OutputPath = "out.avi"
	config.Verify = false

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatal(err)
	}
	if insp.called || result.Verified {
		t.Error("inspect stage should not run")
	}
}

func TestOrchestrator_Run_StageErrors(t *testing.T) {
	stageErr := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*mockSourceStage, *mockPrepareStage, *mockEncodeStage, *mockInspectStage)
	}{
		{"source", func(s *mockSourceStage, _ *mockPrepareStage, _ *mockEncodeStage, _ *mockInspectStage) { s.err = stageErr }},
		{"prepare", func(_ *mockSourceStage, p *mockPrepareStage, _ *mockEncodeStage, _ *mockInspectStage) { p.err = stageErr }},
		{"encode", func(_ *mockSourceStage, _ *mockPrepareStage, e *mockEncodeStage, _ *mockInspectStage) { e.err = stageErr }},
		{"inspect", func(_ *mockSourceStage, _ *mockPrepareStage, _ *mockEncodeStage, i *mockInspectStage) { i.err = stageErr }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, prep, enc, insp := newMockStages()
			tt.setup(src, prep, enc, insp)

			config := DefaultConfig()
			config.OutputPath = "out.avi"
			_, err := New(src, prep, enc, insp, logger.NewNoop()).Run(context.Background(), config)
			if !errors.Is(err, stageErr) {
				t.Errorf("got %v, want %v", err, stageErr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.OutputPath = "out.avi"
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no output", func(c *Config) { c.OutputPath = "" }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"bad quality", func(c *Config) { c.Quality = 0 }},
		{"too wide", func(c *Config) { c.Width = 65536 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"negative outro", func(c *Config) { c.OutroMs = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	bad := valid
	bad.Quality = 9
	if err := bad.Validate(); !errors.Is(err, jpegenc.ErrInvalidQuality) {
		t.Errorf("got %v, want ErrInvalidQuality", err)
	}
}

func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	log := logger.NewNoop()
	renderer := ggrenderer.New()
	fs := osfilesystem.New()
	sink := mocks.NewDebugSink(true)

	demo := demosource.New(renderer, demosource.Options{Frames: 8, Width: 48, Height: 32, FPS: 8})
	orch := New(
		source.NewStage(demo, log),
		prepare.NewStage(renderer, sink, log, 2),
		encode.NewStage(mjpegencoder.New(sink, log), log),
		inspect.NewStage(fs, sink, log),
		log,
	)

	config := DefaultConfig()
	config.OutputPath = filepath.Join(t.TempDir(), "demo.avi")
	config.FPS = 8
	config.OutroMs = 500

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 875 ms of frames plus 500 ms outro at 8 fps: ceil(11)+1 slots.
	if result.FrameCount != 12 {
		t.Errorf("FrameCount = %d, want 12", result.FrameCount)
	}
	if result.UniqueFrames != 8 || result.Width != 48 || result.Height != 32 || !result.Verified {
		t.Errorf("unexpected result %+v", result)
	}
	info, err := os.Stat(config.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != result.VideoFileSize {
		t.Errorf("file size %d, result %d", info.Size(), result.VideoFileSize)
	}
	if len(sink.EncodedFrames) != 12 || sink.PreparedCount() != 8 || len(sink.InspectJSON) == 0 {
		t.Errorf("debug output: %d encoded, %d prepared, %d bytes json",
			len(sink.EncodedFrames), sink.PreparedCount(), len(sink.InspectJSON))
	}
}
