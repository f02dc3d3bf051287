package config

import (
	"github.com/user/mjpegw/pkg/jpegenc"
)

// QualityPreset represents a JPEG quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// Level returns the encoder quality level for the preset.
// Unknown presets map to medium.
func (p QualityPreset) Level() jpegenc.Quality {
	q, err := jpegenc.ParseQuality(string(p))
	if err != nil {
		return jpegenc.QualityMedium
	}
	return q
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder starting from Defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: Defaults(),
	}
}

// NewConfigBuilderFrom creates a ConfigBuilder starting from cfg, typically
// one loaded with LoadFromFile.
func NewConfigBuilderFrom(cfg Config) *ConfigBuilder {
	return &ConfigBuilder{config: cfg}
}

// NewPreviewConfigBuilder creates a ConfigBuilder for small, quick previews:
// 320x240 at 15 fps with low quality.
func NewPreviewConfigBuilder() *ConfigBuilder {
	cfg := Defaults()
	cfg.Width = 320
	cfg.Height = 240
	cfg.FPS = 15
	cfg.Quality = string(QualityLow)
	cfg.OutroMs = 500
	return &ConfigBuilder{config: cfg}
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	// Enforce minimum frame rate of 1
	if cfg.FPS < 1 {
		cfg.FPS = 1
	}

	// Negative sizes mean "keep the source size"
	if cfg.Width < 0 {
		cfg.Width = 0
	}
	if cfg.Height < 0 {
		cfg.Height = 0
	}
	if cfg.Width > jpegenc.MaxDimension {
		cfg.Width = jpegenc.MaxDimension
	}
	if cfg.Height > jpegenc.MaxDimension {
		cfg.Height = jpegenc.MaxDimension
	}

	if cfg.OutroMs < 0 {
		cfg.OutroMs = 0
	}
	if cfg.MaxFrames < 0 {
		cfg.MaxFrames = 0
	}
	if cfg.Workers < 0 {
		cfg.Workers = 0
	}

	if _, err := jpegenc.ParseQuality(cfg.Quality); err != nil {
		cfg.Quality = string(QualityMedium)
	}
	if _, err := ParseColor(cfg.Background); err != nil {
		cfg.Background = "#000000"
	}

	return cfg
}

// Config returns the settings as given, without applying constraints.
func (b *ConfigBuilder) Config() Config {
	return b.config
}

// WithOutput sets the output file path.
func (b *ConfigBuilder) WithOutput(path string) *ConfigBuilder {
	b.config.OutputPath = path
	return b
}

// WithWidth sets the output video width. 0 keeps the source width.
func (b *ConfigBuilder) WithWidth(width int) *ConfigBuilder {
	b.config.Width = width
	return b
}

// WithHeight sets the output video height. 0 keeps the source height.
func (b *ConfigBuilder) WithHeight(height int) *ConfigBuilder {
	b.config.Height = height
	return b
}

// WithKeepAspect letterboxes frames instead of stretching them.
func (b *ConfigBuilder) WithKeepAspect(keep bool) *ConfigBuilder {
	b.config.KeepAspect = keep
	return b
}

// WithBackground sets the letterbox color as a hex string.
func (b *ConfigBuilder) WithBackground(hex string) *ConfigBuilder {
	b.config.Background = hex
	return b
}

// WithFPS sets the output frame rate.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithFPS(fps int) *ConfigBuilder {
	b.config.FPS = fps
	return b
}

// WithQuality sets the encoder quality level (1-3).
func (b *ConfigBuilder) WithQuality(q jpegenc.Quality) *ConfigBuilder {
	b.config.Quality = q.String()
	return b
}

// WithQualityPreset applies a quality preset (low, medium, high).
func (b *ConfigBuilder) WithQualityPreset(preset QualityPreset) *ConfigBuilder {
	b.config.Quality = string(preset)
	return b
}

// WithOutroMs sets the duration to hold the final frame in milliseconds.
func (b *ConfigBuilder) WithOutroMs(ms int) *ConfigBuilder {
	b.config.OutroMs = ms
	return b
}

// WithMaxFrames limits the number of source frames. 0 keeps all of them.
func (b *ConfigBuilder) WithMaxFrames(n int) *ConfigBuilder {
	b.config.MaxFrames = n
	return b
}

// WithWorkers sets the number of frame preparation workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.config.Workers = n
	return b
}

// WithVerify enables re-reading the output after encoding.
func (b *ConfigBuilder) WithVerify(verify bool) *ConfigBuilder {
	b.config.Verify = verify
	return b
}

// WithDebug enables debug output into dir.
func (b *ConfigBuilder) WithDebug(enabled bool, dir string) *ConfigBuilder {
	b.config.Debug = enabled
	if dir != "" {
		b.config.DebugDir = dir
	}
	return b
}

// WithLogLevel sets the log level name.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.config.LogLevel = level
	return b
}
