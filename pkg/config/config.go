// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/orchestrator"
	"github.com/user/mjpegw/pkg/ports"
)

// Config represents the full configuration for mjpegw.
type Config struct {
	// Output
	OutputPath string `yaml:"output"`

	// Frame preparation
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	KeepAspect bool   `yaml:"keep_aspect"`
	Background string `yaml:"background"`
	MaxFrames  int    `yaml:"max_frames"`
	Workers    int    `yaml:"workers"`

	// Encoding
	FPS     int    `yaml:"fps"`
	Quality string `yaml:"quality"`
	OutroMs int    `yaml:"outro_ms"`
	Verify  bool   `yaml:"verify"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		KeepAspect: true,
		Background: "#000000",

		FPS:     30,
		Quality: string(QualityMedium),
		OutroMs: 1000,
		Verify:  true,

		LogLevel: "info",

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := jpegenc.ParseQuality(c.Quality); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.FPS < 1 {
		errs = append(errs, fmt.Errorf("fps must be at least 1, got %d", c.FPS))
	}
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("size must not be negative, got %dx%d", c.Width, c.Height))
	}
	if c.OutroMs < 0 {
		errs = append(errs, fmt.Errorf("outro_ms must not be negative, got %d", c.OutroMs))
	}
	if c.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max_frames must not be negative, got %d", c.MaxFrames))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

// ParseColor parses a hex color string (#rgb, #rrggbb or #rrggbbaa).
// An empty string is opaque black.
func ParseColor(hex string) ([4]uint8, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 0:
		return [4]uint8{0, 0, 0, 255}, nil
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}) + "ff"
	case 6:
		s += "ff"
	case 8:
	default:
		return [4]uint8{}, fmt.Errorf("invalid color %q", hex)
	}

	var c [4]uint8
	for i := range c {
		hi, ok1 := hexValue(s[i*2])
		lo, ok2 := hexValue(s[i*2+1])
		if !ok1 || !ok2 {
			return [4]uint8{}, fmt.Errorf("invalid color %q", hex)
		}
		c[i] = hi<<4 | lo
	}
	return c, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
// Call Validate first: unparsable values fall back to their defaults.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	quality, err := jpegenc.ParseQuality(c.Quality)
	if err != nil {
		quality = jpegenc.QualityMedium
	}
	background, err := ParseColor(c.Background)
	if err != nil {
		background = [4]uint8{0, 0, 0, 255}
	}

	return orchestrator.Config{
		OutputPath: c.OutputPath,

		Width:      c.Width,
		Height:     c.Height,
		KeepAspect: c.KeepAspect,
		Background: background,
		MaxFrames:  c.MaxFrames,

		FPS:     c.FPS,
		Quality: int(quality),
		OutroMs: c.OutroMs,

		Verify: c.Verify,
	}
}
