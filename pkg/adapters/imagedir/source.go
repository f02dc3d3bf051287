// Package imagedir provides a frame source reading numbered image files from a
// directory.
package imagedir

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/mjpegw/pkg/ports"
)

// ErrNoImages is returned when the directory holds no supported images.
var ErrNoImages = errors.New("no supported images found")

var formats = map[string]ports.ImageFormat{
	".jpg":  ports.FormatJPEG,
	".jpeg": ports.FormatJPEG,
	".png":  ports.FormatPNG,
	".gif":  ports.FormatGIF,
	".bmp":  ports.FormatBMP,
	".tif":  ports.FormatTIFF,
	".tiff": ports.FormatTIFF,
	".webp": ports.FormatWebP,
}

// FormatForPath returns the image format for a file name by extension.
func FormatForPath(path string) (ports.ImageFormat, bool) {
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Source reads every supported image in a directory in lexical file name
// order and spaces them 1000/fps ms apart.
type Source struct {
	dir      string
	fps      int
	fs       ports.FileSystem
	renderer ports.Renderer
	logger   ports.Logger
}

// New creates a new Source.
func New(dir string, fps int, fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger) *Source {
	return &Source{
		dir:      dir,
		fps:      fps,
		fs:       fs,
		renderer: renderer,
		logger:   logger.WithComponent("imagedir"),
	}
}

// Frames decodes the images.
func (s *Source) Frames(ctx context.Context) ([]ports.VideoFrame, error) {
	if s.fps < 1 {
		return nil, fmt.Errorf("invalid fps %d", s.fps)
	}
	names, err := s.fs.ListFiles(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	interval := 1000 / s.fps
	var frames []ports.VideoFrame
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		format, ok := FormatForPath(name)
		if !ok {
			s.logger.Debug("Skipping %s", name)
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		img, err := s.renderer.DecodeImage(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		frames = append(frames, ports.VideoFrame{
			Image:       img,
			TimestampMs: len(frames) * 1000 / s.fps,
			Duration:    interval,
		})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, s.dir)
	}
	s.logger.Debug("Decoded %d images from %s", len(frames), s.dir)
	return frames, nil
}

var _ ports.FrameSource = (*Source)(nil)
