// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/mjpegw/pkg/ports"
)

// Sink saves debug output under a base directory:
//
//	frames/prepared/frame-0000.png  frames after resizing
//	frames/encoded/frame-0000.jpg   JPEG payloads as stored in the AVI
//	inspect.json                    container inspection of the output
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SavePreparedFrame saves a prepared frame as PNG.
func (s *Sink) SavePreparedFrame(index int, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode prepared frame: %w", err)
	}
	return s.saveFrame("prepared", index, "png", data)
}

// SaveEncodedFrame saves the JPEG payload of an encoded frame.
func (s *Sink) SaveEncodedFrame(index int, data []byte) error {
	return s.saveFrame("encoded", index, "jpg", data)
}

// SaveInspectJSON saves the container inspection result.
func (s *Sink) SaveInspectJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "inspect.json"), data)
}

func (s *Sink) saveFrame(kind string, index int, ext string, data []byte) error {
	dir := filepath.Join(s.baseDir, "frames", kind)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.%s", index, ext))
	return s.fs.WriteFile(path, data)
}

var _ ports.DebugSink = (*Sink)(nil)
