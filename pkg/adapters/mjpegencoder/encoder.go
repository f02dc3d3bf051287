// Package mjpegencoder provides a ports.VideoEncoder that writes Motion-JPEG
// AVI files.
package mjpegencoder

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/user/mjpegw/pkg/avi"
	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/ports"
)

var (
	// ErrNotInitialized is returned when EncodeFrame or End runs before Begin.
	ErrNotInitialized = errors.New("encoder not initialized")
	// ErrAlreadyStarted is returned when Begin runs twice without End.
	ErrAlreadyStarted = errors.New("encoder already started")
)

// Encoder implements ports.VideoEncoder on top of avi.Writer.
type Encoder struct {
	mu sync.Mutex

	sink      ports.DebugSink
	logger    ports.Logger
	allocator avi.Allocator

	writer  *avi.Writer
	path    string
	quality jpegenc.Quality
	largest int
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithAllocator sets the allocator used for the frame and index buffers.
func WithAllocator(a avi.Allocator) Option {
	return func(e *Encoder) {
		e.allocator = a
	}
}

// New creates a new Encoder. Encoded frames are forwarded to sink when it is
// enabled.
func New(sink ports.DebugSink, logger ports.Logger, opts ...Option) *Encoder {
	e := &Encoder{
		sink:   sink,
		logger: logger.WithComponent("mjpeg"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Begin creates the output file and writes the AVI header.
func (e *Encoder) Begin(path string, width, height, fps int, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.writer != nil {
		return ErrAlreadyStarted
	}
	q := jpegenc.Quality(opts.Quality)
	if !q.Valid() {
		return fmt.Errorf("%w: %d", jpegenc.ErrInvalidQuality, opts.Quality)
	}

	w, err := avi.Open(path, width, height, fps, avi.Options{
		Allocator: e.allocator,
		Logger:    e.logger,
	})
	if err != nil {
		return err
	}

	e.writer = w
	e.path = path
	e.quality = q
	e.largest = 0
	e.logger.Debug("Writing %s: %dx%d at %d fps, quality %s", path, width, height, fps, q)
	return nil
}

// EncodeFrame compresses img and appends it to the file.
func (e *Encoder) EncodeFrame(img *image.RGBA) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.writer == nil {
		return ErrNotInitialized
	}
	if err := e.writer.AddImage(img, e.quality); err != nil {
		return err
	}

	index := e.writer.FrameCount() - 1
	jpg := e.writer.LastFrame()
	e.largest = max(e.largest, len(jpg))
	if e.sink.Enabled() {
		if err := e.sink.SaveEncodedFrame(index, jpg); err != nil {
			e.logger.Warn("Failed to save debug frame %d: %s", index, err)
		}
	}
	return nil
}

// End finalizes the AVI file. The encoder can be reused with Begin afterwards,
// also when End fails.
func (e *Encoder) End() (ports.EncodeStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.writer == nil {
		return ports.EncodeStats{}, ErrNotInitialized
	}
	w := e.writer
	e.writer = nil

	stats := ports.EncodeStats{
		Frames:     w.FrameCount(),
		MoviBytes:  w.MoviBytes(),
		LargestJPG: e.largest,
	}
	if err := w.Close(); err != nil {
		return stats, err
	}

	info, err := os.Stat(e.path)
	if err != nil {
		return stats, fmt.Errorf("stat output: %w", err)
	}
	stats.FileSize = info.Size()

	e.logger.Debug("Finished %s: %d frames, %d bytes", e.path, stats.Frames, stats.FileSize)
	return stats, nil
}

var _ ports.VideoEncoder = (*Encoder)(nil)
