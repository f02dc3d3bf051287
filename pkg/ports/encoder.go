package ports

import (
	"image"
)

// VideoEncoder abstracts video encoding operations.
type VideoEncoder interface {
	// Begin creates the output file and writes the container header.
	Begin(path string, width, height, fps int, opts EncoderOptions) error

	// EncodeFrame compresses one frame and appends it to the stream.
	// Frames must match the dimensions given to Begin.
	EncodeFrame(img *image.RGBA) error

	// End finalizes the container and closes the output file.
	End() (EncodeStats, error)
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Quality int // JPEG quality level: 1 (low), 2 (medium), 3 (high)
}

// EncodeStats reports what the encoder wrote.
type EncodeStats struct {
	Frames     int
	MoviBytes  int64
	FileSize   int64
	LargestJPG int
}
