package jpegenc

import "errors"

var (
	// ErrInvalidQuality is returned when the quality level is not 1, 2 or 3.
	ErrInvalidQuality = errors.New("jpegenc: quality must be 1, 2 or 3")

	// ErrInvalidDimensions is returned for a zero or negative width or height.
	ErrInvalidDimensions = errors.New("jpegenc: width and height must be positive")

	// ErrDimensionOverflow is returned when width or height does not fit the
	// 16-bit SOF0 fields.
	ErrDimensionOverflow = errors.New("jpegenc: width and height must not exceed 65535")

	// ErrUnsupportedChannels is returned for pixel layouts other than RGB and RGBA.
	ErrUnsupportedChannels = errors.New("jpegenc: only 3 (RGB) or 4 (RGBA) channels are supported")

	// ErrPixelBufferSize is returned when the pixel buffer length does not match
	// width*height*channels.
	ErrPixelBufferSize = errors.New("jpegenc: pixel buffer size mismatch")
)
