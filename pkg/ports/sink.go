package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SavePreparedFrame saves a frame after conversion to the output size.
	SavePreparedFrame(index int, img image.Image) error

	// SaveEncodedFrame saves the JPEG bytes of an encoded frame.
	SaveEncodedFrame(index int, data []byte) error

	// SaveInspectJSON saves the container inspection result as JSON.
	SaveInspectJSON(data []byte) error
}
