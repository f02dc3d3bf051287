// Package nullsink provides the debug sink used when debug output is off.
package nullsink

import (
	"image"

	"github.com/user/mjpegw/pkg/ports"
)

// Sink reports itself disabled, so stages skip building debug artifacts,
// and accepts anything it is given anyway.
type Sink struct{}

// New returns a Sink.
func New() *Sink {
	return &Sink{}
}

func (*Sink) Enabled() bool { return false }
func (*Sink) SavePreparedFrame(int, image.Image) error { return nil }
func (*Sink) SaveEncodedFrame(int, []byte) error { return nil }
func (*Sink) SaveInspectJSON([]byte) error { return nil }

var _ ports.DebugSink = (*Sink)(nil)
