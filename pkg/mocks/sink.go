package mocks

import (
	"image"
	"sync"

	"github.com/user/mjpegw/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	PreparedFrames map[int]image.Image
	EncodedFrames  map[int][]byte
	InspectJSON    []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:        enabled,
		PreparedFrames: make(map[int]image.Image),
		EncodedFrames:  make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SavePreparedFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PreparedFrames[index] = img
	return nil
}

func (m *DebugSink) SaveEncodedFrame(index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EncodedFrames[index] = append([]byte(nil), data...)
	return nil
}

func (m *DebugSink) SaveInspectJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InspectJSON = data
	return nil
}

// PreparedCount returns the number of saved prepared frames.
func (m *DebugSink) PreparedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.PreparedFrames)
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                      { return false }
func (m *NullSink) SavePreparedFrame(index int, img image.Image) error { return nil }
func (m *NullSink) SaveEncodedFrame(index int, data []byte) error      { return nil }
func (m *NullSink) SaveInspectJSON(data []byte) error                  { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
