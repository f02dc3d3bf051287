package mocks

import (
	"image"
	"sync"

	"github.com/user/mjpegw/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	mu sync.Mutex

	BeginFunc       func(path string, width, height, fps int, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img *image.RGBA) error
	EndFunc         func() (ports.EncodeStats, error)

	// Recorded calls for verification
	BeginCalled      bool
	BeginPath        string
	BeginWidth       int
	BeginHeight      int
	BeginFPS         int
	BeginOpts        ports.EncoderOptions
	EncodeFrameCalls []EncodeFrameCall
	EndCalled        bool
}

// EncodeFrameCall records a call to EncodeFrame.
type EncodeFrameCall struct {
	Image *image.RGBA
}

func (m *VideoEncoder) Begin(path string, width, height, fps int, opts ports.EncoderOptions) error {
	m.mu.Lock()
	m.BeginCalled = true
	m.BeginPath, m.BeginWidth, m.BeginHeight, m.BeginFPS, m.BeginOpts = path, width, height, fps, opts
	m.mu.Unlock()
	if m.BeginFunc != nil {
		return m.BeginFunc(path, width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img *image.RGBA) error {
	m.mu.Lock()
	m.EncodeFrameCalls = append(m.EncodeFrameCalls, EncodeFrameCall{Image: img})
	m.mu.Unlock()
	if m.EncodeFrameFunc != nil {
		return m.EncodeFrameFunc(img)
	}
	return nil
}

func (m *VideoEncoder) End() (ports.EncodeStats, error) {
	m.mu.Lock()
	m.EndCalled = true
	n := len(m.EncodeFrameCalls)
	m.mu.Unlock()
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return ports.EncodeStats{Frames: n}, nil
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
