package avi

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when a Writer is used after Close or after a
	// failed Open.
	ErrClosed = errors.New("avi: writer is closed")

	// ErrAllocation is returned when the allocator cannot provide a buffer.
	ErrAllocation = errors.New("avi: allocation failed")

	// ErrFileTooLarge is returned when a frame would push the file past the
	// 32-bit RIFF size limit.
	ErrFileTooLarge = errors.New("avi: file would exceed the RIFF size limit")

	// ErrCorrupt is returned by Close when an earlier frame write failed.
	ErrCorrupt = errors.New("avi: file is corrupt after a failed write")

	// ErrInvalidFPS is returned for a frame rate of zero or less.
	ErrInvalidFPS = errors.New("avi: fps must be positive")

	// ErrInvalidFile is returned by Inspect and Validate for malformed files.
	ErrInvalidFile = errors.New("avi: invalid file")

	// ErrFrameIndex is returned by ReadFrame for an out of range frame number.
	ErrFrameIndex = errors.New("avi: frame index out of range")
)

// Error records the writer operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("avi: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Writer operation names used in Error.Op.
const (
	OpOpen            = "open"
	OpWriteHeader     = "write header"
	OpAddFrame        = "add frame"
	OpPatchFrameCount = "patch frame count"
	OpWriteIndex      = "write index"
	OpPatchMoviSize   = "patch movi size"
	OpPatchRIFFSize   = "patch riff size"
	OpClose           = "close"
)

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
