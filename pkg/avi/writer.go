// Package avi writes Motion-JPEG video into AVI (RIFF) files with an idx1
// frame index, and reads such files back for inspection.
package avi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/user/mjpegw/pkg/adapters/logger"
	"github.com/user/mjpegw/pkg/jpegenc"
	"github.com/user/mjpegw/pkg/ports"
)

const initialIndexEntries = 256

// Options configures a Writer.
type Options struct {
	// Allocator provides the frame scratch buffer and the index buffer.
	// Defaults to HeapAllocator.
	Allocator Allocator
	// Logger receives debug output. Defaults to a no-op logger.
	Logger ports.Logger
}

// IndexEntry is one idx1 record.
type IndexEntry struct {
	ChunkID string `json:"chunkId"`
	Flags   uint32 `json:"flags"`
	// Offset is relative to the "movi" list type.
	Offset uint32 `json:"offset"`
	// Size is the even-padded payload size.
	Size uint32 `json:"size"`
}

// Writer appends JPEG frames to an AVI file. Calls must not overlap; use one
// Writer per goroutine.
type Writer struct {
	ws     io.WriteSeeker
	closer io.Closer
	alloc  Allocator
	log    ports.Logger

	width, height, fps int

	marks  [numPatchFields]int64
	pos    int64 // end of written data
	frames int

	// scratch holds the most recent compressed frame; index holds raw idx1
	// records.
	scratch *allocBuffer
	index   *allocBuffer

	// err is set when a write left the file in an unknown state.
	err    error
	closed bool
}

// Open creates path and writes the AVI header. On failure no file handle is
// left open and the returned Writer is nil.
func Open(path string, width, height, fps int, opts Options) (*Writer, error) {
	if err := validateStream(width, height, fps); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, wrap(OpOpen, err)
	}
	w, err := NewWriter(f, width, height, fps, opts)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return w, nil
}

// NewWriter writes the AVI header to ws at its current position. If ws is an
// io.Closer it is closed by Close. On failure ws is left open.
func NewWriter(ws io.WriteSeeker, width, height, fps int, opts Options) (*Writer, error) {
	if err := validateStream(width, height, fps); err != nil {
		return nil, err
	}
	if opts.Allocator == nil {
		opts.Allocator = HeapAllocator{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}

	w := &Writer{
		ws:     ws,
		alloc:  opts.Allocator,
		log:    opts.Logger.WithComponent("avi"),
		width:  width,
		height: height,
		fps:    fps,
	}
	if c, ok := ws.(io.Closer); ok {
		w.closer = c
	}

	var err error
	if w.scratch, err = newAllocBuffer(w.alloc, width*height); err != nil {
		return nil, wrap(OpOpen, err)
	}
	if w.index, err = newAllocBuffer(w.alloc, initialIndexEntries*indexEntrySize); err != nil {
		w.scratch.free()
		return nil, wrap(OpOpen, err)
	}

	base, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		w.release()
		return nil, wrap(OpWriteHeader, err)
	}
	hdr := encodeHeader(base, streamHeader{width: width, height: height, fps: fps})
	if err := writeFull(ws, hdr.buf); err != nil {
		w.release()
		return nil, wrap(OpWriteHeader, err)
	}
	w.marks = hdr.marks
	w.pos = hdr.offset()

	w.log.Debug("Opened AVI stream %dx%d at %d fps", width, height, fps)
	return w, nil
}

func validateStream(width, height, fps int) error {
	if width <= 0 || height <= 0 {
		return jpegenc.ErrInvalidDimensions
	}
	if width > jpegenc.MaxDimension || height > jpegenc.MaxDimension {
		return jpegenc.ErrDimensionOverflow
	}
	if fps <= 0 {
		return ErrInvalidFPS
	}
	return nil
}

// AddFrame compresses an RGBA buffer (top row first, exactly
// width*height*4 bytes) and appends it as one frame.
func (w *Writer) AddFrame(pixels []byte, q jpegenc.Quality) error {
	if w == nil || w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	w.scratch.reset()
	if err := jpegenc.Encode(w.scratch, pixels, w.width, w.height, 4, q); err != nil {
		return wrap(OpAddFrame, err)
	}
	return w.appendFrame()
}

// AddImage compresses img, which must match the writer's dimensions.
func (w *Writer) AddImage(img *image.RGBA, q jpegenc.Quality) error {
	if w == nil || w.closed {
		return ErrClosed
	}
	if w.err != nil {
		return w.err
	}
	if b := img.Bounds(); b.Dx() != w.width || b.Dy() != w.height {
		return wrap(OpAddFrame, jpegenc.ErrPixelBufferSize)
	}
	w.scratch.reset()
	if err := jpegenc.EncodeImage(w.scratch, img, q); err != nil {
		return wrap(OpAddFrame, err)
	}
	return w.appendFrame()
}

// appendFrame writes the scratch contents as a 00dc chunk and indexes it.
func (w *Writer) appendFrame() error {
	data := w.scratch.bytes()
	size := len(data)
	padded := paddedSize(size)

	// The file must still be addressable with the index appended.
	end := w.pos + 8 + int64(padded) + 8 + int64(w.index.len()+indexEntrySize)
	if end-8 > math.MaxUint32 {
		return wrap(OpAddFrame, ErrFileTooLarge)
	}

	// Reserve the index slot first so an allocation failure leaves the file
	// untouched.
	if err := w.index.reserve(indexEntrySize); err != nil {
		return wrap(OpAddFrame, err)
	}

	offset := w.pos - w.marks[fieldMoviStart]
	if err := w.writeChunk(data, padded != size); err != nil {
		w.err = wrap(OpAddFrame, err)
		return w.err
	}

	w.index.buf = appendIndexEntry(w.index.buf, uint32(offset), uint32(padded))
	w.pos += 8 + int64(padded)
	w.frames++

	w.log.Debug("Frame %d written: %d bytes at movi offset %d", w.frames, size, offset)
	return nil
}

// writeChunk writes a 00dc chunk at w.pos.
func (w *Writer) writeChunk(data []byte, pad bool) error {
	if _, err := w.ws.Seek(w.pos, io.SeekStart); err != nil {
		return err
	}
	hdr := frameHeader(len(data))
	if err := writeFull(w.ws, hdr[:]); err != nil {
		return err
	}
	if err := writeFull(w.ws, data); err != nil {
		return err
	}
	if pad {
		return writeFull(w.ws, []byte{0})
	}
	return nil
}

// Close patches the frame counts, appends the idx1 index, patches the movi and
// RIFF sizes and releases all buffers. The Writer is unusable afterwards even
// if Close fails, in which case the file must be treated as corrupt. After a
// failed frame write Close only releases resources and reports ErrCorrupt.
func (w *Writer) Close() (err error) {
	if w == nil || w.closed {
		return ErrClosed
	}
	w.closed = true
	defer func() {
		w.release()
		if w.closer != nil {
			if cerr := w.closer.Close(); err == nil && cerr != nil {
				err = wrap(OpClose, cerr)
			}
			w.closer = nil
		}
	}()

	if w.err != nil {
		return wrap(OpClose, fmt.Errorf("%w: %w", ErrCorrupt, w.err))
	}
	if err := w.patch(fieldTotalFrames, uint32(w.frames)); err != nil {
		return wrap(OpPatchFrameCount, err)
	}
	if err := w.patch(fieldStreamLength, uint32(w.frames)); err != nil {
		return wrap(OpPatchFrameCount, err)
	}

	idx1Offset := w.pos
	if _, err := w.ws.Seek(idx1Offset, io.SeekStart); err != nil {
		return wrap(OpWriteIndex, err)
	}
	var hdr [8]byte
	copy(hdr[:4], "idx1")
	binary.LittleEndian.PutUint32(hdr[4:], uint32(w.index.len()))
	if err := writeFull(w.ws, hdr[:]); err != nil {
		return wrap(OpWriteIndex, err)
	}
	if err := writeFull(w.ws, w.index.bytes()); err != nil {
		return wrap(OpWriteIndex, err)
	}
	end := idx1Offset + 8 + int64(w.index.len())

	if err := w.patch(fieldMoviSize, uint32(idx1Offset-w.marks[fieldMoviStart])); err != nil {
		return wrap(OpPatchMoviSize, err)
	}
	if err := w.patch(fieldRIFFSize, uint32(end-w.marks[fieldRIFFSize]-4)); err != nil {
		return wrap(OpPatchRIFFSize, err)
	}
	if _, err := w.ws.Seek(end, io.SeekStart); err != nil {
		return wrap(OpPatchRIFFSize, err)
	}

	w.log.Debug("Closed AVI stream: %d frames, %d bytes", w.frames, end)
	return nil
}

// patch overwrites a marked 32-bit field.
func (w *Writer) patch(f patchField, v uint32) error {
	if _, err := w.ws.Seek(w.marks[f], io.SeekStart); err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return writeFull(w.ws, b[:])
}

// release returns both buffers to the allocator.
func (w *Writer) release() {
	if w.scratch != nil {
		w.scratch.free()
		w.scratch = nil
	}
	if w.index != nil {
		w.index.free()
		w.index = nil
	}
}

// FrameCount returns the number of frames added so far.
func (w *Writer) FrameCount() int {
	return w.frames
}

// Width returns the frame width.
func (w *Writer) Width() int { return w.width }

// Height returns the frame height.
func (w *Writer) Height() int { return w.height }

// FPS returns the frame rate.
func (w *Writer) FPS() int { return w.fps }

// LastFrame returns a copy of the most recently compressed JPEG image, or nil
// before the first frame and after Close.
func (w *Writer) LastFrame() []byte {
	if w.closed || w.frames == 0 {
		return nil
	}
	return append([]byte(nil), w.scratch.bytes()...)
}

// Index returns the index entries recorded so far.
func (w *Writer) Index() []IndexEntry {
	if w.closed {
		return nil
	}
	return parseIndex(w.index.bytes())
}

// MoviBytes returns the bytes of frame chunks written into the movi list.
func (w *Writer) MoviBytes() int64 {
	return w.pos - w.marks[fieldMoviStart] - 4
}

func parseIndex(raw []byte) []IndexEntry {
	entries := make([]IndexEntry, 0, len(raw)/indexEntrySize)
	for i := 0; i+indexEntrySize <= len(raw); i += indexEntrySize {
		r := raw[i : i+indexEntrySize]
		entries = append(entries, IndexEntry{
			ChunkID: string(r[0:4]),
			Flags:   binary.LittleEndian.Uint32(r[4:]),
			Offset:  binary.LittleEndian.Uint32(r[8:]),
			Size:    binary.LittleEndian.Uint32(r[12:]),
		})
	}
	return entries
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	return err
}

// allocBuffer is a byte buffer whose storage comes from an Allocator and
// grows by doubling.
type allocBuffer struct {
	alloc Allocator
	buf   []byte
}

func newAllocBuffer(a Allocator, capacity int) (*allocBuffer, error) {
	buf, err := a.Alloc(capacity)
	if err != nil {
		return nil, allocationError(err)
	}
	return &allocBuffer{alloc: a, buf: buf}, nil
}

// Write appends p, growing the storage when needed.
func (b *allocBuffer) Write(p []byte) (int, error) {
	if err := b.reserve(len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// reserve makes room for n more bytes.
func (b *allocBuffer) reserve(n int) error {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return nil
	}
	size := max(cap(b.buf), 1)
	for size < need {
		size *= 2
	}
	grown, err := b.alloc.Grow(b.buf, size)
	if err != nil {
		return allocationError(err)
	}
	b.buf = grown
	return nil
}

func (b *allocBuffer) reset()        { b.buf = b.buf[:0] }
func (b *allocBuffer) bytes() []byte { return b.buf }
func (b *allocBuffer) len() int      { return len(b.buf) }
func (b *allocBuffer) capacity() int { return cap(b.buf) }

func (b *allocBuffer) free() {
	b.alloc.Free(b.buf)
	b.buf = nil
}

func allocationError(err error) error {
	if errors.Is(err, ErrAllocation) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrAllocation, err)
}
