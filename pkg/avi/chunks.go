package avi

import (
	"encoding/binary"
	"math"
)

// patchField names a header field whose final value is only known at Close.
type patchField int

const (
	fieldRIFFSize patchField = iota
	fieldTotalFrames
	fieldStreamLength
	fieldMoviSize
	fieldMoviStart // the "movi" list type; index offsets are relative to it
	numPatchFields
)

// Fixed header values.
const (
	avihSize = 56
	strhSize = 56
	strfSize = 40

	flagHasIndex = 0x10 // AVIF_HASINDEX
	flagKeyframe = 0x10 // AVIIF_KEYFRAME

	frameChunkID   = "00dc"
	indexEntrySize = 16
)

// chunkWriter serializes little-endian RIFF structures into memory and
// records the absolute offsets of fields patched later.
type chunkWriter struct {
	buf   []byte
	base  int64
	marks [numPatchFields]int64
}

func newChunkWriter(base int64) *chunkWriter {
	return &chunkWriter{base: base}
}

func (c *chunkWriter) offset() int64 {
	return c.base + int64(len(c.buf))
}

func (c *chunkWriter) mark(f patchField) {
	c.marks[f] = c.offset()
}

func (c *chunkWriter) fourcc(s string) {
	c.buf = append(c.buf, s[:4]...)
}

func (c *chunkWriter) u16(v uint16) {
	c.buf = binary.LittleEndian.AppendUint16(c.buf, v)
}

func (c *chunkWriter) u32(v uint32) {
	c.buf = binary.LittleEndian.AppendUint32(c.buf, v)
}

// chunk writes a chunk header with a known payload size.
func (c *chunkWriter) chunk(id string, size uint32) {
	c.fourcc(id)
	c.u32(size)
}

// beginList opens a LIST and returns the buffer position of its size field.
func (c *chunkWriter) beginList(listType string) int {
	c.fourcc("LIST")
	at := len(c.buf)
	c.u32(0)
	c.fourcc(listType)
	return at
}

// endList stores the size of the LIST whose size field is at position at.
func (c *chunkWriter) endList(at int) {
	binary.LittleEndian.PutUint32(c.buf[at:], uint32(len(c.buf)-at-4))
}

// streamHeader describes the single video stream of the file.
type streamHeader struct {
	width, height, fps int
}

// encodeHeader builds everything from the RIFF header up to the first byte of
// movi data.
func encodeHeader(base int64, h streamHeader) *chunkWriter {
	c := newChunkWriter(base)
	w, ht := uint32(h.width), uint32(h.height)
	suggested := uint32(min(uint64(w)*uint64(ht)*3, math.MaxUint32))

	c.fourcc("RIFF")
	c.mark(fieldRIFFSize)
	c.u32(0)
	c.fourcc("AVI ")

	hdrl := c.beginList("hdrl")

	c.chunk("avih", avihSize)
	c.u32(uint32(1000000 / h.fps)) // microseconds per frame
	c.u32(0)                       // max bytes per second
	c.u32(0)                       // padding granularity
	c.u32(flagHasIndex)
	c.mark(fieldTotalFrames)
	c.u32(0)
	c.u32(0) // initial frames
	c.u32(1) // streams
	c.u32(suggested)
	c.u32(w)
	c.u32(ht)
	for i := 0; i < 4; i++ {
		c.u32(0)
	}

	strl := c.beginList("strl")

	c.chunk("strh", strhSize)
	c.fourcc("vids")
	c.fourcc("MJPG")
	c.u32(flagHasIndex)
	c.u16(0) // priority
	c.u16(0) // language
	c.u32(0) // initial frames
	c.u32(1) // scale
	c.u32(uint32(h.fps))
	c.u32(0) // start
	c.mark(fieldStreamLength)
	c.u32(0)
	c.u32(suggested)
	c.u32(0xffffffff) // quality: driver default
	c.u32(0)          // sample size
	c.u16(0)
	c.u16(0)
	c.u16(uint16(h.width))
	c.u16(uint16(h.height))

	c.chunk("strf", strfSize)
	c.u32(strfSize)
	c.u32(w)
	c.u32(ht)
	c.u16(1)  // planes
	c.u16(24) // bit count
	c.fourcc("MJPG")
	c.u32(suggested)
	c.u32(0)
	c.u32(0)
	c.u32(0)
	c.u32(0)

	c.endList(strl)
	c.endList(hdrl)

	// The movi size is only known at Close.
	c.fourcc("LIST")
	c.mark(fieldMoviSize)
	c.u32(0)
	c.mark(fieldMoviStart)
	c.fourcc("movi")

	return c
}

// frameHeader returns the chunk header for a frame payload of n bytes. The
// size field holds the unpadded length.
func frameHeader(n int) [8]byte {
	var h [8]byte
	copy(h[:4], frameChunkID)
	binary.LittleEndian.PutUint32(h[4:], uint32(n))
	return h
}

// paddedSize rounds n up to the RIFF word boundary.
func paddedSize(n int) int {
	return n + n&1
}

// appendIndexEntry appends one idx1 record.
func appendIndexEntry(buf []byte, offset, size uint32) []byte {
	buf = append(buf, frameChunkID...)
	buf = binary.LittleEndian.AppendUint32(buf, flagKeyframe)
	buf = binary.LittleEndian.AppendUint32(buf, offset)
	buf = binary.LittleEndian.AppendUint32(buf, size)
	return buf
}
