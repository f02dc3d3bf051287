package avi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// FileInfo describes an AVI file as found by Inspect.
type FileInfo struct {
	FileSize int64  `json:"fileSize"`
	RIFFSize uint32 `json:"riffSize"`

	Width            int    `json:"width"`
	Height           int    `json:"height"`
	MicroSecPerFrame uint32 `json:"microSecPerFrame"`
	TotalFrames      uint32 `json:"totalFrames"`
	Streams          uint32 `json:"streams"`

	StreamType  string `json:"streamType"`
	Handler     string `json:"handler"`
	Scale       uint32 `json:"scale"`
	Rate        uint32 `json:"rate"`
	Length      uint32 `json:"length"`
	Compression string `json:"compression"`
	BitCount    uint16 `json:"bitCount"`

	// MoviStart is the offset of the "movi" list type; index offsets are
	// relative to it.
	MoviStart   int64  `json:"moviStart"`
	MoviSize    uint32 `json:"moviSize"`
	IndexOffset int64  `json:"indexOffset"`

	Index []IndexEntry `json:"index"`
}

// FPS returns the stream rate in frames per second.
func (fi *FileInfo) FPS() float64 {
	if fi.Scale == 0 {
		return 0
	}
	return float64(fi.Rate) / float64(fi.Scale)
}

// avihHeader mirrors the 56-byte main header.
type avihHeader struct {
	MicroSecPerFrame    uint32
	MaxBytesPerSec      uint32
	PaddingGranularity  uint32
	Flags               uint32
	TotalFrames         uint32
	InitialFrames       uint32
	Streams             uint32
	SuggestedBufferSize uint32
	Width               uint32
	Height              uint32
	Reserved            [4]uint32
}

// strhHeader mirrors the 56-byte stream header.
type strhHeader struct {
	Type                [4]byte
	Handler             [4]byte
	Flags               uint32
	Priority            uint16
	Language            uint16
	InitialFrames       uint32
	Scale               uint32
	Rate                uint32
	Start               uint32
	Length              uint32
	SuggestedBufferSize uint32
	Quality             uint32
	SampleSize          uint32
	Frame               [4]uint16
}

// strfHeader mirrors the 40-byte BITMAPINFOHEADER.
type strfHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   [4]byte
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type chunkHeader struct {
	ID   [4]byte
	Size uint32
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidFile}, args...)...)
}

// Inspect walks the RIFF structure of r and collects the stream headers and
// the frame index.
func Inspect(r io.ReadSeeker) (*FileInfo, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var riff struct {
		chunkHeader
		Form [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, invalid("reading RIFF header: %v", err)
	}
	if string(riff.ID[:]) != "RIFF" || string(riff.Form[:]) != "AVI " {
		return nil, invalid("not a RIFF AVI file")
	}

	info := &FileInfo{FileSize: size, RIFFSize: riff.Size, MoviStart: -1, IndexOffset: -1}
	end := min(int64(riff.Size)+8, size)

	if err := walk(r, 12, end, func(id string, pos int64, h chunkHeader) error {
		switch id {
		case "LIST:hdrl":
			return walk(r, pos+12, pos+8+int64(h.Size), info.hdrlChunk(r))
		case "LIST:movi":
			info.MoviStart = pos + 8
			info.MoviSize = h.Size
		case "idx1":
			info.IndexOffset = pos
			raw := make([]byte, h.Size)
			if _, err := io.ReadFull(r, raw); err != nil {
				return invalid("reading idx1: %v", err)
			}
			info.Index = parseIndex(raw)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if info.MoviStart < 0 {
		return nil, invalid("missing movi list")
	}
	return info, nil
}

func (fi *FileInfo) hdrlChunk(r io.ReadSeeker) func(string, int64, chunkHeader) error {
	return func(id string, pos int64, h chunkHeader) error {
		switch id {
		case "avih":
			var avih avihHeader
			if err := readStruct(r, h, &avih); err != nil {
				return err
			}
			fi.MicroSecPerFrame = avih.MicroSecPerFrame
			fi.TotalFrames = avih.TotalFrames
			fi.Streams = avih.Streams
			fi.Width = int(avih.Width)
			fi.Height = int(avih.Height)
		case "LIST:strl":
			// Only the first stream is described.
			if fi.StreamType != "" {
				return nil
			}
			return walk(r, pos+12, pos+8+int64(h.Size), fi.strlChunk(r))
		}
		return nil
	}
}

func (fi *FileInfo) strlChunk(r io.ReadSeeker) func(string, int64, chunkHeader) error {
	return func(id string, _ int64, h chunkHeader) error {
		switch id {
		case "strh":
			var strh strhHeader
			if err := readStruct(r, h, &strh); err != nil {
				return err
			}
			fi.StreamType = string(strh.Type[:])
			fi.Handler = string(strh.Handler[:])
			fi.Scale = strh.Scale
			fi.Rate = strh.Rate
			fi.Length = strh.Length
		case "strf":
			var strf strfHeader
			if err := readStruct(r, h, &strf); err != nil {
				return err
			}
			fi.Compression = string(strf.Compression[:])
			fi.BitCount = strf.BitCount
		}
		return nil
	}
}

func readStruct(r io.Reader, h chunkHeader, v interface{}) error {
	if int(h.Size) < binary.Size(v) {
		return invalid("%s chunk too short: %d bytes", h.ID[:], h.Size)
	}
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return invalid("reading %s: %v", h.ID[:], err)
	}
	return nil
}

// walk visits the chunks between start and end. LIST chunks are reported as
// "LIST:<type>". The reader is positioned after the chunk header when fn runs.
func walk(r io.ReadSeeker, start, end int64, fn func(id string, pos int64, h chunkHeader) error) error {
	for pos := start; pos+8 <= end; {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return err
		}
		var h chunkHeader
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return invalid("reading chunk at %d: %v", pos, err)
		}
		next := pos + 8 + int64(h.Size) + int64(h.Size&1)
		if next > end {
			return invalid("chunk %q at %d overruns its parent", h.ID[:], pos)
		}

		id := string(h.ID[:])
		if id == "LIST" {
			var listType [4]byte
			if _, err := io.ReadFull(r, listType[:]); err != nil {
				return invalid("reading list type at %d: %v", pos, err)
			}
			id += ":" + string(listType[:])
			if _, err := r.Seek(pos+8, io.SeekStart); err != nil {
				return err
			}
		}
		if err := fn(id, pos, h); err != nil {
			return err
		}
		pos = next
	}
	return nil
}

// Validate checks the container invariants of a file written by Writer: the
// RIFF and movi sizes, the agreement of both frame counts with the index, and
// that every index entry points at a frame chunk of matching size.
func (fi *FileInfo) Validate(r io.ReadSeeker) error {
	if int64(fi.RIFFSize) != fi.FileSize-8 {
		return invalid("RIFF size %d, file size %d", fi.RIFFSize, fi.FileSize)
	}
	if fi.IndexOffset < 0 {
		return invalid("missing idx1 index")
	}
	if int64(fi.MoviSize) != fi.IndexOffset-fi.MoviStart {
		return invalid("movi size %d, expected %d", fi.MoviSize, fi.IndexOffset-fi.MoviStart)
	}
	if fi.TotalFrames != fi.Length || int(fi.TotalFrames) != len(fi.Index) {
		return invalid("frame counts disagree: avih %d, strh %d, idx1 %d",
			fi.TotalFrames, fi.Length, len(fi.Index))
	}
	for i, e := range fi.Index {
		h, err := fi.frameChunk(r, i)
		if err != nil {
			return err
		}
		if string(h.ID[:]) != e.ChunkID {
			return invalid("index entry %d points at %q", i, h.ID[:])
		}
		if uint32(paddedSize(int(h.Size))) != e.Size {
			return invalid("index entry %d size %d, chunk size %d", i, e.Size, h.Size)
		}
		if e.Flags&flagKeyframe == 0 {
			return invalid("index entry %d is not a keyframe", i)
		}
	}
	return nil
}

func (fi *FileInfo) frameChunk(r io.ReadSeeker, i int) (chunkHeader, error) {
	var h chunkHeader
	if i < 0 || i >= len(fi.Index) {
		return h, fmt.Errorf("%w: %d of %d", ErrFrameIndex, i, len(fi.Index))
	}
	pos := fi.MoviStart + int64(fi.Index[i].Offset)
	if pos+8 > fi.FileSize {
		return h, invalid("index entry %d beyond end of file", i)
	}
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return h, err
	}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, invalid("reading frame %d: %v", i, err)
	}
	if pos+8+int64(h.Size) > fi.FileSize {
		return h, invalid("frame %d size %d runs past end of file", i, h.Size)
	}
	return h, nil
}

// ReadFrame returns the JPEG payload of frame i.
func ReadFrame(r io.ReadSeeker, info *FileInfo, i int) ([]byte, error) {
	h, err := info.frameChunk(r, i)
	if err != nil {
		return nil, err
	}
	if string(h.ID[:]) != frameChunkID {
		return nil, invalid("index entry %d points at %q", i, h.ID[:])
	}
	data := make([]byte, h.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, invalid("reading frame %d: %v", i, err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		return nil, invalid("frame %d is not a JPEG image", i)
	}
	return data, nil
}
