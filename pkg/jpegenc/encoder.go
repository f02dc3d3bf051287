// Package jpegenc implements a baseline JPEG encoder producing three component,
// full resolution (4:4:4) images with the standard Annex K Huffman tables.
package jpegenc

import (
	"encoding/binary"
	"image"
	"io"
)

// Comment is the text carried by the COM segment of every image.
const Comment = "Created by mjpegw"

// Marker codes.
const (
	markerSOI  = 0xffd8
	markerEOI  = 0xffd9
	markerAPP0 = 0xffe0
	markerCOM  = 0xfffe
	markerDQT  = 0xffdb
	markerSOF0 = 0xffc0
	markerDHT  = 0xffc4
	markerSOS  = 0xffda
)

// pixelSource returns the RGB value at a clamped coordinate.
type pixelSource interface {
	rgb(x, y int) (r, g, b float32)
}

type packedPixels struct {
	pix      []byte
	stride   int
	channels int
}

func (p packedPixels) rgb(x, y int) (float32, float32, float32) {
	i := y*p.stride + x*p.channels
	return float32(p.pix[i]), float32(p.pix[i+1]), float32(p.pix[i+2])
}

// Encode writes pix as a baseline JPEG to w. pix holds height rows of width
// pixels, top row first, with 3 (RGB) or 4 (RGBA) bytes per pixel; alpha is
// ignored. Arguments are validated before anything is written.
func Encode(w io.Writer, pix []byte, width, height, channels int, q Quality) error {
	if err := validate(width, height, q); err != nil {
		return err
	}
	if channels != 3 && channels != 4 {
		return ErrUnsupportedChannels
	}
	if len(pix) != width*height*channels {
		return ErrPixelBufferSize
	}
	src := packedPixels{pix: pix, stride: width * channels, channels: channels}
	return encode(w, src, width, height, q)
}

// EncodeImage writes img as a baseline JPEG to w.
func EncodeImage(w io.Writer, img *image.RGBA, q Quality) error {
	b := img.Bounds()
	if err := validate(b.Dx(), b.Dy(), q); err != nil {
		return err
	}
	src := packedPixels{
		pix:      img.Pix[img.PixOffset(b.Min.X, b.Min.Y):],
		stride:   img.Stride,
		channels: 4,
	}
	return encode(w, src, b.Dx(), b.Dy(), q)
}

func validate(width, height int, q Quality) error {
	if !q.Valid() {
		return ErrInvalidQuality
	}
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if width > MaxDimension || height > MaxDimension {
		return ErrDimensionOverflow
	}
	return nil
}

func encode(w io.Writer, src pixelSource, width, height int, q Quality) error {
	st := newState(q)
	bw := newBitWriter(w)

	writeHeaders(bw, st, width, height)

	luma := componentTables{div: &st.divLuma, dc: &st.huffman[tableLumaDC], ac: &st.huffman[tableLumaAC]}
	chroma := componentTables{div: &st.divChroma, dc: &st.huffman[tableChromaDC], ac: &st.huffman[tableChromaAC]}

	var yBlock, cbBlock, crBlock [64]float32
	var predY, predCb, predCr int32

	for y := 0; y < height; y += 8 {
		for x := 0; x < width; x += 8 {
			for by := 0; by < 8; by++ {
				sy := min(y+by, height-1)
				for bx := 0; bx < 8; bx++ {
					sx := min(x+bx, width-1)
					r, g, b := src.rgb(sx, sy)
					k := by*8 + bx
					yBlock[k] = 0.299*r + 0.587*g + 0.114*b - 128
					cbBlock[k] = -0.1687*r - 0.3313*g + 0.5*b
					crBlock[k] = 0.5*r - 0.4187*g - 0.0813*b
				}
			}
			encodeBlock(bw, &yBlock, luma, &predY)
			encodeBlock(bw, &cbBlock, chroma, &predCb)
			encodeBlock(bw, &crBlock, chroma, &predCr)
			if bw.err != nil {
				return bw.err
			}
		}
	}

	bw.padToByte()
	bw.writeBytes(be16(markerEOI))
	return bw.flush()
}

func be16(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

// writeHeaders emits every segment that precedes the entropy coded data.
func writeHeaders(bw *bitWriter, st *state, width, height int) {
	var h []byte

	h = binary.BigEndian.AppendUint16(h, markerSOI)

	// APP0 / JFIF 1.02, 96 dpi, no thumbnail.
	h = binary.BigEndian.AppendUint16(h, markerAPP0)
	h = binary.BigEndian.AppendUint16(h, 16)
	h = append(h, 'J', 'F', 'I', 'F', 0)
	h = binary.BigEndian.AppendUint16(h, 0x0102)
	h = append(h, 1)
	h = binary.BigEndian.AppendUint16(h, 96)
	h = binary.BigEndian.AppendUint16(h, 96)
	h = append(h, 0, 0)

	h = binary.BigEndian.AppendUint16(h, markerCOM)
	h = binary.BigEndian.AppendUint16(h, uint16(2+len(Comment)))
	h = append(h, Comment...)

	for id, table := range [2]*[64]uint8{&st.quantLuma, &st.quantChroma} {
		h = binary.BigEndian.AppendUint16(h, markerDQT)
		h = binary.BigEndian.AppendUint16(h, 2+1+64)
		h = append(h, byte(id))
		h = append(h, table[:]...)
	}

	h = binary.BigEndian.AppendUint16(h, markerSOF0)
	h = binary.BigEndian.AppendUint16(h, 2+1+2+2+1+3*3)
	h = append(h, 8)
	h = binary.BigEndian.AppendUint16(h, uint16(height))
	h = binary.BigEndian.AppendUint16(h, uint16(width))
	h = append(h, 3)
	h = append(h,
		1, 0x11, 0, // Y
		2, 0x11, 1, // Cb
		3, 0x11, 1, // Cr
	)

	for _, t := range [numHuffmanTables]struct {
		index int
		class byte
		id    byte
	}{
		{tableLumaDC, 0, 0},
		{tableLumaAC, 1, 0},
		{tableChromaDC, 0, 1},
		{tableChromaAC, 1, 1},
	} {
		spec := &huffmanSpecs[t.index]
		h = binary.BigEndian.AppendUint16(h, markerDHT)
		h = binary.BigEndian.AppendUint16(h, uint16(2+1+16+len(spec.values)))
		h = append(h, t.class<<4|t.id)
		h = append(h, spec.counts[:]...)
		h = append(h, spec.values...)
	}

	h = binary.BigEndian.AppendUint16(h, markerSOS)
	h = binary.BigEndian.AppendUint16(h, 2+1+3*2+3)
	h = append(h, 3)
	h = append(h,
		1, 0x00,
		2, 0x11,
		3, 0x11,
	)
	h = append(h, 0, 63, 0)

	bw.writeBytes(h)
}
