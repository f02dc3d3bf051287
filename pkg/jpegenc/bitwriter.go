package jpegenc

import "io"

// outputBufferSize is the size of the staging buffer between the encoder and
// its sink.
const outputBufferSize = 1024

// bitWriter packs variable-length codes MSB first and stages the resulting
// bytes before handing them to the sink. Every 0xFF produced by the packer is
// followed by a stuffed 0x00. Marker segments go through writeBytes and are
// never stuffed.
//
// The first sink error is kept and every later call becomes a no-op.
type bitWriter struct {
	w   io.Writer
	err error

	buf [outputBufferSize]byte
	n   int

	// acc holds pending bits left-justified; nbits counts them.
	acc   uint32
	nbits uint32
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

// writeBytes stages p, flushing to the sink every time the buffer fills.
func (b *bitWriter) writeBytes(p []byte) {
	for len(p) > 0 && b.err == nil {
		c := copy(b.buf[b.n:], p)
		b.n += c
		p = p[c:]
		if b.n == len(b.buf) {
			b.flush()
		}
	}
}

func (b *bitWriter) writeByte(c byte) {
	if b.err != nil {
		return
	}
	b.buf[b.n] = c
	b.n++
	if b.n == len(b.buf) {
		b.flush()
	}
}

// writeBits appends the low n bits of value (n <= 16).
func (b *bitWriter) writeBits(n uint32, value uint32) {
	if n == 0 {
		return
	}
	end := b.nbits + n
	b.acc |= (value & (1<<n - 1)) << (32 - end)
	b.nbits = end
	for b.nbits >= 8 {
		c := byte(b.acc >> 24)
		b.writeByte(c)
		if c == 0xff {
			b.writeByte(0x00)
		}
		b.acc <<= 8
		b.nbits -= 8
	}
}

// padToByte completes a partial final byte with zero bits.
func (b *bitWriter) padToByte() {
	if b.nbits > 0 && b.nbits < 8 {
		b.writeBits(8-b.nbits, 0)
	}
}

// flush hands staged bytes to the sink.
func (b *bitWriter) flush() error {
	if b.err != nil {
		return b.err
	}
	if b.n == 0 {
		return nil
	}
	written, err := b.w.Write(b.buf[:b.n])
	if err == nil && written != b.n {
		err = io.ErrShortWrite
	}
	b.n = 0
	b.err = err
	return err
}
