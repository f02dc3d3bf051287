package jpegenc

import "math"

// AAN rotation constants.
const (
	c4      = 0.707106781 // cos(pi/4)
	c6      = 0.382683433 // cos(3pi/8)
	c2MinC6 = 0.541196100 // cos(pi/8) - cos(3pi/8)
	c2PlsC6 = 1.306562965 // cos(pi/8) + cos(3pi/8)
)

// fdct applies the Arai-Agui-Nakajima scaled forward DCT in place: a row pass
// followed by a column pass. Outputs are left scaled by the AAN factors.
func fdct(data *[64]float32) {
	for row := 0; row < 64; row += 8 {
		fdct1D(data, row, 1)
	}
	for col := 0; col < 8; col++ {
		fdct1D(data, col, 8)
	}
}

// fdct1D transforms the eight samples starting at off, step apart.
func fdct1D(d *[64]float32, off, step int) {
	p0, p1, p2, p3 := off, off+step, off+2*step, off+3*step
	p4, p5, p6, p7 := off+4*step, off+5*step, off+6*step, off+7*step

	tmp0 := d[p0] + d[p7]
	tmp7 := d[p0] - d[p7]
	tmp1 := d[p1] + d[p6]
	tmp6 := d[p1] - d[p6]
	tmp2 := d[p2] + d[p5]
	tmp5 := d[p2] - d[p5]
	tmp3 := d[p3] + d[p4]
	tmp4 := d[p3] - d[p4]

	// Even part.
	tmp10 := tmp0 + tmp3
	tmp13 := tmp0 - tmp3
	tmp11 := tmp1 + tmp2
	tmp12 := tmp1 - tmp2

	d[p0] = tmp10 + tmp11
	d[p4] = tmp10 - tmp11

	z1 := (tmp12 + tmp13) * c4
	d[p2] = tmp13 + z1
	d[p6] = tmp13 - z1

	// Odd part.
	tmp10 = tmp4 + tmp5
	tmp11 = tmp5 + tmp6
	tmp12 = tmp6 + tmp7

	z5 := (tmp10 - tmp12) * c6
	z2 := c2MinC6*tmp10 + z5
	z4 := c2PlsC6*tmp12 + z5
	z3 := tmp11 * c4

	z11 := tmp7 + z3
	z13 := tmp7 - z3

	d[p5] = z13 + z2
	d[p3] = z13 - z2
	d[p1] = z11 + z4
	d[p7] = z11 - z4
}

// componentTables groups the tables one component is coded with.
type componentTables struct {
	div *[64]float32
	dc  *huffmanTable
	ac  *huffmanTable
}

// quantize runs the DCT on block and returns the rounded coefficients in
// zigzag order.
func quantize(block *[64]float32, div *[64]float32) [64]int32 {
	fdct(block)
	var du [64]int32
	for i, v := range block {
		v *= div[i]
		// The +1024 bias makes floor round half away from zero for
		// negative values too.
		r := float32(math.Floor(float64(v+1024+0.5))) - 1024
		du[zigzag[i]] = int32(r)
	}
	return du
}

// vli returns the magnitude category of v and its raw bits. Negative values
// are coded as v-1 truncated to the category width.
func vli(v int32) (category uint32, bits uint32) {
	abs := v
	if v < 0 {
		abs = -v
		v--
	}
	category = 1
	for abs >>= 1; abs != 0; abs >>= 1 {
		category++
	}
	return category, uint32(v) & (1<<category - 1)
}

func (b *bitWriter) writeCode(t *huffmanTable, sym uint8) {
	c := t[sym]
	b.writeBits(uint32(c.size), uint32(c.code))
}

// encodeBlock quantizes one 8x8 component block and entropy codes it. pred is
// the component's running DC predictor.
func encodeBlock(b *bitWriter, block *[64]float32, t componentTables, pred *int32) {
	du := quantize(block, t.div)

	diff := du[0] - *pred
	*pred = du[0]
	if diff == 0 {
		b.writeCode(t.dc, 0)
	} else {
		cat, bits := vli(diff)
		b.writeCode(t.dc, uint8(cat))
		b.writeBits(cat, bits)
	}

	last := 0
	for i := 63; i > 0; i-- {
		if du[i] != 0 {
			last = i
			break
		}
	}

	for i := 1; i <= last; i++ {
		run := 0
		for du[i] == 0 {
			run++
			i++
			if run == 16 {
				b.writeCode(t.ac, 0xf0) // ZRL
				run = 0
			}
		}
		cat, bits := vli(du[i])
		b.writeCode(t.ac, uint8(run<<4)|uint8(cat))
		b.writeBits(cat, bits)
	}

	if last != 63 {
		b.writeCode(t.ac, 0x00) // EOB
	}
}
