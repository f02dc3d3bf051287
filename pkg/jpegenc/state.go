package jpegenc

// huffmanCode is the canonical code assigned to one symbol.
type huffmanCode struct {
	code uint16
	size uint8
}

// huffmanTable maps a symbol (category or run/size byte) to its code.
type huffmanTable [256]huffmanCode

// state is the per-image encoder state. It is built fresh for every Encode
// call so concurrent encodes never share mutable data.
type state struct {
	// quantLuma and quantChroma are the DQT payloads.
	quantLuma   [64]uint8
	quantChroma [64]uint8

	// divLuma and divChroma are reciprocals of the AAN-scaled divisors in
	// natural block order; multiplying by them both quantizes and removes
	// the scaling left by the fast DCT.
	divLuma   [64]float32
	divChroma [64]float32

	huffman [numHuffmanTables]huffmanTable
}

func newState(q Quality) *state {
	s := &state{}
	s.quantLuma = quantTable(&baseQuantLuma, q)
	s.quantChroma = quantTable(&baseQuantChroma, q)
	s.divLuma = divisors(&s.quantLuma)
	s.divChroma = divisors(&s.quantChroma)
	for i := range huffmanSpecs {
		s.huffman[i] = buildHuffmanTable(&huffmanSpecs[i])
	}
	return s
}

// quantTable derives the quantization table for a quality level.
func quantTable(base *[64]uint8, q Quality) [64]uint8 {
	var t [64]uint8
	factor := uint8(1)
	if q == QualityMedium {
		factor = 10
	}
	for i := range t {
		if q == QualityHigh {
			t[i] = 1
			continue
		}
		t[i] = base[i] / factor
		if t[i] == 0 {
			t[i] = 1
		}
	}
	return t
}

func divisors(quant *[64]uint8) [64]float32 {
	var d [64]float32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			i := y*8 + x
			d[i] = 1.0 / (8 * aanScales[x] * aanScales[y] * float32(quant[zigzag[i]]))
		}
	}
	return d
}

// buildHuffmanTable expands a BITS/HUFFVAL specification into per-symbol
// codes: codes of equal length are consecutive, and the running code is
// shifted left once for every step in length.
func buildHuffmanTable(spec *huffmanSpec) huffmanTable {
	var t huffmanTable
	code := uint16(0)
	k := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < int(spec.counts[length-1]); i++ {
			sym := spec.values[k]
			t[sym] = huffmanCode{code: code, size: uint8(length)}
			code++
			k++
		}
		code <<= 1
	}
	return t
}
