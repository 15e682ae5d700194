package flate

import (
	"math/bits"

	"github.com/lzwork/longmatch"
)

const (
	endBlock   = 256
	maxDist    = 32768
	fixedBlock = 1 // BTYPE for fixed Huffman codes
)

var (
	lengthBase  = [29]uint16{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
	lengthExtra = [29]uint8{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}
	distBase    = [30]uint16{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
	distExtra   = [30]uint8{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}
)

// fixedLitCodes holds the fixed literal/length codes, bit-reversed so that
// they can be written LSB first.
var fixedLitCodes [288]struct {
	code uint16
	len  uint8
}

// lengthCodes maps a match length to its index in lengthBase.
var lengthCodes [longmatch.MaxMatch + 1]uint8

func init() {
	for sym := range fixedLitCodes {
		var code uint16
		var n uint8
		switch {
		case sym < 144:
			code, n = uint16(0x30+sym), 8
		case sym < 256:
			code, n = uint16(0x190+sym-144), 9
		case sym < 280:
			code, n = uint16(sym-256), 7
		default:
			code, n = uint16(0xc0+sym-280), 8
		}
		fixedLitCodes[sym].code = bits.Reverse16(code) >> (16 - n)
		fixedLitCodes[sym].len = n
	}

	code := 0
	for length := longmatch.MinMatch; length <= longmatch.MaxMatch; length++ {
		for code+1 < len(lengthBase) && int(lengthBase[code+1]) <= length {
			code++
		}
		lengthCodes[length] = uint8(code)
	}
}

func distCode(d int) int {
	if d <= 4 {
		return d - 1
	}
	n := bits.Len(uint(d - 1))
	return 2*(n-1) + int(uint(d-1)>>(n-2))&1
}

// An Encoder implements the longmatch.Encoder interface, writing in DEFLATE
// format with the fixed Huffman codes. Each call to Encode writes one block;
// the bit buffer carries over between blocks, so the output of one Encode
// call may end in the middle of a byte that the next call finishes.
type Encoder struct {
	bits  uint64
	nbits uint
}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Reset() {
	e.bits = 0
	e.nbits = 0
}

func (e *Encoder) writeBits(dst []byte, b uint64, n uint) []byte {
	e.bits |= b << e.nbits
	e.nbits += n
	for e.nbits >= 8 {
		dst = append(dst, byte(e.bits))
		e.bits >>= 8
		e.nbits -= 8
	}
	return dst
}

func (e *Encoder) writeSymbol(dst []byte, sym int) []byte {
	c := fixedLitCodes[sym]
	return e.writeBits(dst, uint64(c.code), uint(c.len))
}

func (e *Encoder) writeLiterals(dst []byte, lits []byte) []byte {
	for _, c := range lits {
		dst = e.writeSymbol(dst, int(c))
	}
	return dst
}

// writeMatch writes a length/distance pair. length must be in
// [MinMatch, MaxMatch] and distance in [1, maxDist].
func (e *Encoder) writeMatch(dst []byte, length, distance int) []byte {
	lc := lengthCodes[length]
	dst = e.writeSymbol(dst, 257+int(lc))
	if x := lengthExtra[lc]; x > 0 {
		dst = e.writeBits(dst, uint64(length-int(lengthBase[lc])), uint(x))
	}

	dc := distCode(distance)
	dst = e.writeBits(dst, uint64(bits.Reverse8(uint8(dc))>>3), 5)
	if x := distExtra[dc]; x > 0 {
		dst = e.writeBits(dst, uint64(distance-int(distBase[dc])), uint(x))
	}
	return dst
}

// Encode appends one fixed-Huffman block holding src to dst. Matches that
// DEFLATE can't represent are written as literals, and matches longer than
// MaxMatch are split.
func (e *Encoder) Encode(dst []byte, src []byte, matches []longmatch.Match, lastBlock bool) []byte {
	if len(src) == 0 && !lastBlock {
		return dst
	}

	var final uint64
	if lastBlock {
		final = 1
	}
	dst = e.writeBits(dst, final|fixedBlock<<1, 3)

	pos := 0
	for _, m := range matches {
		dst = e.writeLiterals(dst, src[pos:pos+m.Unmatched])
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		if m.Length < longmatch.MinMatch || m.Distance < 1 || m.Distance > maxDist {
			dst = e.writeLiterals(dst, src[pos:pos+m.Length])
			pos += m.Length
			continue
		}
		for length := m.Length; length > 0; {
			n := length
			if n > longmatch.MaxMatch {
				n = longmatch.MaxMatch
				if length-n < longmatch.MinMatch {
					n = length - longmatch.MinMatch
				}
			}
			dst = e.writeMatch(dst, n, m.Distance)
			length -= n
		}
		pos += m.Length
	}
	if pos < len(src) {
		dst = e.writeLiterals(dst, src[pos:])
	}
	dst = e.writeSymbol(dst, endBlock)

	if lastBlock && e.nbits > 0 {
		dst = append(dst, byte(e.bits))
		e.bits = 0
		e.nbits = 0
	}
	return dst
}
