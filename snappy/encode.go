package snappy

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/lzwork/longmatch"
)

const (
	tagLiteral = 0x00
	tagCopy1   = 0x01
	tagCopy2   = 0x02
)

const (
	// minCopy is the shortest copy worth emitting: a 3-byte copy takes as
	// much space as the literals it replaces.
	minCopy = 4

	// maxOffset is the farthest back a 2-byte offset reaches.
	maxOffset = 1<<16 - 1

	// maxElement is the most bytes one copy element can hold.
	maxElement = 64

	// Copies of 4 to 11 bytes with offsets below 2048 fit in 2 bytes.
	maxCopy1Len    = 11
	maxCopy1Offset = 1<<11 - 1

	maxChunkData = 1 << 16
)

// An Encoder implements the longmatch.Encoder interface, writing in the
// Snappy framing format. Each block becomes one chunk, and chunks are decoded
// independently, so the MatchFinder must not refer back to earlier blocks.
type Encoder struct {
	wroteHeader bool
	matches     []longmatch.Match
}

var streamIdentifier = []byte("\xff\x06\x00\x00sNaPpY")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// maskedCRC is the checksum from section 3 of
// https://github.com/google/snappy/blob/master/framing_format.txt
func maskedCRC(b []byte) uint32 {
	c := crc32.Checksum(b, castagnoli)
	return (c>>15 | c<<17) + 0xa282ead8
}

func (e *Encoder) Reset() {
	e.wroteHeader = false
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []longmatch.Match, lastBlock bool) []byte {
	if len(src) > maxChunkData {
		panic("snappy: block too large")
	}

	if !e.wroteHeader {
		dst = append(dst, streamIdentifier...)
		e.wroteHeader = true
	}
	if len(src) == 0 {
		return dst
	}

	chunk := len(dst)
	dst = append(dst, 0x00, 0, 0, 0) // compressed data; length filled in below
	dst = binary.LittleEndian.AppendUint32(dst, maskedCRC(src))
	body := len(dst)

	dst = e.AppendBlock(dst, src, matches)
	if n := len(dst) - body; n >= len(src)-len(src)/8 {
		// Less than 12.5% saved: store the data instead.
		dst = append(dst[:body], src...)
		dst[chunk] = 0x01
	}

	size := len(dst) - chunk - 4
	dst[chunk+1] = byte(size)
	dst[chunk+2] = byte(size >> 8)
	dst[chunk+3] = byte(size >> 16)
	return dst
}

// AppendBlock appends src to dst as a raw Snappy block, without framing.
// Matches that Snappy can't express, or that would take more space than
// their bytes as literals, are written as literals.
func (e *Encoder) AppendBlock(dst, src []byte, matches []longmatch.Match) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(src)))

	pos := 0
	for _, m := range e.fold(matches) {
		if m.Unmatched > 0 {
			dst = appendLiteral(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = appendCopy(dst, m.Length, m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = appendLiteral(dst, src[pos:])
	}
	return dst
}

// fold merges the copies that are too short or too far back into the
// literals of the match that follows them.
func (e *Encoder) fold(matches []longmatch.Match) []longmatch.Match {
	out := e.matches[:0]
	pending := 0
	for _, m := range matches {
		if m.Length < minCopy || m.Distance < 1 || m.Distance > maxOffset {
			pending += m.Unmatched + m.Length
			continue
		}
		m.Unmatched += pending
		pending = 0
		out = append(out, m)
	}
	if pending > 0 {
		out = append(out, longmatch.Match{Unmatched: pending})
	}
	e.matches = out
	return out
}

func appendLiteral(dst, lit []byte) []byte {
	n := uint32(len(lit) - 1)
	switch {
	case n < 60:
		dst = append(dst, byte(n)<<2|tagLiteral)
	case n < 1<<8:
		dst = append(dst, 60<<2|tagLiteral, byte(n))
	case n < 1<<16:
		dst = append(dst, 61<<2|tagLiteral, byte(n), byte(n>>8))
	case n < 1<<24:
		dst = append(dst, 62<<2|tagLiteral, byte(n), byte(n>>8), byte(n>>16))
	default:
		dst = append(dst, 63<<2|tagLiteral, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	return append(dst, lit...)
}

// appendCopy writes a copy of at least minCopy bytes. Copies longer than
// maxElement are split so that the last piece is never below minCopy and
// can still use the 2-byte form.
func appendCopy(dst []byte, length, offset int) []byte {
	for length > maxElement {
		n := min(length-minCopy, maxElement)
		dst = append(dst, byte(n-1)<<2|tagCopy2, byte(offset), byte(offset>>8))
		length -= n
	}
	if length <= maxCopy1Len && offset <= maxCopy1Offset {
		return append(dst, byte(offset>>8)<<5|byte(length-minCopy)<<2|tagCopy1, byte(offset))
	}
	return append(dst, byte(length-1)<<2|tagCopy2, byte(offset), byte(offset>>8))
}

// NewWriter returns a longmatch.Writer that compresses data at the given
// level, in the Snappy framing format.
func NewWriter(dst io.Writer, level int) *longmatch.Writer {
	return &longmatch.Writer{
		Dest:        dst,
		MatchFinder: longmatch.AutoReset{MatchFinder: longmatch.NewMatchFinder(level)},
		Encoder:     &Encoder{},
		BlockSize:   maxChunkData,
	}
}
