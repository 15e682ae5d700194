package lz4

import (
	"encoding/binary"

	"github.com/lzwork/longmatch"
)

const (
	minMatch  = 4
	maxOffset = 65535

	// The last match must start at least mfLimit bytes before the end of
	// the block, and the last lastLiterals bytes must be literals.
	mfLimit      = 12
	lastLiterals = 5
)

// A BlockEncoder implements the longmatch.Encoder interface, writing in the
// LZ4 block format. Matches shorter than 4 bytes, which LZ4 can't express,
// are written as literals.
type BlockEncoder struct {
	matches []longmatch.Match
}

func (*BlockEncoder) Reset() {}

// fold merges the matches LZ4 can't represent into the literals of the
// match that follows them.
func (e *BlockEncoder) fold(matches []longmatch.Match) []longmatch.Match {
	out := e.matches[:0]
	pending := 0
	for _, m := range matches {
		if m.Length < minMatch || m.Distance < 1 || m.Distance > maxOffset {
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

func (e *BlockEncoder) Encode(dst []byte, src []byte, matches []longmatch.Match, lastBlock bool) []byte {
	matches = e.fold(matches)

	// Ensure that the block ends with at least 5 literal bytes,
	// and the last match is at least 12 bytes before the end of the block.
	end := 0
	for _, m := range matches {
		end += m.Unmatched + m.Length
	}
	for len(matches) > 0 {
		m := matches[len(matches)-1]
		if m.Length > 0 && len(src)-end >= lastLiterals && len(src)-end+m.Length >= mfLimit {
			break
		}
		matches = matches[:len(matches)-1]
		end -= m.Unmatched + m.Length
	}

	pos := 0
	for _, m := range matches {
		token := byte(0)
		if m.Unmatched > 14 {
			token |= 0xf0
		} else {
			token |= byte(m.Unmatched << 4)
		}
		if m.Length > 18 {
			token |= 0x0f
		} else {
			token |= byte(m.Length - 4)
		}
		dst = append(dst, token)

		if m.Unmatched > 14 {
			dst = appendInt(dst, m.Unmatched-15)
		}
		dst = append(dst, src[pos:pos+m.Unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.Distance))
		if m.Length > 18 {
			dst = appendInt(dst, m.Length-19)
		}

		pos += m.Unmatched + m.Length
	}

	// Write the final, literals-only sequence.
	trailingLiterals := len(src) - pos
	token := byte(0)
	if trailingLiterals > 14 {
		token |= 0xf0
	} else {
		token |= byte(trailingLiterals << 4)
	}
	dst = append(dst, token)
	if trailingLiterals > 14 {
		dst = appendInt(dst, trailingLiterals-15)
	}
	dst = append(dst, src[pos:]...)

	return dst
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}
