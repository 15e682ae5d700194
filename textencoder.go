package longmatch

import "strconv"

// A TextEncoder is an Encoder that renders the parse as text, for looking
// at what a MatchFinder does. Literal bytes are copied through, except that
// '<' is doubled. Each match becomes <Length,Distance>.
type TextEncoder struct {
	// BlockSeparator, if not empty, is written after every block except
	// the last.
	BlockSeparator string
}

func (t TextEncoder) Reset() {}

func appendLiteralText(dst, lit []byte) []byte {
	for _, c := range lit {
		if c == '<' {
			dst = append(dst, '<')
		}
		dst = append(dst, c)
	}
	return dst
}

func (t TextEncoder) Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte {
	pos := 0
	for _, m := range matches {
		dst = appendLiteralText(dst, src[pos:pos+m.Unmatched])
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		dst = append(dst, '<')
		dst = strconv.AppendInt(dst, int64(m.Length), 10)
		dst = append(dst, ',')
		dst = strconv.AppendInt(dst, int64(m.Distance), 10)
		dst = append(dst, '>')
		pos += m.Length
	}
	dst = appendLiteralText(dst, src[pos:])
	if !lastBlock {
		dst = append(dst, t.BlockSeparator...)
	}
	return dst
}
