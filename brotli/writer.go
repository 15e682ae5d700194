// Package brotli writes Brotli streams from the matches a longmatch
// MatchFinder produces.
package brotli

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/lzwork/longmatch"
)

// NewWriter returns a new longmatch.Writer that compresses data at the given
// level. Levels 1–7 use a Deflater with zlib's parameters for that level;
// levels 8 and 9 search a 64-KB window with a ChainSearch and resolve
// overlapping matches. Levels outside 1–9 are replaced with the closest
// level available.
func NewWriter(w io.Writer, level int) *longmatch.Writer {
	return &longmatch.Writer{
		Dest:        w,
		MatchFinder: NewMatchFinder(level),
		Encoder:     &brotli.Encoder{},
		BlockSize:   1 << 16,
	}
}

// NewMatchFinder returns the MatchFinder NewWriter uses for level.
func NewMatchFinder(level int) longmatch.MatchFinder {
	level = min(max(level, 1), 9)
	switch level {
	case 8:
		return &longmatch.ChainSearch{
			SearchLen:   1024,
			MaxDistance: 1 << 16,
			Parser:      &longmatch.OverlapParser{},
		}
	case 9:
		return &longmatch.ChainSearch{
			SearchLen:   4096,
			MaxDistance: 1 << 16,
			Parser:      &longmatch.OverlapParser{},
		}
	}
	return longmatch.NewMatchFinder(level)
}
