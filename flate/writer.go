package flate

import (
	"io"

	"github.com/lzwork/longmatch"
)

// NewWriter returns a new longmatch.Writer that compresses data at the given
// level, in flate encoding. Levels 1–9 are available; levels outside this
// range will be replaced with the closest level available.
func NewWriter(w io.Writer, level int) *longmatch.Writer {
	return newWriter(w, level, NewEncoder())
}

// NewGZIPWriter returns a new longmatch.Writer that compresses data at the
// given level, in gzip encoding. Levels 1–9 are available; levels outside
// this range will be replaced by the closest level available.
func NewGZIPWriter(w io.Writer, level int) *longmatch.Writer {
	return newWriter(w, level, NewGZIPEncoder())
}

func newWriter(w io.Writer, level int, e longmatch.Encoder) *longmatch.Writer {
	return &longmatch.Writer{
		Dest:        w,
		MatchFinder: longmatch.NewMatchFinder(level),
		Encoder:     e,
		BlockSize:   1 << 16,
	}
}
