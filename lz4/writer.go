package lz4

import (
	"io"

	"github.com/lzwork/longmatch"
)

// NewWriter returns a longmatch.Writer that compresses data at the given
// level, in the LZ4 frame format. Each 64-KB block is compressed on its own.
func NewWriter(w io.Writer, level int) *longmatch.Writer {
	return &longmatch.Writer{
		Dest:        w,
		MatchFinder: longmatch.AutoReset{MatchFinder: longmatch.NewMatchFinder(level)},
		Encoder:     new(FrameEncoder),
		BlockSize:   1 << 16,
	}
}
