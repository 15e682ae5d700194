package lz4

import (
	"encoding/binary"
	"hash"

	"github.com/pierrec/xxHash/xxHash32"

	"github.com/lzwork/longmatch"
)

const (
	frameMagic = 0x184D2204

	// flgIndependent is the FLG byte: version 01, independent blocks,
	// content checksum.
	flgIndependent = 0x64
	// bd4MB selects 4-MB maximum blocks.
	bd4MB = 0x70

	uncompressedBit = 1 << 31
)

// A FrameEncoder implements the longmatch.Encoder interface, writing in the
// LZ4 frame format. Blocks are marked independent, so the MatchFinder must
// not refer back to earlier blocks; wrap it in longmatch.AutoReset.
type FrameEncoder struct {
	hasher      hash.Hash32
	be          BlockEncoder
	blockBuffer []byte
}

func (f *FrameEncoder) Reset() {
	f.hasher = nil
}

func frameHeader(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, frameMagic)
	desc := []byte{flgIndependent, bd4MB}
	dst = append(dst, desc...)
	return append(dst, byte(xxHash32.Checksum(desc, 0)>>8))
}

func (f *FrameEncoder) Encode(dst []byte, src []byte, matches []longmatch.Match, lastBlock bool) []byte {
	if f.hasher == nil {
		f.hasher = xxHash32.New(0)
		dst = frameHeader(dst)
	}

	if len(src) > 0 {
		f.blockBuffer = f.be.Encode(f.blockBuffer[:0], src, matches, lastBlock)
		if len(f.blockBuffer) < len(src) {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.blockBuffer)))
			dst = append(dst, f.blockBuffer...)
		} else {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(len(src))|uncompressedBit)
			dst = append(dst, src...)
		}
		f.hasher.Write(src)
	}

	if lastBlock {
		dst = append(dst, 0, 0, 0, 0)
		dst = binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
	}

	return dst
}
