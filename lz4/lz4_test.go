package lz4

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pierrec/lz4/v4"

	"github.com/lzwork/longmatch"
	"github.com/lzwork/longmatch/internal/testcorpus"
)

func TestBlockEncode(t *testing.T) {
	data := testcorpus.Text(60000)

	mf := longmatch.NewMatchFinder(6)
	matches := mf.FindMatches(nil, data)
	var be BlockEncoder
	compressed := be.Encode(nil, data, matches, true)

	decompressed := make([]byte, len(data))
	n, err := lz4.UncompressBlock(compressed, decompressed)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) {
		t.Fatalf("Got %d bytes, wanted %d", n, len(data))
	}

	if !bytes.Equal(decompressed, data) {
		t.Fatal("Decompressed output does not match")
	}
}

func TestBlockFoldsShortMatches(t *testing.T) {
	src := []byte("abcdXabcYabcdZabcdabcdabcdabcd----------------")
	matches := []longmatch.Match{
		{Unmatched: 5, Length: 3, Distance: 5}, // too short for LZ4
		{Unmatched: 1, Length: 4, Distance: 9},
		{Unmatched: 1, Length: 4, Distance: 5},
		{Length: 12, Distance: 4},
		{Unmatched: 16},
	}
	var be BlockEncoder
	compressed := be.Encode(nil, src, matches, true)

	decompressed := make([]byte, len(src))
	n, err := lz4.UncompressBlock(compressed, decompressed)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, decompressed[:n]); diff != "" {
		t.Fatalf("decompressed output mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameEncode(t *testing.T) {
	data := testcorpus.Text(200000)

	mf := longmatch.NewMatchFinder(6)
	matches := mf.FindMatches(nil, data)
	var fe FrameEncoder
	compressed := fe.Encode(nil, data, matches, true)

	decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(decompressed, data) {
		t.Fatal("Decompressed output does not match")
	}
}

func TestWriter(t *testing.T) {
	inputs := map[string][]byte{
		"text":  testcorpus.Text(300000),
		"mixed": testcorpus.Mixed(250000, 9),
		"empty": nil,
	}
	for name, data := range inputs {
		for _, level := range []int{1, 4, 9} {
			t.Run(fmt.Sprintf("%s/%d", name, level), func(t *testing.T) {
				b := new(bytes.Buffer)
				w := NewWriter(b, level)
				if _, err := w.Write(data); err != nil {
					t.Fatal(err)
				}
				if err := w.Close(); err != nil {
					t.Fatal(err)
				}
				decompressed, err := io.ReadAll(lz4.NewReader(b))
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(decompressed, data) {
					t.Fatal("Decompressed output does not match")
				}
			})
		}
	}
}

func BenchmarkWriter(b *testing.B) {
	data := testcorpus.Text(1 << 20)
	b.SetBytes(int64(len(data)))
	buf := new(bytes.Buffer)
	w := NewWriter(buf, 6)
	w.Write(data)
	w.Close()
	b.ReportMetric(float64(len(data))/float64(buf.Len()), "ratio")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		w.Reset(buf)
		w.Write(data)
		w.Close()
	}
}
