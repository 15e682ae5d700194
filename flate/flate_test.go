package flate

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"

	"github.com/lzwork/longmatch"
	"github.com/lzwork/longmatch/internal/testcorpus"
)

func compress(t testing.TB, w *longmatch.Writer, b *bytes.Buffer, data []byte) []byte {
	t.Helper()
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestEncode(t *testing.T) {
	data := testcorpus.Text(300000)
	for level := 1; level <= 9; level++ {
		t.Run(fmt.Sprint(level), func(t *testing.T) {
			b := new(bytes.Buffer)
			compressed := compress(t, NewWriter(b, level), b, data)
			decompressed, err := io.ReadAll(flate.NewReader(bytes.NewReader(compressed)))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Fatal("decompressed output doesn't match")
			}
			if len(compressed) >= len(data) {
				t.Errorf("compressed %d bytes to %d", len(data), len(compressed))
			}
		})
	}
}

func TestEncodeMixed(t *testing.T) {
	data := testcorpus.Mixed(200000, 3)
	b := new(bytes.Buffer)
	w := &longmatch.Writer{
		Dest:        b,
		MatchFinder: &longmatch.ChainSearch{},
		Encoder:     NewEncoder(),
		BlockSize:   32768,
	}
	compressed := compress(t, w, b, data)
	decompressed, err := io.ReadAll(flate.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("decompressed output doesn't match")
	}
}

func TestEncodeEmpty(t *testing.T) {
	b := new(bytes.Buffer)
	compressed := compress(t, NewWriter(b, 6), b, nil)
	decompressed, err := io.ReadAll(flate.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}
	if len(decompressed) != 0 {
		t.Fatalf("got %d bytes from an empty stream", len(decompressed))
	}
}

func TestSplitLongMatches(t *testing.T) {
	src := bytes.Repeat([]byte("ab"), 400)
	matches := []longmatch.Match{
		{Unmatched: 2, Length: 259, Distance: 2},
		{Length: 2, Distance: 2}, // too short; written as literals
		{Length: 537, Distance: 2},
	}
	e := NewEncoder()
	compressed := e.Encode(nil, src, matches, true)
	decompressed, err := io.ReadAll(flate.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, decompressed); diff != "" {
		t.Fatalf("decompressed output mismatch (-want +got):\n%s", diff)
	}
}

func TestGZIP(t *testing.T) {
	data := testcorpus.Text(150000)
	for _, level := range []int{1, 6, 9} {
		b := new(bytes.Buffer)
		compressed := compress(t, NewGZIPWriter(b, level), b, data)
		r, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			t.Fatal(err)
		}
		decompressed, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatalf("level %d: decompressed output doesn't match", level)
		}
	}
}

func TestWriterReset(t *testing.T) {
	data := testcorpus.Text(100000)
	b := new(bytes.Buffer)
	w := NewGZIPWriter(b, 6)
	first := append([]byte(nil), compress(t, w, b, data)...)

	b2 := new(bytes.Buffer)
	w.Reset(b2)
	second := compress(t, w, b2, data)

	// Only the timestamp in the header may differ.
	if diff := cmp.Diff(first[8:], second[8:]); diff != "" {
		t.Fatalf("output after Reset differs (-first +second):\n%s", diff)
	}
}

func benchmark(b *testing.B, level int) {
	data := testcorpus.Text(1 << 20)
	b.SetBytes(int64(len(data)))
	buf := new(bytes.Buffer)
	w := NewWriter(buf, level)
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

func BenchmarkEncode1(b *testing.B) { benchmark(b, 1) }
func BenchmarkEncode6(b *testing.B) { benchmark(b, 6) }
func BenchmarkEncode9(b *testing.B) { benchmark(b, 9) }

func BenchmarkKlauspost6(b *testing.B) {
	data := testcorpus.Text(1 << 20)
	b.SetBytes(int64(len(data)))
	buf := new(bytes.Buffer)
	w, _ := flate.NewWriter(buf, 6)
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
