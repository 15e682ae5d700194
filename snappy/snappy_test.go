package snappy

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/google/go-cmp/cmp"

	"github.com/lzwork/longmatch"
	"github.com/lzwork/longmatch/internal/testcorpus"
)

func test(t *testing.T, data []byte, m longmatch.MatchFinder) {
	t.Helper()
	b := new(bytes.Buffer)
	w := &longmatch.Writer{
		Dest:        b,
		MatchFinder: m,
		Encoder:     &Encoder{},
		BlockSize:   65536,
	}
	w.Write(data)
	w.Close()
	compressed := b.Bytes()
	sr := snappy.NewReader(bytes.NewReader(compressed))
	decompressed, err := io.ReadAll(sr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("decompressed output doesn't match")
	}
}

func TestEncode(t *testing.T) {
	test(t, testcorpus.Text(300000), longmatch.AutoReset{MatchFinder: longmatch.NewMatchFinder(6)})
}

func TestEncodeFast(t *testing.T) {
	test(t, testcorpus.Mixed(300000, 5), longmatch.AutoReset{MatchFinder: longmatch.NewMatchFinder(1)})
}

func TestEncodeChainSearch(t *testing.T) {
	test(t, testcorpus.Text(200000), longmatch.AutoReset{MatchFinder: &longmatch.ChainSearch{
		Parser: &longmatch.OverlapParser{},
	}})
}

func TestAppendBlock(t *testing.T) {
	long := "abcd" + strings.Repeat("abcd", 17)[:67]
	for _, tc := range []struct {
		name    string
		src     string
		matches []longmatch.Match
		want    []byte
	}{
		{
			// 3-byte copies save nothing, so they become literals.
			name: "short copies",
			src:  "abcabcabcXYZXYZ",
			matches: []longmatch.Match{
				{Unmatched: 3, Length: 3, Distance: 3},
				{Length: 3, Distance: 6},
				{Unmatched: 3, Length: 3, Distance: 3},
			},
			want: append([]byte{15, 14 << 2}, "abcabcabcXYZXYZ"...),
		},
		{
			name:    "near copy",
			src:     "abcdabcd!",
			matches: []longmatch.Match{{Unmatched: 4, Length: 4, Distance: 4}, {Unmatched: 1}},
			want:    []byte{9, 3 << 2, 'a', 'b', 'c', 'd', tagCopy1, 4, 0, '!'},
		},
		{
			// 67 bytes split into 63 and 4, so the tail still fits in 2 bytes.
			name:    "long copy",
			src:     long,
			matches: []longmatch.Match{{Unmatched: 4, Length: 67, Distance: 4}},
			want:    []byte{71, 3 << 2, 'a', 'b', 'c', 'd', 62<<2 | tagCopy2, 4, 0, tagCopy1, 4},
		},
		{
			name:    "far copy",
			src:     "abcdefgh",
			matches: []longmatch.Match{{Unmatched: 4, Length: 4, Distance: 1 << 16}},
			want:    append([]byte{8, 7 << 2}, "abcdefgh"...),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var e Encoder
			block := e.AppendBlock(nil, []byte(tc.src), tc.matches)
			if diff := cmp.Diff(tc.want, block); diff != "" {
				t.Errorf("block mismatch (-want +got):\n%s", diff)
			}
			decompressed, err := snappy.Decode(nil, block)
			if err != nil {
				t.Fatal(err)
			}
			if string(decompressed) != tc.src {
				t.Fatalf("got %q, want %q", decompressed, tc.src)
			}
		})
	}
}

func TestWriter(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("x"), testcorpus.Text(150000)} {
		b := new(bytes.Buffer)
		w := NewWriter(b, 6)
		w.Write(data)
		w.Close()
		decompressed, err := io.ReadAll(snappy.NewReader(b))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatalf("decompressed output doesn't match for %d-byte input", len(data))
		}
	}
}

func benchmark(b *testing.B, m longmatch.MatchFinder) {
	b.StopTimer()
	b.ReportAllocs()
	data := testcorpus.Text(1 << 20)

	b.SetBytes(int64(len(data)))
	buf := new(bytes.Buffer)
	w := &longmatch.Writer{
		Dest:        buf,
		MatchFinder: m,
		Encoder:     &Encoder{},
		BlockSize:   65536,
	}
	w.Write(data)
	w.Close()
	b.ReportMetric(float64(len(data))/float64(buf.Len()), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		w.Reset(io.Discard)
		w.Write(data)
		w.Close()
	}
}

func BenchmarkEncode(b *testing.B) {
	benchmark(b, longmatch.AutoReset{MatchFinder: longmatch.NewMatchFinder(6)})
}

func BenchmarkEncodeFast(b *testing.B) {
	benchmark(b, longmatch.AutoReset{MatchFinder: longmatch.NewMatchFinder(1)})
}

func BenchmarkEncodeGolangSnappy(b *testing.B) {
	b.StopTimer()
	b.ReportAllocs()
	data := testcorpus.Text(1 << 20)

	b.SetBytes(int64(len(data)))
	buf := new(bytes.Buffer)
	w := snappy.NewBufferedWriter(buf)
	w.Write(data)
	w.Close()
	b.ReportMetric(float64(len(data))/float64(buf.Len()), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		w.Reset(io.Discard)
		w.Write(data)
		w.Close()
	}
}
