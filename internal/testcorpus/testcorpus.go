// Package testcorpus generates deterministic inputs for the compression
// tests and benchmarks.
package testcorpus

import "math/rand"

var words = []string{
	"the", "of", "light", "and", "to", "in", "colours", "which", "is", "that",
	"rays", "by", "be", "as", "with", "refracted", "prism", "glass", "it", "or",
	"from", "are", "were", "this", "reflected", "more", "than", "at", "image",
	"their", "same", "sun", "other", "being", "into", "these", "experiment",
	"red", "violet", "green", "blue", "yellow", "paper", "hole", "window",
	"lens", "distance", "inches", "parts", "those", "through", "equal",
}

// Text returns n bytes of English-like prose. Its vocabulary is small and
// some sentences repeat, so it holds matches at every distance a 32K window
// reaches.
func Text(n int) []byte {
	r := rand.New(rand.NewSource(1704))
	b := make([]byte, 0, n+64)
	var sentences [][]byte
	for len(b) < n {
		if len(sentences) > 8 && r.Intn(6) == 0 {
			b = append(b, sentences[r.Intn(len(sentences))]...)
			continue
		}
		start := len(b)
		count := 4 + r.Intn(14)
		for i := 0; i < count; i++ {
			w := words[r.Intn(len(words))]
			if i == 0 {
				b = append(b, w[0]-'a'+'A')
				b = append(b, w[1:]...)
			} else {
				b = append(b, ' ')
				b = append(b, w...)
			}
		}
		b = append(b, ". "...)
		if r.Intn(5) == 0 {
			b = append(b, '\n')
		}
		sentences = append(sentences, b[start:len(b):len(b)])
	}
	return b[:n]
}

// Mixed returns n bytes that alternate between random bytes, runs of a
// single byte, and copies of earlier data from near and far back.
func Mixed(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, 0, n+1024)
	for len(b) < n {
		k := 1 + r.Intn(300)
		switch r.Intn(4) {
		case 0:
			for i := 0; i < k; i++ {
				b = append(b, byte(r.Intn(256)))
			}
		case 1:
			c := byte(r.Intn(4))
			for i := 0; i < k; i++ {
				b = append(b, c)
			}
		default:
			if len(b) < 16 {
				continue
			}
			d := 1 + r.Intn(min(len(b), 40000))
			for i := 0; i < k; i++ {
				b = append(b, b[len(b)-d])
			}
		}
	}
	return b[:n]
}
