// Package longmatch is the match-finding half of an LZ77 compressor.
//
// Compression libraries usually have two main parts:
//   - Something that looks for repeated sequences of bytes
//   - An encoder for the compressed data format (often an entropy coder)
//
// This package is the first part. Its core is Finder, which walks hash
// chains to find the longest earlier occurrence of the bytes at a scan
// position. Deflater drives it the way zlib's deflate does (lazy or greedy
// parsing over a sliding window), and ChainSearch exposes it to the
// Parser implementations. The output is a list of Matches, which the
// encoders in the subpackages turn into DEFLATE, gzip, LZ4, Snappy or
// Brotli streams.
package longmatch

import "github.com/andybalholm/brotli/matchfinder"

// A Match is the basic unit of LZ77 compression: Unmatched literal bytes,
// followed by Length bytes copied from Distance bytes back.
type Match = matchfinder.Match

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder = matchfinder.MatchFinder

// An Encoder encodes the data in its final format.
type Encoder = matchfinder.Encoder

// A Writer compresses data with a MatchFinder and an Encoder.
type Writer = matchfinder.Writer

const (
	// MinMatch is the shortest match the finder reports.
	MinMatch = 3

	// MaxMatch is the longest match the finder reports.
	MaxMatch = 258

	// MinLookahead is the amount of lookahead a host keeps in the window
	// whenever more input is available, so that a match of MaxMatch bytes
	// and the hash of the following position can always be read.
	MinLookahead = MaxMatch + MinMatch + 1

	// TooFar is the distance beyond which a lazy host discards matches of
	// MinMatch bytes.
	TooFar = 4096
)
