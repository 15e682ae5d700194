package longmatch

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// HashTables holds the hash chains that a Finder searches.
//
// Head[h] contains the most recent position whose first MinMatch bytes hash
// to h. Prev[pos&wmask] contains the previous position with the same hash
// as pos, so following Prev from a head enumerates earlier occurrences in
// strictly decreasing order. Position 0 is the nil link; it is never
// returned as a match.
type HashTables struct {
	Head []uint32
	Prev []uint32

	hashShift uint
	hashMask  uint32
	wmask     int
}

// NewHashTables allocates a Prev ring of 1<<windowBits entries and a Head
// table of 1<<hashBits entries.
func NewHashTables(windowBits, hashBits int) (*HashTables, error) {
	if !(9 <= windowBits && windowBits <= 24) {
		return nil, fmt.Errorf("longmatch: windowBits=%d; must be in range [9..24]", windowBits)
	}
	// The boundary-byte checks in the finder rely on the hash mixing in
	// every bit of the prefix.
	if !(8 <= hashBits && hashBits <= 24) {
		return nil, fmt.Errorf("longmatch: hashBits=%d; must be in range [8..24]", hashBits)
	}
	return &HashTables{
		Head:      make([]uint32, 1<<hashBits),
		Prev:      make([]uint32, 1<<windowBits),
		hashShift: uint(hashBits+MinMatch-1) / MinMatch,
		hashMask:  1<<hashBits - 1,
		wmask:     1<<windowBits - 1,
	}, nil
}

// WindowSize returns the number of positions the Prev ring can hold
// before entries are overwritten.
func (t *HashTables) WindowSize() int {
	return t.wmask + 1
}

// UpdateHash rolls c into the hash h. After MinMatch updates, bytes shifted
// in earlier no longer affect the result.
func (t *HashTables) UpdateHash(h uint32, c byte) uint32 {
	return ((h << t.hashShift) ^ uint32(c)) & t.hashMask
}

// Hash returns the hash of b[0:MinMatch].
func (t *HashTables) Hash(b []byte) uint32 {
	b = b[:MinMatch]
	h := uint32(b[0])
	h = (h << t.hashShift) ^ uint32(b[1])
	h = (h << t.hashShift) ^ uint32(b[2])
	return h & t.hashMask
}

// Insert links pos into the chain for the bytes at win[pos:pos+MinMatch]
// and returns the previous head of that chain.
func (t *HashTables) Insert(win []byte, pos int) int {
	h := t.Hash(win[pos:])
	head := t.Head[h]
	t.Prev[pos&t.wmask] = head
	t.Head[h] = uint32(pos)
	return int(head)
}

// Next returns the position that precedes pos on its chain.
func (t *HashTables) Next(pos int) int {
	return int(t.Prev[pos&t.wmask])
}

// Slide rebases every entry after the first n positions of the window have
// been discarded. Entries that pointed into the discarded region become
// nil.
func (t *HashTables) Slide(n int) {
	if n <= 0 {
		return
	}
	if k := n & t.wmask; k != 0 {
		// Keep each surviving position in its ring slot.
		slices.Reverse(t.Prev[:k])
		slices.Reverse(t.Prev[k:])
		slices.Reverse(t.Prev)
	}
	rebase(t.Head, n)
	rebase(t.Prev, n)
}

// Reset clears the tables.
func (t *HashTables) Reset() {
	clear(t.Head)
	clear(t.Prev)
}

func rebase(s []uint32, n int) {
	for i, v := range s {
		if int(v) > n {
			s[i] = v - uint32(n)
		} else {
			s[i] = 0
		}
	}
}

