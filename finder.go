package longmatch

import (
	"encoding/binary"
	"math/bits"
)

// offsetSearchMinChain is the smallest chain budget for which the finder
// re-anchors onto the chains of later sub-positions. Shorter searches don't
// recover the cost of the extra lookups.
const offsetSearchMinChain = 64

// Finder finds the longest earlier occurrence of the bytes at a scan
// position by walking the chains in Tables.
//
// Finder never modifies Window or Tables. The host must have inserted every
// position it searches from, and at least one position per MinMatch bytes
// of history, before calling FindLongestMatch.
type Finder struct {
	// Window holds the history followed by the lookahead. The lookahead at
	// scanPos is len(Window)-scanPos; nothing past the end is read.
	Window []byte

	Tables *HashTables

	// NiceMatch is the length at which the search stops looking for
	// something better. 0 means MaxMatch.
	NiceMatch int

	// GoodMatch is the carried length from which only a quarter of the
	// chain budget is spent. 0 disables the cut.
	GoodMatch int

	// MaxDistance is the greatest distance a match may have. 0 means the
	// ring size of Tables minus MinLookahead.
	MaxDistance int

	// Sparse reports that the host skips inserting some of the positions
	// it scans, so the chains of later sub-positions can't be trusted.
	Sparse bool

	// Verify checks every match the search finds against the window.
	// A failed check panics with a *ConsistencyError.
	Verify bool

	// DumpFile, if set, receives the window contents when a check fails.
	DumpFile string
}

// search is the state of one FindLongestMatch call.
type search struct {
	win    []byte
	tables *HashTables
	scan   int

	maxLook int
	nice    int

	// bestLen is the length a candidate has to beat. It starts at the
	// carried length and may be raised past realLen by the distance rule.
	// realLen and bestPos are only meaningful once found is set.
	bestLen int
	realLen int
	bestPos int
	found   bool

	// offset is the distance between the chain being walked and the
	// candidate start it stands for.
	offset    int
	limitBase int
	limit     int
	budget    int

	carried    int
	threshold  int
	offsetZero bool
}

// FindLongestMatch returns the longest match for the bytes at scanPos,
// starting the chain walk at chainHead and examining at most chainBudget
// candidates.
//
// carriedLen is the length of the match chosen for scanPos-1 when the host
// parses lazily, and carriedPos is where that match starts. Only matches
// longer than carriedLen are looked for. If none is found, length and
// distance are 0 and the host keeps its carried match.
//
// A larger chainBudget never yields a shorter match, as long as both
// budgets are on the same side of 64: below that the finder doesn't
// re-anchor and walks fewer chains per candidate.
func (f *Finder) FindLongestMatch(scanPos, chainHead, carriedLen, carriedPos, chainBudget int) (length, distance int) {
	lookahead := len(f.Window) - scanPos
	s := search{
		win:        f.Window,
		tables:     f.Tables,
		scan:       scanPos,
		maxLook:    min(MaxMatch, lookahead),
		bestLen:    max(carriedLen, MinMatch-1),
		budget:     chainBudget,
		carried:    carriedLen,
		offsetZero: f.Sparse || chainBudget < offsetSearchMinChain,
	}

	maxDist := f.MaxDistance
	if maxDist <= 0 {
		maxDist = f.Tables.WindowSize() - MinLookahead
	}
	if scanPos > maxDist {
		s.limitBase = scanPos - maxDist - 1
	}
	s.limit = s.limitBase

	if carriedLen > MinMatch {
		s.threshold = carriedPos
	}
	if s.budget > 0 && f.GoodMatch > 0 && carriedLen >= f.GoodMatch {
		s.budget = max(s.budget>>2, 1)
	}

	// Never look past the end of the input, so that the result doesn't
	// depend on how the host fills its window.
	s.nice = MaxMatch
	if f.NiceMatch > 0 {
		s.nice = f.NiceMatch
	}
	s.nice = min(s.nice, s.maxLook)

	s.run(chainHead)

	if f.Verify && s.found {
		f.check(&s)
	}

	if !s.found {
		return 0, 0
	}
	return s.realLen, scanPos - s.bestPos
}

func (s *search) run(cur int) {
	if s.budget <= 0 || s.bestLen >= s.maxLook {
		return
	}
	win := s.win
	scan := s.scan

	if s.carried > MinMatch {
		// Every byte up to the carried length has to repeat in a longer
		// match. Walk the chain of the deepest trigram whose head is no
		// newer than chainHead: it skips candidates that share only the
		// first few bytes.
		t := s.tables
		h := t.UpdateHash(0, win[scan+1])
		h = t.UpdateHash(h, win[scan+2])
		for i := MinMatch; i <= s.bestLen; i++ {
			h = t.UpdateHash(h, win[scan+i])
			if pos := int(t.Head[h]); pos <= cur {
				s.offset = i - 2
				cur = pos
			}
		}
		s.limit = s.limitBase + s.offset
	}

	for cur > s.limit && s.budget > 0 {
		start := cur - s.offset

		// A longer match has to agree on the first bytes and on the bytes
		// around the current best length; check those before comparing
		// the whole run.
		bl := s.bestLen
		if win[start+bl] != win[scan+bl] || win[start+bl-1] != win[scan+bl-1] ||
			win[start] != win[scan] || win[start+1] != win[scan+1] {
			cur = s.tables.Next(cur)
			s.budget--
			continue
		}

		n := matchLen(win[start:start+s.maxLook], win[scan:scan+s.maxLook])

		if s.threshold > 0 && start <= s.threshold {
			// Candidates older than the carried match need to beat it by
			// two bytes to pay for the longer distance.
			s.threshold = 0
			if s.bestLen <= s.carried {
				s.bestLen = s.carried + 1
				if s.bestLen >= s.maxLook {
					return
				}
			}
		}

		if n > s.bestLen {
			s.found = true
			s.bestPos = start
			s.bestLen = n
			s.realLen = n
			if n >= s.nice {
				return
			}
			if n > MinMatch && start+n < scan && !s.offsetZero {
				next, ok := s.reanchor(start, n)
				if !ok {
					return
				}
				cur = next
				s.budget--
				continue
			}
		}

		cur = s.tables.Next(cur)
		s.budget--
	}
}

// reanchor moves the walk to the chain of whichever sub-position of the
// match at start reaches back the least. Any longer match has to occur on
// every one of those chains. It reports false if one of them already ends
// past the distance limit, since then no longer match exists.
func (s *search) reanchor(start, n int) (next int, ok bool) {
	next = start
	s.offset = 0
	for i := 0; i <= n-MinMatch; i++ {
		pos := s.tables.Next(start + i)
		if pos < next {
			if pos <= s.limitBase {
				return 0, false
			}
			next = pos
			s.offset = i
		}
	}
	s.limit = s.limitBase + s.offset
	return next, true
}

// matchLen returns the length of the common prefix of a and b.
// 'a' must be the shortest of the two.
func matchLen(a, b []byte) int {
	var checked int

	for len(a) >= 8 {
		if diff := binary.LittleEndian.Uint64(a) ^ binary.LittleEndian.Uint64(b); diff != 0 {
			return checked + (bits.TrailingZeros64(diff) >> 3)
		}
		checked += 8
		a = a[8:]
		b = b[8:]
	}
	b = b[:len(a)]
	for i := range a {
		if a[i] != b[i] {
			return i + checked
		}
	}
	return len(a) + checked
}
