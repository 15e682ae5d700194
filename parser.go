package longmatch

// An AbsoluteMatch is a match given by positions in the history instead of
// by lengths.
type AbsoluteMatch struct {
	// Start and End bound the bytes being matched.
	Start, End int

	// Match is where the earlier copy of those bytes starts.
	Match int
}

func (m AbsoluteMatch) Length() int {
	return m.End - m.Start
}

// appendMatch appends m to dst as a Match, with the bytes from nextEmit to
// m.Start as its literals.
func appendMatch(dst []Match, nextEmit int, m AbsoluteMatch) []Match {
	return append(dst, Match{
		Unmatched: m.Start - nextEmit,
		Length:    m.Length(),
		Distance:  m.Start - m.Match,
	})
}

// appendLiterals appends the bytes from nextEmit to end as literals.
func appendLiterals(dst []Match, nextEmit, end int) []Match {
	if nextEmit < end {
		dst = append(dst, Match{Unmatched: end - nextEmit})
	}
	return dst
}

// A Searcher reports the matches at one position. ChainSearch is one.
type Searcher interface {
	// Search appends the matches found at pos to dst. Each match lies
	// within [min, max) and has Match < Start <= pos < End.
	Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch
}

// A Parser decides which matches cover the bytes from start to end.
type Parser interface {
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser takes the longest match at each position and continues
// after its end.
type GreedyParser struct {
	// MinLength is the length of the shortest match to use.
	// The default is MinMatch.
	MinLength int

	results []AbsoluteMatch
}

func (p *GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	minLength := p.MinLength
	if minLength == 0 {
		minLength = MinMatch
	}
	nextEmit := start
	for pos := start; pos+MinMatch <= end; {
		p.results = src.Search(p.results[:0], pos, nextEmit, end)
		var best AbsoluteMatch
		for _, m := range p.results {
			if m.Length() > best.Length() {
				best = m
			}
		}
		if best.Length() < minLength {
			pos++
			continue
		}
		dst = appendMatch(dst, nextEmit, best)
		nextEmit = best.End
		pos = best.End
	}
	return appendLiterals(dst, nextEmit, end)
}
