package longmatch

// An OverlapParser looks for chains of overlapping matches, each longer than
// the one before, and then trims them so they no longer overlap. The method
// follows
// https://fastcompression.blogspot.com/2011/12/advanced-parsing-strategies.html
type OverlapParser struct {
	// Score is used to choose the best match. If it is nil,
	// the length of the match is used as its score.
	Score func(AbsoluteMatch) int

	// MinLength is the length of the shortest match to use.
	// The default is MinMatch.
	MinLength int

	searchCache []AbsoluteMatch
	chainCache  []candidate
}

// A candidate is the match chosen from the results of one search. The
// other results are kept in case the match needs to be trimmed.
type candidate struct {
	AbsoluteMatch
	options []AbsoluteMatch
}

// pick chooses the best of c.options that fits in [lo, hi), cutting each
// option down to that range first.
func (c *candidate) pick(lo, hi int, score func(AbsoluteMatch) int) {
	c.AbsoluteMatch = AbsoluteMatch{}
	best := 0
	for _, m := range c.options {
		if m.Start < lo {
			m.Match += lo - m.Start
			m.Start = lo
		}
		if m.End > hi {
			m.End = hi
		}
		if m.End <= m.Start {
			continue
		}
		if s := score(m); s > best {
			c.AbsoluteMatch = m
			best = s
		}
	}
}

func (p *OverlapParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	if p.Score == nil {
		p.Score = AbsoluteMatch.Length
	}
	if p.MinLength == 0 {
		p.MinLength = MinMatch
	}
	s := start
	nextEmit := start
	chain := p.chainCache[:0]

	for s < end {
		p.searchCache = src.Search(p.searchCache[:0], s, nextEmit, end)
		m := candidate{options: p.searchCache}
		m.pick(start, end, p.Score)
		if m.Length() < p.MinLength {
			s++
			continue
		}
		chain = append(chain[:0], m)

		// Keep looking for a better match that overlaps the end of the last
		// one.
		for {
			n := len(p.searchCache)
			p.searchCache = src.Search(p.searchCache, m.End-2, m.Start, end)
			next := candidate{options: p.searchCache[n:]}
			next.pick(start, end, p.Score)
			if p.Score(next.AbsoluteMatch) <= p.Score(m.AbsoluteMatch) {
				break
			}
			m = next
			chain = append(chain, m)
		}

		chain = p.resolve(chain, nextEmit, end)

		for _, m := range chain {
			dst = appendMatch(dst, nextEmit, m.AbsoluteMatch)
			nextEmit = m.End
		}
		s = nextEmit
	}

	p.chainCache = chain[:0]
	return appendLiterals(dst, nextEmit, end)
}

// resolve removes the overlaps from a chain of matches, working backward
// from the end. Of two overlapping neighbors, the shorter one is trimmed;
// matches that end up shorter than MinLength are dropped.
func (p *OverlapParser) resolve(chain []candidate, nextEmit, end int) []candidate {
	for i := len(chain) - 2; i >= 0; i-- {
		cur, next := &chain[i], &chain[i+1]
		if cur.Length() > next.Length() {
			// next has probably been trimmed already.
			if cur.End > next.Start {
				hi := end
				if i+2 < len(chain) {
					hi = chain[i+2].Start
				}
				next.pick(cur.End, hi, p.Score)
			}
			if next.Length() < p.MinLength {
				chain = append(chain[:i+1], chain[i+2:]...)
				if i < len(chain)-1 {
					// Check cur against its new neighbor.
					i++
				}
			}
			continue
		}

		if cur.End > next.Start {
			cur.pick(nextEmit, next.Start, p.Score)
		}
		if cur.Length() < p.MinLength {
			chain = append(chain[:i], chain[i+1:]...)
		}
	}
	return chain
}
