package longmatch

// ChainSearch is an implementation of the MatchFinder interface that keeps
// every position of its history on hash chains and searches them with a
// Finder. A Parser decides which of the matches to use.
type ChainSearch struct {
	// SearchLen is how many entries to examine on the hash chain.
	// The default is 128.
	SearchLen int

	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default is 32768.
	MaxDistance int

	// NiceMatch is the length at which a search stops looking for
	// something longer. The default is MaxMatch.
	NiceMatch int

	// Verify checks every match against the history; see Finder.Verify.
	Verify bool

	Parser Parser

	tables *HashTables
	finder Finder

	history []byte
	// hashed is the number of positions of history that are in the tables.
	hashed int
}

const (
	minHistory = 1 << 16
	maxHistory = 1 << 18

	// maxChunk is the most data appended to the history at once. With
	// chainWindowBits large enough to hold maxHistory+maxChunk positions,
	// the Prev ring never wraps.
	maxChunk        = 1 << 16
	chainWindowBits = 19
	chainHashBits   = 16
)

func (q *ChainSearch) Reset() {
	if q.tables != nil {
		q.tables.Reset()
	}
	q.history = q.history[:0]
	q.hashed = 0
}

func (q *ChainSearch) init() {
	if q.SearchLen == 0 {
		q.SearchLen = 128
	}
	if q.MaxDistance == 0 {
		q.MaxDistance = 32768
	}
	q.MaxDistance = min(q.MaxDistance, minHistory)
	if q.NiceMatch == 0 {
		q.NiceMatch = MaxMatch
	}
	if q.Parser == nil {
		q.Parser = &GreedyParser{}
	}
	if q.tables == nil {
		t, err := NewHashTables(chainWindowBits, chainHashBits)
		if err != nil {
			panic(err)
		}
		q.tables = t
	}
	q.finder.Tables = q.tables
	q.finder.MaxDistance = q.MaxDistance
	q.finder.NiceMatch = q.NiceMatch
	q.finder.Verify = q.Verify
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *ChainSearch) FindMatches(dst []Match, src []byte) []Match {
	q.init()
	for len(src) > 0 {
		chunk := src[:min(len(src), maxChunk)]
		src = src[len(chunk):]

		if len(q.history) > maxHistory {
			// Trim down the history buffer.
			delta := len(q.history) - minHistory
			copy(q.history, q.history[delta:])
			q.history = q.history[:minHistory]
			q.tables.Slide(delta)
			q.hashed = max(q.hashed-delta, 0)
		}

		// Append the chunk to the history buffer.
		nextEmit := len(q.history)
		q.history = append(q.history, chunk...)
		dst = q.Parser.Parse(dst, q, nextEmit, len(q.history))
	}
	return dst
}

// hashUpTo inserts the positions up to and including pos that have
// MinMatch bytes after them.
func (q *ChainSearch) hashUpTo(pos int) {
	end := min(pos+1, len(q.history)-MinMatch+1)
	for ; q.hashed < end; q.hashed++ {
		q.tables.Insert(q.history, q.hashed)
	}
}

func (q *ChainSearch) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if pos+MinMatch > max {
		return dst
	}
	q.hashUpTo(pos)
	src := q.history

	q.finder.Window = src[:max]
	length, distance := q.finder.FindLongestMatch(pos, q.tables.Next(pos), MinMatch-1, 0, q.SearchLen)
	if length < MinMatch {
		return dst
	}

	// Extend the match backward as far as possible.
	start := pos
	match := pos - distance
	for start > min && match > 0 && src[start-1] == src[match-1] {
		start--
		match--
	}

	return append(dst, AbsoluteMatch{
		Start: start,
		End:   pos + length,
		Match: match,
	})
}
