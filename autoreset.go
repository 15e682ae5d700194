package longmatch

// AutoReset wraps a MatchFinder that can return references to data in
// previous blocks, and calls Reset before each block. It is useful for
// formats whose blocks are decoded independently, like Snappy's framing
// format.
type AutoReset struct {
	MatchFinder
}

// FindMatches resets the underlying MatchFinder and looks for matches in
// src alone.
func (a AutoReset) FindMatches(dst []Match, src []byte) []Match {
	a.Reset()
	return a.MatchFinder.FindMatches(dst, src)
}
