package longmatch

// Deflater is a MatchFinder that parses its input the way zlib's deflate
// does: a sliding window of two window sizes, hash chains over 3-byte
// prefixes, and either lazy evaluation (levels 4–9) or greedy matching
// (levels 1–3), with Finder doing the searches.
//
// Each call to FindMatches consumes all of src, so matches never extend
// past the end of a block, but they may refer back into earlier blocks.
// Wrap a Deflater in AutoReset for formats whose blocks must stand alone.
type Deflater struct {
	cfg    Config
	finder Finder
	tables *HashTables

	// window holds data from earlier blocks followed by the lookahead:
	// unprocessed data is window[strstart:strstart+lookahead].
	window []byte
	wsize  int

	strstart  int
	lookahead int
	// insert is the number of positions before strstart that still have
	// to be added to the hash tables once enough bytes follow them.
	insert int

	matchStart     int
	matchLength    int
	prevLength     int
	prevMatch      int
	matchAvailable bool // if true, window[strstart-1] is still pending.

	unmatched int // unmatched bytes to output with the next match
	matches   []Match
}

// Config returns the parameters d was built with, defaults applied.
func (d *Deflater) Config() Config {
	return d.cfg
}

// Reset clears the window and the hash tables.
func (d *Deflater) Reset() {
	d.tables.Reset()
	d.strstart, d.lookahead, d.insert = 0, 0, 0
	d.matchStart, d.prevMatch = 0, 0
	d.matchLength, d.prevLength = MinMatch-1, MinMatch-1
	d.matchAvailable = false
	d.unmatched = 0
	d.matches = nil
}

func (d *Deflater) maxDist() int {
	return d.wsize - MinLookahead
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (d *Deflater) FindMatches(dst []Match, src []byte) []Match {
	d.matches = dst
	if d.cfg.Fast {
		d.deflateFast(src)
	} else {
		d.deflateLazy(src)
	}
	if d.unmatched > 0 {
		d.matches = append(d.matches, Match{
			Unmatched: d.unmatched,
		})
		d.unmatched = 0
	}
	dst = d.matches
	d.matches = nil
	return dst
}

// fillWindow slides the window down by wsize when strstart gets too close
// to its end, then copies as much of src as fits. It returns the number of
// bytes copied.
func (d *Deflater) fillWindow(src []byte) int {
	if d.strstart >= d.wsize+d.maxDist() {
		copy(d.window, d.window[d.wsize:d.strstart+d.lookahead])
		d.matchStart -= d.wsize
		d.strstart -= d.wsize
		d.tables.Slide(d.wsize)
	}
	n := copy(d.window[d.strstart+d.lookahead:], src)
	d.lookahead += n

	// Insert the positions that didn't have MinMatch bytes after them
	// before this fill.
	if d.lookahead+d.insert >= MinMatch {
		str := d.strstart - d.insert
		for d.insert > 0 && str+MinMatch <= d.strstart+d.lookahead {
			d.tables.Insert(d.window, str)
			str++
			d.insert--
		}
	}
	return n
}

// refill keeps at least MinLookahead bytes ahead of strstart for as long
// as src lasts, and returns what is left of src.
func (d *Deflater) refill(src []byte) []byte {
	for d.lookahead < MinLookahead && len(src) > 0 {
		src = src[d.fillWindow(src):]
	}
	return src
}

func (d *Deflater) search(hashHead, carriedLen, carriedPos int) (length, distance int) {
	d.finder.Window = d.window[:d.strstart+d.lookahead]
	return d.finder.FindLongestMatch(d.strstart, hashHead, carriedLen, carriedPos, d.cfg.MaxChain)
}

func (d *Deflater) emitMatch(pos, length, distance int) {
	debugf("match at %d: length %d, distance %d, after %d literals", pos, length, distance, d.unmatched)
	d.matches = append(d.matches, Match{
		Unmatched: d.unmatched,
		Length:    length,
		Distance:  distance,
	})
	d.unmatched = 0
}

// deflateLazy chooses a match only after checking that the next position
// doesn't start a longer one.
func (d *Deflater) deflateLazy(src []byte) {
	for {
		src = d.refill(src)
		if d.lookahead == 0 {
			break
		}

		hashHead := 0
		if d.lookahead >= MinMatch {
			hashHead = d.tables.Insert(d.window, d.strstart)
		}

		d.prevLength, d.prevMatch = d.matchLength, d.matchStart
		d.matchLength = MinMatch - 1

		if hashHead != 0 && d.prevLength < d.cfg.LazyMatch && d.strstart-hashHead <= d.maxDist() {
			length, distance := d.search(hashHead, d.prevLength, d.prevMatch)
			if length > d.prevLength {
				d.matchLength = length
				d.matchStart = d.strstart - distance
				if length == MinMatch && distance > TooFar {
					// A 3-byte match this far back costs more than the
					// literals it replaces.
					d.matchLength = MinMatch - 1
				}
			}
		}

		if d.prevLength >= MinMatch && d.matchLength <= d.prevLength {
			// There was a match at the previous step, and the current match
			// is not better. Output the previous match.
			maxInsert := d.strstart + d.lookahead - MinMatch
			d.emitMatch(d.strstart-1, d.prevLength, d.strstart-1-d.prevMatch)

			// Insert all strings in the match; strstart-1 and strstart
			// are already in. The last two positions of the input never
			// have enough bytes after them.
			d.lookahead -= d.prevLength - 1
			for n := d.prevLength - 2; n > 0; n-- {
				d.strstart++
				if d.strstart <= maxInsert {
					d.tables.Insert(d.window, d.strstart)
				}
			}
			d.matchAvailable = false
			d.matchLength = MinMatch - 1
			d.strstart++
		} else if d.matchAvailable {
			// No better match at the previous step: window[strstart-1]
			// becomes a literal.
			d.unmatched++
			d.strstart++
			d.lookahead--
		} else {
			// Wait for the next step to decide.
			d.matchAvailable = true
			d.strstart++
			d.lookahead--
		}
	}

	if d.matchAvailable {
		d.unmatched++
		d.matchAvailable = false
	}
	d.insert = min(d.strstart, MinMatch-1)
}

// deflateFast takes the first match it finds. Long matches are skipped
// over without inserting their positions, which leaves holes in the
// chains; the finder is configured as Sparse for this mode.
func (d *Deflater) deflateFast(src []byte) {
	for {
		src = d.refill(src)
		if d.lookahead == 0 {
			break
		}

		hashHead := 0
		if d.lookahead >= MinMatch {
			hashHead = d.tables.Insert(d.window, d.strstart)
		}

		d.matchLength = 0
		if hashHead != 0 && d.strstart-hashHead <= d.maxDist() {
			length, distance := d.search(hashHead, MinMatch-1, 0)
			if length >= MinMatch {
				d.matchLength = length
				d.matchStart = d.strstart - distance
			}
		}

		if d.matchLength >= MinMatch {
			d.emitMatch(d.strstart, d.matchLength, d.strstart-d.matchStart)
			d.lookahead -= d.matchLength

			if d.matchLength <= d.cfg.LazyMatch && d.lookahead >= MinMatch {
				for n := d.matchLength - 1; n > 0; n-- {
					d.strstart++
					d.tables.Insert(d.window, d.strstart)
				}
				d.strstart++
			} else {
				d.strstart += d.matchLength
			}
			d.matchLength = 0
		} else {
			d.unmatched++
			d.strstart++
			d.lookahead--
		}
	}

	d.insert = min(d.strstart, MinMatch-1)
}
