package longmatch

import (
	"bytes"
	"fmt"
	"log"
	"os"
)

// debug enables tracing of the hosts' parse decisions.
const debug = false

func debugf(format string, a ...interface{}) {
	if debug {
		log.Printf(format, a...)
	}
}

// A ConsistencyError reports a match that doesn't hold up against the
// window. It can only come from a defect in the finder or from host tables
// that break the chain invariants, never from the input data.
type ConsistencyError struct {
	Reason   string
	ScanPos  int
	MatchPos int
	Length   int
	Limit    int

	// DumpFile is where the window was written, if anywhere.
	DumpFile string
	DumpErr  error
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("longmatch: %s: scan=%#x match=%#x length=%d limit=%#x",
		e.Reason, e.ScanPos, e.MatchPos, e.Length, e.Limit)
	switch {
	case e.DumpErr != nil:
		msg += fmt.Sprintf(" (window dump failed: %v)", e.DumpErr)
	case e.DumpFile != "":
		msg += " (window dumped to " + e.DumpFile + ")"
	}
	return msg
}

// check panics if the best match in s isn't a real match within the
// distance limit.
func (f *Finder) check(s *search) {
	length := min(s.realLen, len(s.win)-s.scan)
	var reason string
	switch {
	case length > MaxMatch:
		reason = "match too long"
	case s.bestPos <= s.limitBase || s.bestPos < 1:
		reason = "match too far"
	case s.bestPos >= s.scan:
		reason = "match not before scan position"
	case !bytes.Equal(s.win[s.scan:s.scan+length], s.win[s.bestPos:s.bestPos+length]):
		reason = "invalid match"
	default:
		return
	}

	err := &ConsistencyError{
		Reason:   reason,
		ScanPos:  s.scan,
		MatchPos: s.bestPos,
		Length:   length,
		Limit:    s.limitBase,
	}
	if f.DumpFile != "" {
		err.DumpErr = os.WriteFile(f.DumpFile, s.win, 0o644)
		if err.DumpErr == nil {
			err.DumpFile = f.DumpFile
		}
	}
	panic(err)
}
