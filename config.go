package longmatch

import (
	"errors"
	"fmt"
)

type compressionLevel struct {
	good, lazy, nice, chain int
	fast                    bool
}

// levels are zlib's deflate parameters. For the fast levels, lazy is the
// longest match whose positions are all inserted into the hash tables.
var levels = []compressionLevel{
	{}, // 0
	{4, 4, 8, 4, true},
	{4, 5, 16, 8, true},
	{4, 6, 32, 32, true},
	{4, 4, 16, 16, false},
	{8, 16, 32, 32, false},
	{8, 16, 128, 128, false},
	{8, 32, 128, 256, false},
	{32, 128, 258, 1024, false},
	{32, 258, 258, 4096, false},
}

// DefaultLevel is the level used when Config.Level is 0.
const DefaultLevel = 6

// ErrInvalidLevel is returned for compression levels outside 1–9.
var ErrInvalidLevel = errors.New("longmatch: invalid compression level")

// Config holds the parameters of a Deflater.
type Config struct {
	// Level selects the zlib parameters used for every tuning field left at
	// zero. Levels 1–3 always parse greedily.
	Level int

	// GoodMatch is the previous match length from which the chain budget
	// is cut to a quarter.
	GoodMatch int

	// LazyMatch is the previous match length from which no lazy search is
	// done. In fast mode it is the longest match whose positions are all
	// inserted into the hash tables.
	LazyMatch int

	// NiceMatch is the length at which a search stops early.
	NiceMatch int

	// MaxChain is the number of chain entries a search may examine.
	MaxChain int

	// Fast selects greedy parsing without lazy evaluation.
	Fast bool

	// WindowBits is the base-2 logarithm of the window size (9–15).
	WindowBits int

	// HashBits is the base-2 logarithm of the hash head table size (8–24).
	HashBits int

	// CheckMatches verifies every match against the window; see
	// Finder.Verify.
	CheckMatches bool

	// DumpFile receives the window when a verification fails.
	DumpFile string
}

// ApplyDefaults sets the zero fields of cfg from its level.
func (cfg *Config) ApplyDefaults() {
	if cfg.Level == 0 {
		cfg.Level = DefaultLevel
	}
	if cfg.WindowBits == 0 {
		cfg.WindowBits = 15
	}
	if cfg.HashBits == 0 {
		cfg.HashBits = 15
	}
	if cfg.Level < 1 || cfg.Level >= len(levels) {
		return
	}
	lv := levels[cfg.Level]
	if cfg.GoodMatch == 0 {
		cfg.GoodMatch = lv.good
	}
	if cfg.LazyMatch == 0 {
		cfg.LazyMatch = lv.lazy
	}
	if cfg.NiceMatch == 0 {
		cfg.NiceMatch = lv.nice
	}
	if cfg.MaxChain == 0 {
		cfg.MaxChain = lv.chain
	}
	if lv.fast {
		cfg.Fast = true
	}
}

// Verify checks that the parameters are usable.
func (cfg *Config) Verify() error {
	if !(1 <= cfg.Level && cfg.Level < len(levels)) {
		return fmt.Errorf("%w %d: want value in range [1, 9]", ErrInvalidLevel, cfg.Level)
	}
	if !(9 <= cfg.WindowBits && cfg.WindowBits <= 15) {
		return fmt.Errorf("longmatch: WindowBits=%d; must be in range [9..15]", cfg.WindowBits)
	}
	if !(8 <= cfg.HashBits && cfg.HashBits <= 24) {
		return fmt.Errorf("longmatch: HashBits=%d; must be in range [8..24]", cfg.HashBits)
	}
	if !(MinMatch <= cfg.NiceMatch && cfg.NiceMatch <= MaxMatch) {
		return fmt.Errorf("longmatch: NiceMatch=%d; must be in range [%d..%d]",
			cfg.NiceMatch, MinMatch, MaxMatch)
	}
	if !(0 <= cfg.LazyMatch && cfg.LazyMatch <= MaxMatch) {
		return fmt.Errorf("longmatch: LazyMatch=%d; must be in range [0..%d]",
			cfg.LazyMatch, MaxMatch)
	}
	if cfg.GoodMatch < 0 {
		return fmt.Errorf("longmatch: GoodMatch=%d; must not be negative", cfg.GoodMatch)
	}
	if cfg.MaxChain < 1 {
		return fmt.Errorf("longmatch: MaxChain=%d; must be positive", cfg.MaxChain)
	}
	return nil
}

// NewDeflater returns a Deflater using the parameters in cfg, after
// applying the defaults.
func (cfg Config) NewDeflater() (*Deflater, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	t, err := NewHashTables(cfg.WindowBits, cfg.HashBits)
	if err != nil {
		return nil, err
	}
	wsize := 1 << cfg.WindowBits
	d := &Deflater{
		cfg:    cfg,
		tables: t,
		window: make([]byte, 2*wsize),
		wsize:  wsize,
	}
	d.finder = Finder{
		Tables:      t,
		NiceMatch:   cfg.NiceMatch,
		GoodMatch:   cfg.GoodMatch,
		MaxDistance: wsize - MinLookahead,
		Sparse:      cfg.Fast,
		Verify:      cfg.CheckMatches,
		DumpFile:    cfg.DumpFile,
	}
	d.Reset()
	return d, nil
}

// NewMatchFinder returns a Deflater with zlib's parameters for level.
// Levels outside 1–9 are replaced with the closest level available.
func NewMatchFinder(level int) *Deflater {
	level = min(max(level, 1), 9)
	d, err := Config{Level: level}.NewDeflater()
	if err != nil {
		panic(err)
	}
	return d
}
