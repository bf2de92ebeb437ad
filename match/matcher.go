// Package match evaluates parsed pattern groups against phone sequences.
//
// A Matcher combines an inventory with the ignore settings of one query. It
// holds no per-search state and is safe for concurrent use; the group trees
// it evaluates are read-only.
//
// Positions are indices into the phone slice. Evaluation walks in the
// direction of the group's environment: forward for the item and the after
// environment, backward for the before environment. A leading and a trailing
// inventory.BoundaryMarker phone mark the true edges of a word and lie
// outside the range leaves can match.
package match

import (
	"github.com/coregx/phonsearch/inventory"
	"github.com/coregx/phonsearch/syntax"
)

// Options are the ignore settings of a query.
type Options struct {
	// Ignored is the union of ignored length, stress and tone characters.
	// Phones made only of these characters are skipped.
	Ignored string

	// IgnoreDiacritics skips diacritic-only phones and compares literals
	// without their diacritics.
	IgnoreDiacritics bool

	// IgnoreUndefined skips phones the inventory does not define.
	IgnoreUndefined bool
}

// Matcher evaluates groups under fixed options.
type Matcher struct {
	inv     *inventory.Inventory
	opts    Options
	ignored map[rune]struct{}
}

// New returns a Matcher for inv. inv must not be nil.
func New(inv *inventory.Inventory, opts Options) *Matcher {
	m := &Matcher{inv: inv, opts: opts}
	if opts.Ignored != "" {
		m.ignored = make(map[rune]struct{}, len(opts.Ignored))
		for _, r := range opts.Ignored {
			m.ignored[r] = struct{}{}
		}
	}
	return m
}

// Options returns the options m was built with.
func (m *Matcher) Options() Options {
	return m.opts
}

// Inventory returns the inventory m consults.
func (m *Matcher) Inventory() *inventory.Inventory {
	return m.inv
}

// Bounds returns the range [lo, hi) of phones leaves may match, excluding a
// leading and a trailing boundary marker.
func Bounds(phones []string) (lo, hi int) {
	hi = len(phones)
	if hi > 0 && phones[0] == inventory.BoundaryMarker {
		lo = 1
	}
	if hi > lo && phones[hi-1] == inventory.BoundaryMarker {
		hi--
	}
	return lo, hi
}

// word is a phone slice together with its matchable range.
type word struct {
	phones []string
	lo, hi int
}

func newWord(phones []string) *word {
	lo, hi := Bounds(phones)
	return &word{phones: phones, lo: lo, hi: hi}
}

func (w *word) inRange(p int) bool {
	return p >= w.lo && p < w.hi
}

// Match evaluates g anchored at pos, scanning in the direction of g.Env. It
// returns the position following the last consumed phone in scan direction.
// A before group is anchored at the phone just ahead of the item, so next is
// smaller than pos.
func (m *Matcher) Match(g *syntax.Group, phones []string, pos int) (next int, ok bool) {
	if g == nil {
		return pos, true
	}
	next, _, ok = m.group(newWord(phones), g, pos, g.Env.Direction())
	return next, ok
}

// MatchItem evaluates g forward anchored at i and returns the length of the
// consumed span. A candidate whose first consumed phone lies past i (an
// ignorable phone was skipped at the front) does not match; the search
// reports it at the following candidate instead.
func (m *Matcher) MatchItem(g *syntax.Group, phones []string, i int) (length int, ok bool) {
	return m.matchItem(newWord(phones), g, i)
}

func (m *Matcher) matchItem(w *word, g *syntax.Group, i int) (int, bool) {
	next, first, ok := m.group(w, g, i, 1)
	if !ok || (first >= 0 && first != i) {
		return 0, false
	}
	return next - i, true
}

// Find scans forward from start for the first index at which g matches as
// an item, returning that index and the match length.
func (m *Matcher) Find(g *syntax.Group, phones []string, start int) (index, length int, ok bool) {
	w := newWord(phones)
	if start < w.lo {
		start = w.lo
	}
	for i := start; i < w.hi; i++ {
		if n, ok := m.matchItem(w, g, i); ok {
			return i, n, true
		}
	}
	return -1, 0, false
}
