package phonsearch

import (
	"sync/atomic"

	"github.com/coregx/phonsearch/inventory"
	"github.com/coregx/phonsearch/match"
	"github.com/coregx/phonsearch/syntax"
	"golang.org/x/text/unicode/norm"
)

// MatchInfo is the span of an item match: Length phones starting at Start,
// including any ignorable phones skipped inside the item.
type MatchInfo struct {
	Start  int
	Length int
}

// End returns the index just past the match.
func (m MatchInfo) End() int {
	return m.Start + m.Length
}

// Stats tracks search statistics.
type Stats struct {
	// Searches counts FindAt calls on a usable pattern.
	Searches uint64

	// Candidates counts item positions evaluated.
	Candidates uint64

	// EnvironmentRejects counts item matches dropped because the before or
	// after environment did not match.
	EnvironmentRejects uint64

	// Matches counts reported matches.
	Matches uint64
}

// Pattern is a compiled query: the parsed item, before and after groups
// together with the matcher for the query's ignore settings.
//
// A Pattern is immutable and safe for concurrent use. SearchEngine adds a
// single-threaded cursor on top of it.
type Pattern struct {
	// stats must stay first for 64-bit atomic alignment on 32-bit platforms.
	stats Stats

	query     *SearchQuery
	tree      *syntax.Pattern
	errs      syntax.ErrorList
	inv       *inventory.Inventory
	segmenter inventory.Segmenter
	matcher   *match.Matcher
	maxWord   int
}

func compilePattern(q *SearchQuery, cfg Config) *Pattern {
	inv := cfg.inventoryOrDefault()
	seg := cfg.segmenter(inv)
	maxWord := cfg.MaxWordLength
	if maxWord == 0 {
		maxWord = DefaultConfig().MaxWordLength
	}

	tree, errs := syntax.ParsePattern(q.Pattern, syntax.Config{
		Segmenter:   seg,
		IsDiacritic: inv.IsDiacritic,
	})
	return &Pattern{
		query:     q,
		tree:      tree,
		errs:      errs,
		inv:       inv,
		segmenter: seg,
		matcher: match.New(inv, match.Options{
			Ignored:          q.IgnoredChars(),
			IgnoreDiacritics: q.IgnoreDiacritics,
			IgnoreUndefined:  cfg.IgnoreUndefined,
		}),
		maxWord: maxWord,
	}
}

// Source returns the pattern text.
func (p *Pattern) Source() string {
	return p.tree.Source
}

// Err returns the parse errors as one error, or nil.
func (p *Pattern) Err() error {
	return p.errs.Err()
}

// Errors returns the parse errors of every region.
func (p *Pattern) Errors() syntax.ErrorList {
	return append(syntax.ErrorList(nil), p.errs...)
}

// Usable reports whether the pattern parsed without errors.
func (p *Pattern) Usable() bool {
	return len(p.errs) == 0 && p.tree.Item != nil
}

// Item returns the parsed item group, nil when it failed to parse.
func (p *Pattern) Item() *syntax.Group { return p.tree.Item }

// Before returns the parsed before group, nil when absent or unusable.
func (p *Pattern) Before() *syntax.Group { return p.tree.Before }

// After returns the parsed after group, nil when absent or unusable.
func (p *Pattern) After() *syntax.Group { return p.tree.After }

// Segment splits text into phones with boundary markers, using the
// segmenter the pattern was compiled with.
func (p *Pattern) Segment(text string) []string {
	return p.segmenter.Segment(text, true)
}

// FindAt returns the first match whose item starts at or after start. The
// item must match at the candidate index, the before environment must match
// scanning backward from the phone just ahead of it, and the after
// environment scanning forward from the phone just past it.
//
// An unusable pattern, and a word longer than the configured maximum, never
// match.
func (p *Pattern) FindAt(phones []string, start int) (MatchInfo, bool) {
	if !p.Usable() || len(phones) > p.maxWord {
		return MatchInfo{}, false
	}
	atomic.AddUint64(&p.stats.Searches, 1)

	lo, hi := match.Bounds(phones)
	if start < lo {
		start = lo
	}
	var candidates, rejects uint64
	defer func() {
		atomic.AddUint64(&p.stats.Candidates, candidates)
		atomic.AddUint64(&p.stats.EnvironmentRejects, rejects)
	}()

	for i := start; i < hi; i++ {
		candidates++
		n, ok := p.matcher.MatchItem(p.tree.Item, phones, i)
		if !ok {
			continue
		}
		if !p.environments(phones, i, i+n) {
			rejects++
			continue
		}
		atomic.AddUint64(&p.stats.Matches, 1)
		return MatchInfo{Start: i, Length: n}, true
	}
	return MatchInfo{}, false
}

func (p *Pattern) environments(phones []string, start, end int) bool {
	if p.tree.Before != nil {
		if _, ok := p.matcher.Match(p.tree.Before, phones, start-1); !ok {
			return false
		}
	}
	if p.tree.After != nil {
		if _, ok := p.matcher.Match(p.tree.After, phones, end); !ok {
			return false
		}
	}
	return true
}

// FindAll returns every match a continuation scan would produce: each next
// search resumes one position past the previous match's start.
func (p *Pattern) FindAll(phones []string) []MatchInfo {
	var all []MatchInfo
	for start := 0; ; {
		m, ok := p.FindAt(phones, start)
		if !ok {
			return all
		}
		all = append(all, m)
		start = m.Start + 1
	}
}

// Stats returns a snapshot of the search statistics.
func (p *Pattern) Stats() Stats {
	return Stats{
		Searches:           atomic.LoadUint64(&p.stats.Searches),
		Candidates:         atomic.LoadUint64(&p.stats.Candidates),
		EnvironmentRejects: atomic.LoadUint64(&p.stats.EnvironmentRejects),
		Matches:            atomic.LoadUint64(&p.stats.Matches),
	}
}

// ResetStats resets the search statistics to zero.
func (p *Pattern) ResetStats() {
	atomic.StoreUint64(&p.stats.Searches, 0)
	atomic.StoreUint64(&p.stats.Candidates, 0)
	atomic.StoreUint64(&p.stats.EnvironmentRejects, 0)
	atomic.StoreUint64(&p.stats.Matches, 0)
}

// RequiredPhones returns literal phones (in canonical decomposition) that
// every word matching p must contain: literals that are direct members of
// Sequential groups, or of And groups without a placeholder, in any region.
// Alternatives contribute nothing. It returns nil when ignore settings let
// literals match phones other than their own text, since then no phone is
// guaranteed.
func (p *Pattern) RequiredPhones() []string {
	if !p.Usable() {
		return nil
	}
	opts := p.matcher.Options()
	if opts.Ignored != "" || opts.IgnoreDiacritics {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	var collect func(g *syntax.Group)
	collect = func(g *syntax.Group) {
		if g == nil || g.Kind == syntax.Or || (g.Kind == syntax.And && g.HasPlaceholder()) {
			return
		}
		for i := range g.Members {
			m := &g.Members[i]
			switch m.Kind {
			case syntax.MemberLiteral:
				key := norm.NFD.String(m.Text)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					out = append(out, key)
				}
			case syntax.MemberGroup:
				collect(m.Group)
			}
		}
	}
	for _, g := range p.tree.Groups() {
		collect(g)
	}
	return out
}
