package phonsearch

import (
	"github.com/coregx/phonsearch/match"
	"github.com/coregx/phonsearch/syntax"
)

// PatternGroup is a single parsed region, searchable on its own.
type PatternGroup struct {
	group   *syntax.Group
	matcher *match.Matcher
}

// ParseGroup parses one region of a pattern for env. q supplies the ignore
// settings and receives parse error messages; it may be nil.
//
// Example:
//
//	g, err := phonsearch.ParseGroup("{a,b,c,e}", phonsearch.EnvItem, nil, phonsearch.DefaultConfig())
//	m, ok := g.Search(phones, 2)
func ParseGroup(region string, env Env, q *SearchQuery, cfg Config) (*PatternGroup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if q == nil {
		q = &SearchQuery{}
	}
	inv := cfg.inventoryOrDefault()
	g, err := syntax.Parse(region, env, syntax.Config{
		Segmenter:   cfg.segmenter(inv),
		IsDiacritic: inv.IsDiacritic,
	})
	if err != nil {
		if list, ok := err.(syntax.ErrorList); ok {
			for _, e := range list {
				q.ErrorMessages = append(q.ErrorMessages, e.Error())
			}
		} else {
			q.ErrorMessages = append(q.ErrorMessages, err.Error())
		}
		cfg.logger().Debug("group parse failed", "region", region, "env", env.String(), "error", err)
		return nil, err
	}
	return &PatternGroup{
		group: g,
		matcher: match.New(inv, match.Options{
			Ignored:          q.IgnoredChars(),
			IgnoreDiacritics: q.IgnoreDiacritics,
			IgnoreUndefined:  cfg.IgnoreUndefined,
		}),
	}, nil
}

// Kind returns the kind of the root group.
func (g *PatternGroup) Kind() syntax.Kind {
	return g.group.Kind
}

// Env returns the region the group was parsed for.
func (g *PatternGroup) Env() Env {
	return g.group.Env
}

// Group returns the parsed tree.
func (g *PatternGroup) Group() *syntax.Group {
	return g.group
}

// String renders the parsed tree.
func (g *PatternGroup) String() string {
	return g.group.String()
}

// Search matches the group against phones. An item group scans forward from
// start for its first match. A before or after group is anchored: after
// matches forward from start, before matches backward from start, which is
// the phone just ahead of an item. The returned span covers the consumed
// phones in text order; for a before group it ends at start.
func (g *PatternGroup) Search(phones []string, start int) (MatchInfo, bool) {
	switch g.group.Env {
	case EnvBefore:
		next, ok := g.matcher.Match(g.group, phones, start)
		if !ok {
			return MatchInfo{}, false
		}
		return MatchInfo{Start: next + 1, Length: start - next}, true
	case EnvAfter:
		next, ok := g.matcher.Match(g.group, phones, start)
		if !ok {
			return MatchInfo{}, false
		}
		return MatchInfo{Start: start, Length: next - start}, true
	default:
		i, n, ok := g.matcher.Find(g.group, phones, start)
		if !ok {
			return MatchInfo{}, false
		}
		return MatchInfo{Start: i, Length: n}, true
	}
}
