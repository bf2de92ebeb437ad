package phonsearch

import (
	"github.com/coregx/phonsearch/syntax"
	"golang.org/x/text/unicode/norm"
)

// PhonesInPattern returns the distinct literal phones of every parsed region
// in order of first appearance (item, then before, then after). Callers use
// it to cross-check a pattern against the phones of a corpus.
func (p *Pattern) PhonesInPattern() []string {
	seen := make(map[string]struct{})
	var out []string
	p.walk(func(m *syntax.Member) {
		if m.Kind != syntax.MemberLiteral {
			return
		}
		if _, dup := seen[m.Text]; !dup {
			seen[m.Text] = struct{}{}
			out = append(out, m.Text)
		}
	})
	return out
}

// InvalidCharactersInPattern returns the distinct characters of literal
// phones that the inventory does not define, in order of appearance.
func (p *Pattern) InvalidCharactersInPattern() []rune {
	seen := make(map[rune]struct{})
	var out []rune
	p.walk(func(m *syntax.Member) {
		if m.Kind != syntax.MemberLiteral {
			return
		}
		for _, r := range norm.NFD.String(m.Text) {
			if p.inv.IsDefinedChar(r) {
				continue
			}
			if _, dup := seen[r]; !dup {
				seen[r] = struct{}{}
				out = append(out, r)
			}
		}
	})
	return out
}

// UnknownFeaturesInPattern returns the feature tests naming features the
// inventory does not define, rendered as written ("[+nasal]", "[dental]").
// Such tests never match.
func (p *Pattern) UnknownFeaturesInPattern() []string {
	seen := make(map[string]struct{})
	var out []string
	p.walk(func(m *syntax.Member) {
		known := true
		switch m.Kind {
		case syntax.MemberBinary:
			_, known = p.inv.BinaryFeature(m.Text)
		case syntax.MemberArticulatory:
			_, known = p.inv.ArticulatoryFeature(m.Text)
		}
		if known {
			return
		}
		s := m.String()
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	})
	return out
}

// WildcardInItem reports whether the item region used * or +.
func (p *Pattern) WildcardInItem() bool {
	return p.errs.Has(syntax.WildcardInItem)
}

// MisplacedWildcard reports whether an environment used * or + away from
// its outer edge.
func (p *Pattern) MisplacedWildcard() bool {
	return p.errs.Has(syntax.MisplacedWildcard)
}

// MultipleWildcards reports whether a region used a wildcard more than once
// or mixed * and +.
func (p *Pattern) MultipleWildcards() bool {
	return p.errs.Has(syntax.DuplicateWildcard) || p.errs.Has(syntax.MixedWildcards)
}

func (p *Pattern) walk(fn func(*syntax.Member)) {
	for _, g := range p.tree.Groups() {
		g.Walk(func(m *syntax.Member) bool {
			fn(m)
			return true
		})
	}
}

// PhonesInPattern is Pattern.PhonesInPattern; it returns nil when the
// engine has no pattern.
func (e *SearchEngine) PhonesInPattern() []string {
	if e.pattern == nil {
		return nil
	}
	return e.pattern.PhonesInPattern()
}

// InvalidCharactersInPattern is Pattern.InvalidCharactersInPattern.
func (e *SearchEngine) InvalidCharactersInPattern() []rune {
	if e.pattern == nil {
		return nil
	}
	return e.pattern.InvalidCharactersInPattern()
}

// UnknownFeaturesInPattern is Pattern.UnknownFeaturesInPattern.
func (e *SearchEngine) UnknownFeaturesInPattern() []string {
	if e.pattern == nil {
		return nil
	}
	return e.pattern.UnknownFeaturesInPattern()
}

// WildcardInItem is Pattern.WildcardInItem.
func (e *SearchEngine) WildcardInItem() bool {
	return e.pattern != nil && e.pattern.WildcardInItem()
}

// MisplacedWildcard is Pattern.MisplacedWildcard.
func (e *SearchEngine) MisplacedWildcard() bool {
	return e.pattern != nil && e.pattern.MisplacedWildcard()
}

// MultipleWildcards is Pattern.MultipleWildcards.
func (e *SearchEngine) MultipleWildcards() bool {
	return e.pattern != nil && e.pattern.MultipleWildcards()
}
