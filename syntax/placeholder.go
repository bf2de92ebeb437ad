package syntax

import (
	"strings"
	"unicode/utf8"
)

// PlaceholderGlyph introduces a diacritic placeholder (U+25CC DOTTED CIRCLE).
const PlaceholderGlyph = '◌'

// altPlaceholderGlyph (U+25CB WHITE CIRCLE) is accepted as a look-alike.
const altPlaceholderGlyph = '○'

func isPlaceholderGlyph(r rune) bool {
	return r == PlaceholderGlyph || r == altPlaceholderGlyph
}

// Quantifier is the repetition rule of a diacritic placeholder.
type Quantifier uint8

const (
	// QuantExact requires the diacritics to equal the literal exactly.
	QuantExact Quantifier = iota

	// QuantZeroOrMore allows additional diacritics at the gap positions.
	QuantZeroOrMore

	// QuantOneOrMore requires at least one additional diacritic.
	QuantOneOrMore
)

func (q Quantifier) String() string {
	switch q {
	case QuantExact:
		return ""
	case QuantZeroOrMore:
		return "*"
	case QuantOneOrMore:
		return "+"
	default:
		return "?"
	}
}

// Placeholder stands for the diacritics of the phone anchored by its sibling
// members. The body is literal diacritics with at most two quantifier runes;
// each quantifier marks a gap where additional diacritics may appear:
//
//	◌ʰ      exactly ʰ
//	◌*      any diacritics, including none
//	◌+      at least one diacritic
//	◌ʰ*     ʰ first, anything after
//	◌*ʰ     anything before, ʰ last
//	◌*ʰ*    ʰ anywhere
//	◌ʰ*ʷ    ʰ first, ʷ last, anything between
type Placeholder struct {
	Quantifier Quantifier

	// Literal is the concatenation of all literal diacritics.
	Literal string

	// Parts is the body split at quantifier runes. An exact placeholder has
	// one part; each gap adds one.
	Parts []string

	// Body is the source text after the glyph.
	Body string
}

// String renders the placeholder with the canonical glyph.
func (p *Placeholder) String() string {
	return string(PlaceholderGlyph) + p.Body
}

// ParsePlaceholder parses the text following the placeholder glyph.
// isDiacritic decides which runes may appear literally.
func ParsePlaceholder(body string, isDiacritic func(rune) bool) (*Placeholder, error) {
	var quant rune
	count := 0
	for i, r := range body {
		switch {
		case r == '*' || r == '+':
			if quant != 0 && r != quant {
				return nil, newError(MalformedPlaceholder, EnvItem, i)
			}
			quant = r
			count++
		case !isDiacritic(r):
			return nil, newError(MalformedPlaceholder, EnvItem, i)
		}
	}

	p := &Placeholder{Body: body}
	switch count {
	case 0:
		p.Quantifier = QuantExact
		p.Parts = []string{body}
		p.Literal = body
		return p, nil
	case 1:
	case 2:
		// Two gaps only make sense on both sides of the literal.
		first, _ := utf8.DecodeRuneInString(body)
		last, _ := utf8.DecodeLastRuneInString(body)
		if first != quant || last != quant || len(body) < 2 {
			return nil, newError(MalformedPlaceholder, EnvItem, 0)
		}
	default:
		return nil, newError(MalformedPlaceholder, EnvItem, 0)
	}

	if quant == '*' {
		p.Quantifier = QuantZeroOrMore
	} else {
		p.Quantifier = QuantOneOrMore
	}
	p.Parts = strings.Split(body, string(quant))
	p.Literal = strings.Join(p.Parts, "")
	return p, nil
}

// Match reports whether diacritics (the diacritic suffix of the anchored
// phone, in text order) satisfies the placeholder.
func (p *Placeholder) Match(diacritics string) bool {
	if p.Quantifier == QuantExact {
		return diacritics == p.Literal
	}
	if p.Quantifier == QuantOneOrMore && len(diacritics) <= len(p.Literal) {
		return false
	}
	return matchParts(p.Parts, diacritics)
}

// matchParts matches s against parts joined by unrestricted gaps: the first
// part is a prefix, the last a suffix, and the middle ones are found
// leftmost in order.
func matchParts(parts []string, s string) bool {
	n := len(parts)
	first, last := parts[0], parts[n-1]
	if len(first)+len(last) > len(s) {
		return false
	}
	if !strings.HasPrefix(s, first) || !strings.HasSuffix(s, last) {
		return false
	}
	rest := s[len(first) : len(s)-len(last)]
	for _, part := range parts[1 : n-1] {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return true
}
