package match

import (
	"strings"

	"github.com/coregx/phonsearch/inventory"
	"github.com/coregx/phonsearch/syntax"
	"golang.org/x/text/unicode/norm"
)

// skip advances pos over ignorable phones. A literal leaf stops at a phone
// equal to its own text, since pattern text overrides the ignore settings.
func (m *Matcher) skip(w *word, leaf *syntax.Member, pos, dir int) int {
	for w.inRange(pos) && m.ignorable(w.phones[pos]) {
		if leaf != nil && leaf.Kind == syntax.MemberLiteral && sameText(leaf.Text, w.phones[pos]) {
			break
		}
		pos += dir
	}
	return pos
}

// Ignorable reports whether phone is skipped under m's options.
func (m *Matcher) Ignorable(phone string) bool {
	return m.ignorable(phone)
}

func (m *Matcher) ignorable(phone string) bool {
	if phone == "" || phone == inventory.BoundaryMarker {
		return false
	}
	if m.ignored != nil && m.allIgnored(phone) {
		return true
	}
	if m.opts.IgnoreDiacritics && m.inv.IsDiacriticOnly(phone) {
		return true
	}
	return m.opts.IgnoreUndefined && m.inv.IsUndefined(phone)
}

func (m *Matcher) allIgnored(s string) bool {
	for _, r := range s {
		if _, ok := m.ignored[r]; !ok {
			return false
		}
	}
	return true
}

// stripIgnored removes ignored runes from s, except those that occur in keep.
func (m *Matcher) stripIgnored(s, keep string) string {
	if m.ignored == nil {
		return s
	}
	return strings.Map(func(r rune) rune {
		if _, ok := m.ignored[r]; ok && !strings.ContainsRune(keep, r) {
			return -1
		}
		return r
	}, s)
}

func sameText(a, b string) bool {
	return a == b || norm.NFD.String(a) == norm.NFD.String(b)
}

// literalEqual compares a pattern literal with a phone: exactly, then in
// canonical decomposition, then with ignored characters the literal does not
// itself contain removed from the phone, and finally, when diacritics are
// ignored, with all diacritics stripped from both.
func (m *Matcher) literalEqual(lit, phone string) bool {
	if lit == phone {
		return true
	}
	nl, np := norm.NFD.String(lit), norm.NFD.String(phone)
	if nl == np {
		return true
	}
	np = m.stripIgnored(np, nl)
	if np == nl {
		return true
	}
	if m.opts.IgnoreDiacritics {
		base := m.inv.Base(nl)
		return base != "" && base == m.inv.Base(np)
	}
	return false
}

// lookup finds the entry for phone, retrying with ignored characters
// removed when the inventory has no entry for the phone or its base.
func (m *Matcher) lookup(phone string) (*inventory.PhoneEntry, bool) {
	if e, ok := m.inv.Lookup(phone); ok {
		return e, true
	}
	if m.ignored == nil {
		return nil, false
	}
	if s := m.stripIgnored(norm.NFD.String(phone), ""); s != "" {
		return m.inv.Lookup(s)
	}
	return nil, false
}

// test evaluates a single-phone leaf. Unknown phones and feature names never
// match.
func (m *Matcher) test(mem *syntax.Member, phone string) bool {
	switch mem.Kind {
	case syntax.MemberLiteral:
		return m.literalEqual(mem.Text, phone)
	case syntax.MemberConsonant:
		e, ok := m.lookup(phone)
		return ok && e.CharType == inventory.Consonant
	case syntax.MemberVowel:
		e, ok := m.lookup(phone)
		return ok && e.CharType == inventory.Vowel
	case syntax.MemberBinary:
		f, ok := m.inv.BinaryFeature(mem.Text)
		if !ok {
			return false
		}
		e, ok := m.lookup(phone)
		return ok && e.BinaryMask&f.Mask(mem.Sign) != 0
	case syntax.MemberArticulatory:
		f, ok := m.inv.ArticulatoryFeature(mem.Text)
		if !ok {
			return false
		}
		e, ok := m.lookup(phone)
		return ok && e.Mask(f.MaskNumber)&f.Mask != 0
	}
	return false
}
