package match

import (
	"strings"

	"github.com/coregx/phonsearch/syntax"
)

// anchored evaluates an And group holding a diacritic placeholder. The other
// members test one anchor phone, either as written or by its base; the
// placeholder tests the anchor's diacritics together with any diacritic-only
// phones adjacent to it on the far side from the base, which are consumed.
func (m *Matcher) anchored(w *word, members []syntax.Member, pos, dir int) (int, int, bool) {
	var (
		ph    *syntax.Placeholder
		bases []*syntax.Member
	)
	for i := range members {
		if members[i].Kind == syntax.MemberPlaceholder {
			ph = members[i].Placeholder
			continue
		}
		bases = append(bases, &members[i])
	}

	var anchor, next int
	var trailing strings.Builder
	if dir > 0 {
		anchor = m.skipAnchor(w, bases, pos, dir)
		if !w.inRange(anchor) {
			return pos, -1, false
		}
		q := anchor + 1
		for ; w.inRange(q) && m.inv.IsDiacriticOnly(w.phones[q]); q++ {
			trailing.WriteString(w.phones[q])
		}
		next = q
	} else {
		anchor = pos
		for w.inRange(anchor) && m.inv.IsDiacriticOnly(w.phones[anchor]) {
			anchor--
		}
		if anchor == pos {
			anchor = m.skipAnchor(w, bases, pos, dir)
		} else {
			for q := anchor + 1; q <= pos; q++ {
				trailing.WriteString(w.phones[q])
			}
		}
		if !w.inRange(anchor) {
			return pos, -1, false
		}
		next = anchor - 1
	}

	phone := w.phones[anchor]
	base := m.inv.Base(phone)
	for _, mem := range bases {
		if !m.testAnchor(mem, phone) && !m.testAnchor(mem, base) {
			return pos, -1, false
		}
	}
	if ph != nil && !ph.Match(m.inv.Diacritics(phone)+trailing.String()) {
		return pos, -1, false
	}
	return next, anchor, true
}

// skipAnchor skips ignorable phones ahead of the anchor unless one of the
// literal members names the phone.
func (m *Matcher) skipAnchor(w *word, bases []*syntax.Member, pos, dir int) int {
	for w.inRange(pos) && m.ignorable(w.phones[pos]) {
		for _, mem := range bases {
			if mem.Kind == syntax.MemberLiteral && sameText(mem.Text, w.phones[pos]) {
				return pos
			}
		}
		pos += dir
	}
	return pos
}

// testAnchor evaluates one non-placeholder member of an anchored group
// against a single phone.
func (m *Matcher) testAnchor(mem *syntax.Member, phone string) bool {
	switch mem.Kind {
	case syntax.MemberGroup:
		view := &word{phones: []string{phone}, lo: 0, hi: 1}
		next, _, ok := m.group(view, mem.Group, 0, 1)
		return ok && next == 1
	case syntax.MemberZeroOrMore, syntax.MemberOneOrMore, syntax.MemberBoundary:
		return true
	}
	return m.test(mem, phone)
}
