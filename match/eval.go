package match

import "github.com/coregx/phonsearch/syntax"

// Every evaluation step returns the position after the consumed span, the
// first phone it consumed without skipping (-1 when it consumed none), and
// whether it matched.

func (m *Matcher) group(w *word, g *syntax.Group, pos, dir int) (next, first int, ok bool) {
	switch g.Kind {
	case syntax.Sequential:
		return m.sequence(w, g.Members, 0, pos, dir, -1)
	case syntax.And:
		if g.HasPlaceholder() {
			return m.anchored(w, g.Members, pos, dir)
		}
		return m.all(w, g.Members, pos, dir)
	case syntax.Or:
		for i := range g.Members {
			if next, first, ok := m.member(w, &g.Members[i], pos, dir); ok {
				return next, first, true
			}
		}
	}
	return pos, -1, false
}

// scanIndex maps the i-th member in scan order to its source index.
func scanIndex(i, n, dir int) int {
	if dir < 0 {
		return n - 1 - i
	}
	return i
}

// sequence matches members[i:] (in scan order) one after another from pos.
// Recursion only happens at a wildcard, so depth is bounded by the number
// of members, not by word length.
func (m *Matcher) sequence(w *word, members []syntax.Member, i, pos, dir, first int) (int, int, bool) {
	n := len(members)
	for ; i < n; i++ {
		mem := &members[scanIndex(i, n, dir)]
		if mem.IsWildcard() {
			return m.wildcard(w, members, i, pos, dir, first)
		}
		next, f, ok := m.member(w, mem, pos, dir)
		if !ok {
			return pos, -1, false
		}
		if first < 0 {
			first = f
		}
		pos = next
	}
	return pos, first, true
}

// wildcard tries k = 0, 1, 2, ... (or 1, 2, ... for +) consumed phones and
// returns the first k for which the rest of the sequence matches.
func (m *Matcher) wildcard(w *word, members []syntax.Member, i, pos, dir, first int) (int, int, bool) {
	k := 0
	if members[scanIndex(i, len(members), dir)].Kind == syntax.MemberOneOrMore {
		k = 1
	}
	for ; ; k++ {
		end := pos + k*dir
		if k > 0 && (!w.inRange(pos) || !w.inRange(end-dir)) {
			return pos, -1, false
		}
		f := first
		if f < 0 && k > 0 {
			f = pos
		}
		if next, got, ok := m.sequence(w, members, i+1, end, dir, f); ok {
			return next, got, true
		}
	}
}

// all matches every member at pos and requires them to agree on the end.
func (m *Matcher) all(w *word, members []syntax.Member, pos, dir int) (int, int, bool) {
	next, first := pos, -1
	for i := range members {
		n, f, ok := m.member(w, &members[i], pos, dir)
		if !ok {
			return pos, -1, false
		}
		if i == 0 {
			next, first = n, f
		} else if n != next {
			return pos, -1, false
		}
	}
	return next, first, true
}

func (m *Matcher) member(w *word, mem *syntax.Member, pos, dir int) (int, int, bool) {
	switch mem.Kind {
	case syntax.MemberGroup:
		return m.group(w, mem.Group, pos, dir)
	case syntax.MemberBoundary:
		return m.boundary(w, pos, dir)
	case syntax.MemberZeroOrMore:
		return pos, -1, true
	case syntax.MemberOneOrMore:
		if w.inRange(pos) {
			return pos + dir, pos, true
		}
		return pos, -1, false
	case syntax.MemberPlaceholder:
		return m.anchored(w, []syntax.Member{*mem}, pos, dir)
	}

	p := m.skip(w, mem, pos, dir)
	if !w.inRange(p) || !m.test(mem, w.phones[p]) {
		return pos, -1, false
	}
	return p + dir, p, true
}

// boundary matches when, past any ignorable phones, the scan has left the
// word, or when the position behind pos is already outside it. It consumes
// nothing.
func (m *Matcher) boundary(w *word, pos, dir int) (int, int, bool) {
	if p := m.skip(w, nil, pos, dir); !w.inRange(p) {
		return pos, -1, true
	}
	if p := m.skip(w, nil, pos-dir, -dir); !w.inRange(p) {
		return pos, -1, true
	}
	return pos, -1, false
}
