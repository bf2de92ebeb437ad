// Package syntax parses phonetic search patterns into group trees.
//
// A pattern has up to three regions: the search item and, after a slash, the
// environment before and after it, separated by an underscore:
//
//	item
//	item/before_after
//	[V]/#[C]_{t,d}
//
// Within a region, square brackets form an And group (all members must match
// the same phone), braces form an Or group (first matching alternative wins),
// and anything else is a Sequential group. Leaves are literal phones, the
// [C] and [V] class shorthands, binary feature tests [+high], articulatory
// feature tests [dental], the word boundary #, the * and + wildcards (only at
// the outer edge of an environment), and diacritic placeholders written with
// a dotted circle.
//
// The tree produced by Parse is immutable; package match evaluates it.
package syntax

import (
	"fmt"
	"strings"
)

// Env identifies the region a group belongs to.
type Env uint8

const (
	// EnvItem is the search item whose span is reported.
	EnvItem Env = iota

	// EnvBefore is the environment preceding the item, scanned backward.
	EnvBefore

	// EnvAfter is the environment following the item, scanned forward.
	EnvAfter
)

// String returns "item", "before" or "after".
func (e Env) String() string {
	switch e {
	case EnvItem:
		return "item"
	case EnvBefore:
		return "before"
	case EnvAfter:
		return "after"
	default:
		return fmt.Sprintf("Env(%d)", e)
	}
}

// Direction is the scan direction of the region: -1 for EnvBefore, +1
// otherwise.
func (e Env) Direction() int {
	if e == EnvBefore {
		return -1
	}
	return 1
}

// Kind is the evaluation rule of a group.
type Kind uint8

const (
	// Sequential members match one after another in scan direction.
	Sequential Kind = iota

	// And members all match at the same position.
	And

	// Or members are tried in source order; the first match wins.
	Or
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Sequential:
		return "Sequential"
	case And:
		return "And"
	case Or:
		return "Or"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MemberKind enumerates the closed set of group members.
type MemberKind uint8

const (
	MemberLiteral      MemberKind = iota // phone text
	MemberConsonant                      // [C]
	MemberVowel                          // [V]
	MemberBinary                         // [+name] / [-name]
	MemberArticulatory                   // [name]
	MemberGroup                          // nested group
	MemberZeroOrMore                     // *
	MemberOneOrMore                      // +
	MemberBoundary                       // #
	MemberPlaceholder                    // dotted circle
)

var memberKindNames = [...]string{
	MemberLiteral:      "Literal",
	MemberConsonant:    "Consonant",
	MemberVowel:        "Vowel",
	MemberBinary:       "Binary",
	MemberArticulatory: "Articulatory",
	MemberGroup:        "Group",
	MemberZeroOrMore:   "ZeroOrMore",
	MemberOneOrMore:    "OneOrMore",
	MemberBoundary:     "Boundary",
	MemberPlaceholder:  "Placeholder",
}

func (k MemberKind) String() string {
	if int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return fmt.Sprintf("MemberKind(%d)", k)
}

// Member is one element of a group. Which fields are meaningful depends on
// Kind: Text for literals and feature tests, Sign for binary tests, Group
// for nested groups, Placeholder for diacritic placeholders.
type Member struct {
	Kind        MemberKind
	Text        string
	Sign        byte
	Group       *Group
	Placeholder *Placeholder

	// Pos is the byte offset of the member in its region.
	Pos int
}

// IsWildcard reports whether m is * or +.
func (m *Member) IsWildcard() bool {
	return m.Kind == MemberZeroOrMore || m.Kind == MemberOneOrMore
}

// String renders m in a compact, stable form used by tests and debugging.
func (m *Member) String() string {
	switch m.Kind {
	case MemberLiteral:
		return m.Text
	case MemberConsonant:
		return "[C]"
	case MemberVowel:
		return "[V]"
	case MemberBinary:
		return "[" + string(m.Sign) + m.Text + "]"
	case MemberArticulatory:
		return "[" + m.Text + "]"
	case MemberGroup:
		return m.Group.String()
	case MemberZeroOrMore:
		return "*"
	case MemberOneOrMore:
		return "+"
	case MemberBoundary:
		return "#"
	case MemberPlaceholder:
		return m.Placeholder.String()
	default:
		return m.Kind.String()
	}
}

// Group is a node of the pattern tree.
type Group struct {
	Env     Env
	Kind    Kind
	Members []Member
}

// String renders g as Kind(member member ...).
func (g *Group) String() string {
	if g == nil {
		return "<nil>"
	}
	parts := make([]string, len(g.Members))
	for i := range g.Members {
		parts[i] = g.Members[i].String()
	}
	return fmt.Sprintf("%s(%s)", g.Kind, strings.Join(parts, " "))
}

// HasPlaceholder reports whether a direct member of g is a diacritic
// placeholder.
func (g *Group) HasPlaceholder() bool {
	for i := range g.Members {
		if g.Members[i].Kind == MemberPlaceholder {
			return true
		}
	}
	return false
}

// Walk calls fn for every member of g in depth-first source order. Nested
// groups are visited before their own members. Walk stops early when fn
// returns false.
func (g *Group) Walk(fn func(*Member) bool) bool {
	if g == nil {
		return true
	}
	for i := range g.Members {
		m := &g.Members[i]
		if !fn(m) {
			return false
		}
		if m.Kind == MemberGroup && !m.Group.Walk(fn) {
			return false
		}
	}
	return true
}

// Pattern is a fully parsed pattern. Before and After are nil when the
// pattern has no such environment or when the region failed to parse.
type Pattern struct {
	Source string
	Item   *Group
	Before *Group
	After  *Group
}

// Groups returns the non-nil region groups in item, before, after order.
func (p *Pattern) Groups() []*Group {
	groups := make([]*Group, 0, 3)
	for _, g := range []*Group{p.Item, p.Before, p.After} {
		if g != nil {
			groups = append(groups, g)
		}
	}
	return groups
}
