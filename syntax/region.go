package syntax

import "strings"

// Regions is a pattern split into its three region strings. Before and After
// are empty when absent.
type Regions struct {
	Item   string
	Before string
	After  string

	// Offsets of each region in the original pattern.
	ItemOffset   int
	BeforeOffset int
	AfterOffset  int
}

// Text returns the region string for env.
func (r Regions) Text(env Env) string {
	switch env {
	case EnvBefore:
		return r.Before
	case EnvAfter:
		return r.After
	default:
		return r.Item
	}
}

// Offset returns the offset of the region for env in the pattern.
func (r Regions) Offset(env Env) int {
	switch env {
	case EnvBefore:
		return r.BeforeOffset
	case EnvAfter:
		return r.AfterOffset
	default:
		return r.ItemOffset
	}
}

// SplitRegions splits pattern on '/' and then '_':
//
//	X      item X
//	X/     item X
//	X/Y_Z  item X, before Y, after Z
//	X/_Z   before absent
//	X/Y_   after absent
//	X/_    both absent
func SplitRegions(pattern string) (Regions, error) {
	if pattern == "" {
		return Regions{}, newError(EmptyPattern, EnvItem, 0)
	}

	slash := strings.IndexByte(pattern, '/')
	if slash < 0 {
		if i := strings.IndexByte(pattern, '_'); i >= 0 {
			return Regions{}, newError(MalformedEnvironment, EnvItem, i)
		}
		return Regions{Item: pattern}, nil
	}

	r := Regions{Item: pattern[:slash]}
	if r.Item == "" {
		return Regions{}, newError(EmptyPattern, EnvItem, 0)
	}
	if i := strings.IndexByte(r.Item, '_'); i >= 0 {
		return Regions{}, newError(MalformedEnvironment, EnvItem, i)
	}

	env := pattern[slash+1:]
	if i := strings.IndexByte(env, '/'); i >= 0 {
		return Regions{}, newError(MalformedEnvironment, EnvBefore, i)
	}
	if env == "" {
		return r, nil
	}

	under := strings.IndexByte(env, '_')
	if under < 0 {
		return Regions{}, newError(MalformedEnvironment, EnvBefore, len(env))
	}
	if i := strings.IndexByte(env[under+1:], '_'); i >= 0 {
		return Regions{}, newError(MalformedEnvironment, EnvAfter, i)
	}

	r.Before = env[:under]
	r.After = env[under+1:]
	r.BeforeOffset = slash + 1
	r.AfterOffset = slash + 1 + under + 1
	return r, nil
}

// Classify returns the kind of the root group of a region without parsing
// it: And when a single [...] spans the whole text, Or when a single {...}
// does, Sequential otherwise.
func Classify(region string) Kind {
	if len(region) < 2 {
		return Sequential
	}
	var kind Kind
	switch region[0] {
	case '[':
		kind = And
	case '{':
		kind = Or
	default:
		return Sequential
	}
	if closingIndex(region, 0) != len(region)-1 {
		return Sequential
	}
	return kind
}

// closingIndex returns the index of the bracket closing the one at open, or
// -1 when it is unbalanced or crossed.
func closingIndex(s string, open int) int {
	stack := make([]byte, 0, 8)
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '[', '{':
			stack = append(stack, c)
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != matchingOpen(c) {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

func matchingOpen(c byte) byte {
	if c == ']' {
		return '['
	}
	return '{'
}

// checkBrackets returns the offset of the first bracket that breaks nesting,
// or -1.
func checkBrackets(s string) int {
	type open struct {
		c   byte
		pos int
	}
	stack := make([]open, 0, 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '[', '{':
			stack = append(stack, open{c, i})
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1].c != matchingOpen(c) {
				return i
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return stack[len(stack)-1].pos
	}
	return -1
}
