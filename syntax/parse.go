package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter splits literal pattern text into phones. It has the same method
// set as inventory.Segmenter.
type Segmenter interface {
	Segment(text string, boundaries bool) []string
}

// Config supplies the collaborators the parser needs to turn literal text
// into phones.
type Config struct {
	// Segmenter splits literal runs into phones. Nil splits per rune,
	// attaching diacritics to the preceding rune.
	Segmenter Segmenter

	// IsDiacritic decides which runes may follow a placeholder glyph. Nil
	// accepts Unicode nonspacing marks and modifier letters.
	IsDiacritic func(rune) bool
}

func (c Config) isDiacritic(r rune) bool {
	if c.IsDiacritic != nil {
		return c.IsDiacritic(r)
	}
	return unicode.In(r, unicode.Mn, unicode.Lm, unicode.Sk)
}

func (c Config) segment(text string) []string {
	if c.Segmenter != nil {
		return c.Segmenter.Segment(text, false)
	}
	var phones []string
	for _, r := range text {
		if len(phones) > 0 && c.isDiacritic(r) {
			phones[len(phones)-1] += string(r)
			continue
		}
		phones = append(phones, string(r))
	}
	return phones
}

// ParsePattern splits pattern into regions and parses each of them. Regions
// that fail to parse are left nil; their errors are returned as an
// ErrorList. The returned Pattern is never nil.
func ParsePattern(pattern string, cfg Config) (*Pattern, ErrorList) {
	p := &Pattern{Source: pattern}
	regions, err := SplitRegions(pattern)
	if err != nil {
		return p, ErrorList{err.(*Error)}
	}

	var errs ErrorList
	parse := func(env Env) *Group {
		text := regions.Text(env)
		if env != EnvItem && text == "" {
			return nil
		}
		g, regionErrs := parseRegion(text, env, cfg)
		for _, e := range regionErrs {
			e.Pos += regions.Offset(env)
			errs = append(errs, e)
		}
		return g
	}
	p.Item = parse(EnvItem)
	p.Before = parse(EnvBefore)
	p.After = parse(EnvAfter)
	return p, errs
}

// Parse parses a single region. The error is an *Error, or an ErrorList
// when the region breaks several placement rules at once.
func Parse(region string, env Env, cfg Config) (*Group, error) {
	g, errs := parseRegion(region, env, cfg)
	if len(errs) > 0 {
		return nil, errs.Err()
	}
	return g, nil
}

// MustParse is like Parse but panics on error.
func MustParse(region string, env Env, cfg Config) *Group {
	g, err := Parse(region, env, cfg)
	if err != nil {
		panic("syntax: Parse(" + region + "): " + err.Error())
	}
	return g
}

func parseRegion(region string, env Env, cfg Config) (*Group, ErrorList) {
	if region == "" {
		return nil, ErrorList{newError(EmptyPattern, env, 0)}
	}
	if i := strings.IndexByte(region, ' '); i >= 0 {
		return nil, ErrorList{newError(SpaceInPattern, env, i)}
	}
	if i := checkBrackets(region); i >= 0 {
		return nil, ErrorList{newError(MismatchedBrackets, env, i)}
	}
	if errs := checkWildcards(region, env, cfg); len(errs) > 0 {
		return nil, errs
	}

	p := &parser{src: region, env: env, cfg: cfg}
	g, err := p.parseRoot()
	if err != nil {
		err.Env = env
		return nil, ErrorList{err}
	}
	return g, nil
}

// wildcardAt records one * or + in a region.
type wildcardAt struct {
	r        byte
	pos      int
	topLevel bool
}

// checkWildcards enforces the placement rules for * and +: at most one per
// region, never both, never in the item, and only as the first character of
// the before environment or the last of the after environment.
func checkWildcards(region string, env Env, cfg Config) ErrorList {
	var found []wildcardAt
	bracketDepth, braceDepth := 0, 0
	for i := 0; i < len(region); {
		r, size := utf8.DecodeRuneInString(region[i:])
		switch {
		case isPlaceholderGlyph(r):
			i = placeholderEnd(region, i+size, cfg)
			continue
		case r == '[':
			bracketDepth++
		case r == ']':
			bracketDepth--
		case r == '{':
			braceDepth++
		case r == '}':
			braceDepth--
		case r == '*' || (r == '+' && bracketDepth == 0):
			found = append(found, wildcardAt{
				r:        byte(r),
				pos:      i,
				topLevel: bracketDepth == 0 && braceDepth == 0,
			})
		}
		i += size
	}
	if len(found) == 0 {
		return nil
	}

	var errs ErrorList
	mixed := false
	for _, w := range found[1:] {
		if w.r != found[0].r {
			mixed = true
			break
		}
	}
	switch {
	case mixed:
		errs = append(errs, newError(MixedWildcards, env, found[1].pos))
	case len(found) > 1:
		errs = append(errs, newError(DuplicateWildcard, env, found[1].pos))
	}

	if env == EnvItem {
		return append(errs, newError(WildcardInItem, env, found[0].pos))
	}
	for _, w := range found {
		ok := w.topLevel &&
			((env == EnvBefore && w.pos == 0) || (env == EnvAfter && w.pos == len(region)-1))
		if !ok {
			errs = append(errs, newError(MisplacedWildcard, env, w.pos))
			break
		}
	}
	return errs
}

// placeholderEnd returns the offset just past the placeholder body starting
// at i (after the glyph).
func placeholderEnd(s string, i int, cfg Config) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '*' && r != '+' && !cfg.isDiacritic(r) {
			break
		}
		i += size
	}
	return i
}

// parser is a recursive-descent parser over one region.
type parser struct {
	src string
	pos int
	env Env
	cfg Config
}

func (p *parser) errorf(kind ErrorKind, pos int) *Error {
	return newError(kind, p.env, pos)
}

func (p *parser) parseRoot() (*Group, *Error) {
	switch Classify(p.src) {
	case And:
		m, err := p.parseBracket()
		if err != nil {
			return nil, err
		}
		return p.asGroup(m, And), nil
	case Or:
		m, err := p.parseBrace()
		if err != nil {
			return nil, err
		}
		return m.Group, nil
	}

	members, err := p.parseSequence(false)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, p.errorf(MismatchedBrackets, p.pos)
	}
	return &Group{Env: p.env, Kind: Sequential, Members: members}, nil
}

// asGroup returns m as a group of the given kind, wrapping leaves that a
// simple bracket produced directly.
func (p *parser) asGroup(m Member, kind Kind) *Group {
	if m.Kind == MemberGroup && m.Group.Kind == kind {
		return m.Group
	}
	return &Group{Env: p.env, Kind: kind, Members: []Member{m}}
}

// parseSequence parses members until the end of input or, inside braces,
// until ',' or '}'.
func (p *parser) parseSequence(inBrace bool) ([]Member, *Error) {
	var members []Member
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		start := p.pos
		switch {
		case inBrace && (r == ',' || r == '}'):
			return members, nil
		case r == ']' || r == '}':
			return nil, p.errorf(MismatchedBrackets, p.pos)
		case r == '[':
			m, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		case r == '{':
			m, err := p.parseBrace()
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		case r == '#':
			p.pos += size
			members = append(members, Member{Kind: MemberBoundary, Pos: start})
		case r == '*':
			p.pos += size
			members = append(members, Member{Kind: MemberZeroOrMore, Pos: start})
		case r == '+':
			p.pos += size
			members = append(members, Member{Kind: MemberOneOrMore, Pos: start})
		case isPlaceholderGlyph(r):
			ph, err := p.parsePlaceholder(len(p.src))
			if err != nil {
				return nil, err
			}
			merged, err := p.attachPlaceholder(members, ph)
			if err != nil {
				return nil, err
			}
			members = merged
		default:
			members = append(members, p.parseLiteralRun(inBrace)...)
		}
	}
	return members, nil
}

// attachPlaceholder composes a placeholder with the member before it into an
// And group.
func (p *parser) attachPlaceholder(members []Member, ph Member) ([]Member, *Error) {
	if len(members) == 0 {
		return nil, p.errorf(MalformedPlaceholder, ph.Pos)
	}
	prev := members[len(members)-1]
	switch prev.Kind {
	case MemberBoundary, MemberZeroOrMore, MemberOneOrMore, MemberPlaceholder:
		return nil, p.errorf(MalformedPlaceholder, ph.Pos)
	case MemberGroup:
		if prev.Group.Kind == And && prev.Group.HasPlaceholder() {
			return nil, p.errorf(MultiplePlaceholders, ph.Pos)
		}
	}
	members[len(members)-1] = Member{
		Kind: MemberGroup,
		Pos:  prev.Pos,
		Group: &Group{
			Env:     p.env,
			Kind:    And,
			Members: []Member{prev, ph},
		},
	}
	return members, nil
}

// parseLiteralRun consumes literal text up to the next delimiter and returns
// one literal member per phone.
func (p *parser) parseLiteralRun(inBrace bool) []Member {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if isDelimiter(r) || isPlaceholderGlyph(r) || (inBrace && r == ',') {
			break
		}
		p.pos += size
	}
	return p.literalMembers(p.src[start:p.pos], start)
}

func (p *parser) literalMembers(text string, pos int) []Member {
	phones := p.cfg.segment(text)
	members := make([]Member, 0, len(phones))
	off := pos
	for _, ph := range phones {
		members = append(members, Member{Kind: MemberLiteral, Text: ph, Pos: off})
		if i := strings.Index(p.src[off:], ph); i >= 0 {
			off += i + len(ph)
		}
	}
	return members
}

func isDelimiter(r rune) bool {
	switch r {
	case '[', ']', '{', '}', '#', '*', '+':
		return true
	}
	return false
}

// parseBrace parses {alt,alt,...} into an Or group.
func (p *parser) parseBrace() (Member, *Error) {
	open := p.pos
	p.pos++ // '{'
	g := &Group{Env: p.env, Kind: Or}
	for {
		altStart := p.pos
		members, err := p.parseSequence(true)
		if err != nil {
			return Member{}, err
		}
		if len(members) == 0 {
			return Member{}, p.errorf(EmptyPattern, altStart)
		}
		if len(members) == 1 {
			g.Members = append(g.Members, members[0])
		} else {
			g.Members = append(g.Members, Member{
				Kind:  MemberGroup,
				Pos:   altStart,
				Group: &Group{Env: p.env, Kind: Sequential, Members: members},
			})
		}
		if p.pos >= len(p.src) {
			return Member{}, p.errorf(MismatchedBrackets, open)
		}
		c := p.src[p.pos]
		p.pos++
		if c == '}' {
			break
		}
	}
	return Member{Kind: MemberGroup, Group: g, Pos: open}, nil
}

// parseBracket parses [...]. A simple bracket yields a leaf (or an And group
// of several feature tests); a bracket holding nested groups yields an And
// group of them.
func (p *parser) parseBracket() (Member, *Error) {
	open := p.pos
	end := closingIndex(p.src, open)
	if end < 0 {
		return Member{}, p.errorf(MismatchedBrackets, open)
	}
	inner := p.src[open+1 : end]
	if inner == "" {
		return Member{}, p.errorf(EmptyPattern, open)
	}

	var (
		m   Member
		err *Error
	)
	if strings.ContainsAny(inner, "[{") {
		p.pos = open + 1
		m, err = p.parseCompound(end)
	} else {
		m, err = p.parseSimple(inner, open+1)
	}
	if err != nil {
		return Member{}, err
	}
	p.pos = end + 1
	m.Pos = open
	return m, nil
}

// parseCompound parses the members of [ ... [..] {..} ... ] up to end.
func (p *parser) parseCompound(end int) (Member, *Error) {
	g := &Group{Env: p.env, Kind: And}
	placeholders := 0
	for p.pos < end {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		start := p.pos
		switch {
		case r == '[':
			m, err := p.parseBracket()
			if err != nil {
				return Member{}, err
			}
			if m.Kind == MemberPlaceholder {
				placeholders++
			}
			g.Members = append(g.Members, m)
		case r == '{':
			m, err := p.parseBrace()
			if err != nil {
				return Member{}, err
			}
			g.Members = append(g.Members, m)
		case isPlaceholderGlyph(r):
			m, err := p.parsePlaceholder(end)
			if err != nil {
				return Member{}, err
			}
			placeholders++
			g.Members = append(g.Members, m)
		case r == '#':
			p.pos += size
			g.Members = append(g.Members, Member{Kind: MemberBoundary, Pos: start})
		case isDelimiter(r):
			return Member{}, p.errorf(InvalidFeature, start)
		default:
			for p.pos < end {
				r, size := utf8.DecodeRuneInString(p.src[p.pos:])
				if isDelimiter(r) || isPlaceholderGlyph(r) {
					break
				}
				p.pos += size
			}
			lits := p.literalMembers(p.src[start:p.pos], start)
			if len(lits) == 1 {
				g.Members = append(g.Members, lits[0])
			} else if len(lits) > 1 {
				g.Members = append(g.Members, Member{
					Kind:  MemberGroup,
					Pos:   start,
					Group: &Group{Env: p.env, Kind: Sequential, Members: lits},
				})
			}
		}
		if placeholders > 1 {
			return Member{}, p.errorf(MultiplePlaceholders, start)
		}
	}
	return Member{Kind: MemberGroup, Group: g}, nil
}

// parseSimple parses bracket content without nested groups: C, V, signed
// binary features, an articulatory feature name, a placeholder, or one of
// those followed by a placeholder.
func (p *parser) parseSimple(inner string, pos int) (Member, *Error) {
	if i := strings.IndexFunc(inner, isPlaceholderGlyph); i >= 0 {
		_, size := utf8.DecodeRuneInString(inner[i:])
		body := inner[i+size:]
		if strings.IndexFunc(body, isPlaceholderGlyph) >= 0 {
			return Member{}, p.errorf(MultiplePlaceholders, pos+i)
		}
		ph, err := p.placeholderMember(body, pos+i)
		if err != nil {
			return Member{}, err
		}
		if i == 0 {
			return ph, nil
		}
		head, err := p.parseSimple(inner[:i], pos)
		if err != nil {
			return Member{}, err
		}
		return Member{
			Kind:  MemberGroup,
			Group: &Group{Env: p.env, Kind: And, Members: []Member{head, ph}},
		}, nil
	}

	switch inner {
	case "C":
		return Member{Kind: MemberConsonant, Pos: pos}, nil
	case "V":
		return Member{Kind: MemberVowel, Pos: pos}, nil
	}

	if inner[0] == '+' || inner[0] == '-' {
		return p.parseBinaryFeatures(inner, pos)
	}

	if strings.ContainsAny(inner, "+-*#,") {
		return Member{}, p.errorf(InvalidFeature, pos)
	}
	return Member{Kind: MemberArticulatory, Text: strings.ToLower(inner), Pos: pos}, nil
}

// parseBinaryFeatures parses "+high-back+con" into binary tests.
func (p *parser) parseBinaryFeatures(inner string, pos int) (Member, *Error) {
	var tests []Member
	for i := 0; i < len(inner); {
		sign := inner[i]
		if sign != '+' && sign != '-' {
			return Member{}, p.errorf(InvalidFeature, pos+i)
		}
		j := i + 1
		for j < len(inner) && inner[j] != '+' && inner[j] != '-' {
			j++
		}
		name := inner[i+1 : j]
		if name == "" || strings.ContainsAny(name, "*#,") {
			return Member{}, p.errorf(InvalidFeature, pos+i)
		}
		tests = append(tests, Member{
			Kind: MemberBinary,
			Sign: sign,
			Text: strings.ToLower(name),
			Pos:  pos + i,
		})
		i = j
	}
	if len(tests) == 1 {
		return tests[0], nil
	}
	return Member{
		Kind:  MemberGroup,
		Group: &Group{Env: p.env, Kind: And, Members: tests},
	}, nil
}

// parsePlaceholder parses a glyph and its body at p.pos, not past limit.
func (p *parser) parsePlaceholder(limit int) (Member, *Error) {
	start := p.pos
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	bodyEnd := placeholderEnd(p.src[:limit], p.pos+size, p.cfg)
	p.pos = bodyEnd
	return p.placeholderMember(p.src[start+size:bodyEnd], start)
}

func (p *parser) placeholderMember(body string, pos int) (Member, *Error) {
	ph, err := ParsePlaceholder(body, p.cfg.isDiacritic)
	if err != nil {
		return Member{}, p.errorf(err.(*Error).Kind, pos)
	}
	return Member{Kind: MemberPlaceholder, Placeholder: ph, Pos: pos}, nil
}
