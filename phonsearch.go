// Package phonsearch searches segmented phonetic transcriptions for
// phonological patterns.
//
// A pattern names a search item and, optionally, the environments before and
// after it:
//
//	item
//	item/before_after
//	[V]/#[C]_{t,d}    a vowel after a word-initial consonant, before t or d
//
// Square brackets test one phone against several conditions at once ([C],
// [V], [+high], [dental], or a diacritic placeholder), braces list
// alternatives, # marks a word boundary, and * or + at the outer edge of an
// environment stands for any number of phones.
//
// Basic usage:
//
//	engine, err := phonsearch.Compile(&phonsearch.SearchQuery{Pattern: "d/_a"}, phonsearch.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for m, ok := engine.SearchText("badlerdash"); ok; m, ok = engine.SearchNext() {
//	    fmt.Println(m.Start, m.Length)
//	}
//
// A compiled Pattern is immutable and may be shared between goroutines; a
// SearchEngine adds a cursor for continuation searches and must be confined
// to one goroutine. Package corpus runs a Pattern over many words at once.
//
// Patterns that fail to parse never panic: the errors are reported through
// the query's ErrorMessages and the engine's Err, and the engine matches
// nothing.
package phonsearch

import (
	"errors"

	"github.com/coregx/phonsearch/syntax"
)

// Env identifies the region of a pattern.
type Env = syntax.Env

// Regions of a pattern.
const (
	EnvItem   = syntax.EnvItem
	EnvBefore = syntax.EnvBefore
	EnvAfter  = syntax.EnvAfter
)

// Compile compiles q and returns a ready engine. Parse errors are appended
// to q.ErrorMessages and returned; the engine is nil in that case.
//
// Example:
//
//	q := &phonsearch.SearchQuery{Pattern: "[V]/_#", IgnoredStressChars: "ˈˌ"}
//	engine, err := phonsearch.Compile(q, phonsearch.DefaultConfig())
func Compile(q *SearchQuery, cfg Config) (*SearchEngine, error) {
	e := New(q, cfg)
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

// MustCompile compiles pattern with the default configuration and panics if
// it fails.
//
// Example:
//
//	var finalVowel = phonsearch.MustCompile("[V]/_#")
func MustCompile(pattern string) *SearchEngine {
	e, err := Compile(&SearchQuery{Pattern: pattern}, DefaultConfig())
	if err != nil {
		panic("phonsearch: Compile(`" + pattern + "`): " + err.Error())
	}
	return e
}

// New builds an engine for q. It never fails: when q's pattern or cfg is
// invalid the engine is in StateParseFailed, Err reports why, and every
// search returns no match. Parse errors are appended to q.ErrorMessages.
func New(q *SearchQuery, cfg Config) *SearchEngine {
	log := cfg.logger()
	own := q.Clone()

	if err := cfg.Validate(); err != nil {
		q.ErrorMessages = append(q.ErrorMessages, err.Error())
		own.ErrorMessages = append(own.ErrorMessages, err.Error())
		log.Debug("invalid config", "pattern", q.Pattern, "error", err)
		return &SearchEngine{query: own, state: StateParseFailed, err: err}
	}

	p := compilePattern(own, cfg)
	for _, e := range p.errs {
		q.ErrorMessages = append(q.ErrorMessages, e.Error())
		own.ErrorMessages = append(own.ErrorMessages, e.Error())
		log.Debug("pattern parse failed",
			"pattern", q.Pattern, "region", e.Env.String(), "kind", e.Kind.String(), "offset", e.Pos)
	}

	e := &SearchEngine{pattern: p, query: own, state: StateIdle}
	if !p.Usable() {
		e.state = StateParseFailed
		e.err = p.Err()
		if e.err == nil {
			e.err = errors.New("phonsearch: pattern has no usable item")
		}
	}
	log.Debug("engine compiled", "pattern", q.Pattern, "state", e.state.String(), "regions", len(p.tree.Groups()))
	return e
}
