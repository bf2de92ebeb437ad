package phonsearch

import "fmt"

// State is the lifecycle state of a SearchEngine.
type State uint8

const (
	// StateUnparsed is the state of a zero SearchEngine.
	StateUnparsed State = iota

	// StateIdle is a parsed engine with no active scan.
	StateIdle

	// StateScanning is a parsed engine whose last search matched; SearchNext
	// continues from that match.
	StateScanning

	// StateParseFailed is terminal: the engine never matches.
	StateParseFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnparsed:
		return "Unparsed"
	case StateIdle:
		return "Idle"
	case StateScanning:
		return "Scanning"
	case StateParseFailed:
		return "ParseFailed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// SearchEngine drives a compiled Pattern across words and remembers where
// the last match started, so SearchNext can continue the scan.
//
// A SearchEngine is not safe for concurrent use. Share the Pattern instead
// and give each goroutine its own engine, or call Pattern.FindAt directly.
type SearchEngine struct {
	pattern *Pattern
	query   *SearchQuery
	state   State
	err     error

	phones []string
	last   int
}

// State returns the lifecycle state.
func (e *SearchEngine) State() State {
	return e.state
}

// Err returns why the engine failed to build, or nil.
func (e *SearchEngine) Err() error {
	return e.err
}

// Pattern returns the compiled pattern, nil when the configuration was
// invalid.
func (e *SearchEngine) Pattern() *Pattern {
	return e.pattern
}

// Query returns a copy of the query the engine was built from, including
// the messages of any parse errors.
func (e *SearchEngine) Query() *SearchQuery {
	if e.query == nil {
		return &SearchQuery{}
	}
	return e.query.Clone()
}

// Phones returns the word of the current scan.
func (e *SearchEngine) Phones() []string {
	return e.phones
}

// SearchWord scans phones forward from start and returns the first match.
// It starts a new scan: SearchNext continues from the returned match.
func (e *SearchEngine) SearchWord(phones []string, start int) (MatchInfo, bool) {
	if !e.ready() {
		return MatchInfo{}, false
	}
	e.phones = phones
	return e.scan(start)
}

// SearchNext continues the current scan one position past the start of the
// previous match. It returns false once the word is exhausted or when no
// scan is active.
func (e *SearchEngine) SearchNext() (MatchInfo, bool) {
	if e.state != StateScanning {
		return MatchInfo{}, false
	}
	return e.scan(e.last + 1)
}

// SearchText segments text with boundary markers and searches it from the
// beginning. Match positions index Phones.
func (e *SearchEngine) SearchText(text string) (MatchInfo, bool) {
	if !e.ready() {
		return MatchInfo{}, false
	}
	e.phones = e.pattern.Segment(text)
	return e.scan(0)
}

// Reset ends the current scan.
func (e *SearchEngine) Reset() {
	if e.ready() {
		e.state = StateIdle
	}
	e.phones = nil
	e.last = 0
}

func (e *SearchEngine) ready() bool {
	return e.state == StateIdle || e.state == StateScanning
}

func (e *SearchEngine) scan(start int) (MatchInfo, bool) {
	m, ok := e.pattern.FindAt(e.phones, start)
	if !ok {
		e.state = StateIdle
		return MatchInfo{}, false
	}
	e.state = StateScanning
	e.last = m.Start
	return m, true
}
