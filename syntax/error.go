package syntax

import (
	"fmt"
	"strings"
)

// ErrorKind classifies pattern errors.
type ErrorKind uint8

const (
	// MismatchedBrackets indicates unbalanced or crossed [] / {}.
	MismatchedBrackets ErrorKind = iota

	// EmptyPattern indicates an empty pattern, item, group or alternative.
	EmptyPattern

	// SpaceInPattern indicates a literal space; word boundaries use #.
	SpaceInPattern

	// MalformedEnvironment indicates a bad slash/underscore layout.
	MalformedEnvironment

	// InvalidFeature indicates a bracket whose content is not a class,
	// feature or placeholder.
	InvalidFeature

	// MultiplePlaceholders indicates more than one diacritic placeholder
	// between one bracket pair.
	MultiplePlaceholders

	// MalformedPlaceholder indicates bad diacritic placeholder syntax.
	MalformedPlaceholder

	// DuplicateWildcard indicates * or + more than once in a region.
	DuplicateWildcard

	// MixedWildcards indicates both * and + in one region.
	MixedWildcards

	// WildcardInItem indicates * or + in the search item.
	WildcardInItem

	// MisplacedWildcard indicates * or + away from the outer edge of its
	// environment.
	MisplacedWildcard
)

var errorKindNames = [...]string{
	MismatchedBrackets:   "MismatchedBrackets",
	EmptyPattern:         "EmptyPattern",
	SpaceInPattern:       "SpaceInPattern",
	MalformedEnvironment: "MalformedEnvironment",
	InvalidFeature:       "InvalidFeature",
	MultiplePlaceholders: "MultiplePlaceholders",
	MalformedPlaceholder: "MalformedPlaceholder",
	DuplicateWildcard:    "DuplicateWildcard",
	MixedWildcards:       "MixedWildcards",
	WildcardInItem:       "WildcardInItem",
	MisplacedWildcard:    "MisplacedWildcard",
}

var errorKindMessages = [...]string{
	MismatchedBrackets:   "mismatched brackets",
	EmptyPattern:         "empty pattern",
	SpaceInPattern:       "space in pattern (use # for word boundaries)",
	MalformedEnvironment: "malformed environment (expected item/before_after)",
	InvalidFeature:       "invalid class or feature",
	MultiplePlaceholders: "more than one diacritic placeholder in brackets",
	MalformedPlaceholder: "malformed diacritic placeholder",
	DuplicateWildcard:    "wildcard used more than once",
	MixedWildcards:       "both * and + used",
	WildcardInItem:       "wildcard in search item",
	MisplacedWildcard:    "wildcard not at the outer edge of the environment",
}

// String returns the kind name.
func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("UnknownErrorKind(%d)", k)
}

// IsPlacement reports whether k is a wildcard placement error rather than a
// syntax error.
func (k ErrorKind) IsPlacement() bool {
	return k >= DuplicateWildcard && k <= MisplacedWildcard
}

// Error is a pattern error attributed to a region.
type Error struct {
	Kind    ErrorKind
	Env     Env
	Pos     int // byte offset in the region, -1 when unknown
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos < 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s at offset %d", e.Env, e.Message, e.Pos)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrEmptyPattern)
// works for errors from every region.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, env Env, pos int) *Error {
	return &Error{
		Kind:    kind,
		Env:     env,
		Pos:     pos,
		Message: errorKindMessages[kind],
	}
}

// Sentinel errors for errors.Is.
var (
	ErrMismatchedBrackets   = &Error{Kind: MismatchedBrackets, Pos: -1, Message: errorKindMessages[MismatchedBrackets]}
	ErrEmptyPattern         = &Error{Kind: EmptyPattern, Pos: -1, Message: errorKindMessages[EmptyPattern]}
	ErrSpaceInPattern       = &Error{Kind: SpaceInPattern, Pos: -1, Message: errorKindMessages[SpaceInPattern]}
	ErrMalformedEnvironment = &Error{Kind: MalformedEnvironment, Pos: -1, Message: errorKindMessages[MalformedEnvironment]}
	ErrInvalidFeature       = &Error{Kind: InvalidFeature, Pos: -1, Message: errorKindMessages[InvalidFeature]}
	ErrMultiplePlaceholders = &Error{Kind: MultiplePlaceholders, Pos: -1, Message: errorKindMessages[MultiplePlaceholders]}
	ErrMalformedPlaceholder = &Error{Kind: MalformedPlaceholder, Pos: -1, Message: errorKindMessages[MalformedPlaceholder]}
	ErrDuplicateWildcard    = &Error{Kind: DuplicateWildcard, Pos: -1, Message: errorKindMessages[DuplicateWildcard]}
	ErrMixedWildcards       = &Error{Kind: MixedWildcards, Pos: -1, Message: errorKindMessages[MixedWildcards]}
	ErrWildcardInItem       = &Error{Kind: WildcardInItem, Pos: -1, Message: errorKindMessages[WildcardInItem]}
	ErrMisplacedWildcard    = &Error{Kind: MisplacedWildcard, Pos: -1, Message: errorKindMessages[MisplacedWildcard]}
)

// ErrorList collects the errors of every region of a pattern.
type ErrorList []*Error

// Error joins the messages with "; ".
func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Has reports whether the list holds an error of kind k.
func (l ErrorList) Has(k ErrorKind) bool {
	for _, e := range l {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Err returns nil for an empty list, the only error for a list of one, and
// the list itself otherwise.
func (l ErrorList) Err() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	default:
		return l
	}
}
