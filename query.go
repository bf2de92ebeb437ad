package phonsearch

import "slices"

// SearchQuery is a pattern together with its ignore settings.
//
// SearchQuery is a value: the engine keeps its own clone, so changing a query
// after compiling it does not affect the engine. Parse errors are appended
// to ErrorMessages of the query passed to Compile or New.
type SearchQuery struct {
	Pattern string

	// Characters whose phones are transparent to the matcher unless the
	// pattern names them explicitly.
	IgnoredLengthChars string
	IgnoredStressChars string
	IgnoredToneChars   string

	// IgnoreDiacritics makes diacritic-only phones transparent and compares
	// literals without their diacritics.
	IgnoreDiacritics bool

	ErrorMessages []string
}

// Clone returns a deep copy of q.
func (q *SearchQuery) Clone() *SearchQuery {
	c := *q
	c.ErrorMessages = slices.Clone(q.ErrorMessages)
	return &c
}

// IgnoredChars returns the union of the three ignore sets.
func (q *SearchQuery) IgnoredChars() string {
	return q.IgnoredLengthChars + q.IgnoredStressChars + q.IgnoredToneChars
}
