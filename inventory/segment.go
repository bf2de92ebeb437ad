package inventory

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
	"golang.org/x/text/unicode/norm"
)

// Segmenter splits a transcription into phones.
type Segmenter interface {
	// Segment returns the phones of text in order. When boundaries is true
	// the result starts and ends with BoundaryMarker.
	Segment(text string, boundaries bool) []string
}

// PhoneticSegmenter segments text using an Inventory: every base character
// starts a phone, diacritics attach to the phone before them, tie bars join
// the next base character, and symbols the inventory defines across several
// base characters (e.g. "ts") are taken as a whole, longest first.
//
// PhoneticSegmenter is immutable and safe for concurrent use.
type PhoneticSegmenter struct {
	inv      *Inventory
	multi    map[string]struct{}
	maxRunes int

	// prefilter reports whether any multi-character symbol occurs in the
	// text at all. Most transcriptions have none, and then the per-position
	// longest-prefix probe is skipped entirely.
	prefilter *ahocorasick.Automaton
}

var _ Segmenter = (*PhoneticSegmenter)(nil)

// NewSegmenter builds a segmenter for inv.
func NewSegmenter(inv *Inventory) (*PhoneticSegmenter, error) {
	s := &PhoneticSegmenter{
		inv:   inv,
		multi: make(map[string]struct{}),
	}
	if inv == nil || len(inv.multi) == 0 {
		return s, nil
	}

	builder := ahocorasick.NewBuilder()
	for _, sym := range inv.multi {
		s.multi[sym] = struct{}{}
		if n := utf8.RuneCountInString(sym); n > s.maxRunes {
			s.maxRunes = n
		}
		builder.AddPattern([]byte(sym))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("inventory: building segmenter prefilter: %w", err)
	}
	s.prefilter = auto
	return s, nil
}

// Segment implements Segmenter.
func (s *PhoneticSegmenter) Segment(text string, boundaries bool) []string {
	text = norm.NFD.String(text)
	runes := []rune(text)
	phones := make([]string, 0, len(runes)+2)
	if boundaries {
		phones = append(phones, BoundaryMarker)
	}

	useMulti := s.prefilter != nil && s.prefilter.IsMatch([]byte(text))

	cur := make([]rune, 0, 8)
	flush := func() {
		if len(cur) > 0 {
			phones = append(phones, string(cur))
			cur = cur[:0]
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			flush()
			i++
		case r == TieBarAbove || r == TieBarBelow:
			cur = append(cur, r)
			i++
			if i < len(runes) {
				cur = append(cur, runes[i])
				i++
			}
		case len(cur) > 0 && s.inv.IsDiacritic(r):
			cur = append(cur, r)
			i++
		default:
			flush()
			n := 1
			if useMulti {
				n = s.longestSymbol(runes[i:])
			}
			cur = append(cur, runes[i:i+n]...)
			i += n
		}
	}
	flush()

	if boundaries {
		phones = append(phones, BoundaryMarker)
	}
	return phones
}

// longestSymbol returns the rune length of the longest multi-character
// symbol that prefixes rs, or 1.
func (s *PhoneticSegmenter) longestSymbol(rs []rune) int {
	limit := s.maxRunes
	if limit > len(rs) {
		limit = len(rs)
	}
	for n := limit; n > 1; n-- {
		if _, ok := s.multi[string(rs[:n])]; ok {
			return n
		}
	}
	return 1
}
