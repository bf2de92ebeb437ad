// Package inventory holds the phone and feature tables the pattern matcher
// consults at runtime.
//
// An Inventory maps phone symbols to their character class, binary feature
// mask and articulatory mask vector, and maps feature names to the mask
// definitions patterns test against. It also answers the character-level
// questions the matcher needs: whether a rune is a diacritic, whether a phone
// is defined at all, and what the base and diacritic parts of a phone are.
//
// Inventories are immutable once built and safe for concurrent use. Build one
// with a Builder, decode one from YAML with Decode, or use the embedded
// Default inventory.
package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tie bars join two base characters into a single phone. They are combining
// marks but never count as diacritics.
const (
	TieBarAbove = '͡'
	TieBarBelow = '͜'
)

// BoundaryMarker is the phone a segmenter places at either edge of a word
// when boundary markers are requested.
const BoundaryMarker = " "

// PhoneEntry describes one phone of the inventory.
type PhoneEntry struct {
	Symbol   string
	CharType CharType

	// BinaryMask has the plus or minus bit of every binary feature the phone
	// carries set.
	BinaryMask uint64

	// Masks is indexed by articulatory mask group number.
	Masks []uint64
}

// Mask returns the articulatory mask for group n, or zero when the phone has
// no entry for that group.
func (p *PhoneEntry) Mask(n int) uint64 {
	if p == nil || n < 0 || n >= len(p.Masks) {
		return 0
	}
	return p.Masks[n]
}

// BinaryFeature is a feature with independent plus and minus values.
type BinaryFeature struct {
	Name      string
	PlusMask  uint64
	MinusMask uint64
}

// Mask returns the mask for the given sign ('+' or '-').
func (f BinaryFeature) Mask(sign byte) uint64 {
	if sign == '-' {
		return f.MinusMask
	}
	return f.PlusMask
}

// ArticulatoryFeature is a named bit inside one articulatory mask group.
type ArticulatoryFeature struct {
	Name       string
	Mask       uint64
	MaskNumber int
}

// Inventory is an immutable set of phone and feature tables.
type Inventory struct {
	phones       map[string]*PhoneEntry
	binary       map[string]BinaryFeature
	articulatory map[string]ArticulatoryFeature
	groups       []string

	// chars holds every rune appearing in a defined phone.
	chars map[rune]struct{}

	// diacritics extends the Unicode-category based diacritic test.
	diacritics map[rune]struct{}

	// standalone runes are defined as phones of their own and never attach
	// to a preceding base, even when their Unicode category says modifier.
	standalone map[rune]struct{}

	// multi lists symbols spanning more than one base rune, longest first.
	multi []string

	segmenter *PhoneticSegmenter
}

// Lookup returns the entry for phone. It tries the exact symbol, then the
// canonical decomposition, then the base with all diacritics removed.
func (inv *Inventory) Lookup(phone string) (*PhoneEntry, bool) {
	if inv == nil || phone == "" {
		return nil, false
	}
	if e, ok := inv.phones[phone]; ok {
		return e, true
	}
	nfd := norm.NFD.String(phone)
	if e, ok := inv.phones[nfd]; ok {
		return e, true
	}
	if base := inv.Base(nfd); base != "" && base != nfd {
		if e, ok := inv.phones[base]; ok {
			return e, true
		}
	}
	return nil, false
}

// CharType is a shorthand for the class of phone, Unknown when undefined.
func (inv *Inventory) CharType(phone string) CharType {
	if e, ok := inv.Lookup(phone); ok {
		return e.CharType
	}
	return Unknown
}

// BinaryFeature looks up a binary feature by name (case-insensitive).
func (inv *Inventory) BinaryFeature(name string) (BinaryFeature, bool) {
	if inv == nil {
		return BinaryFeature{}, false
	}
	f, ok := inv.binary[strings.ToLower(name)]
	return f, ok
}

// ArticulatoryFeature looks up an articulatory feature by name
// (case-insensitive).
func (inv *Inventory) ArticulatoryFeature(name string) (ArticulatoryFeature, bool) {
	if inv == nil {
		return ArticulatoryFeature{}, false
	}
	f, ok := inv.articulatory[strings.ToLower(name)]
	return f, ok
}

// Segmenter returns the segmenter built for this inventory.
func (inv *Inventory) Segmenter() *PhoneticSegmenter {
	return inv.segmenter
}

// MaskGroups returns the articulatory mask group names in mask-number order.
func (inv *Inventory) MaskGroups() []string {
	return append([]string(nil), inv.groups...)
}

// Phones returns the number of defined phones.
func (inv *Inventory) Phones() int {
	return len(inv.phones)
}

// IsDiacritic reports whether r attaches to a preceding base character.
// Nonspacing marks and modifier letters/symbols are diacritics unless the
// inventory defines them as phones of their own; tie bars never are.
func (inv *Inventory) IsDiacritic(r rune) bool {
	if r == TieBarAbove || r == TieBarBelow {
		return false
	}
	if inv != nil {
		if _, ok := inv.diacritics[r]; ok {
			return true
		}
		if _, ok := inv.standalone[r]; ok {
			return false
		}
	}
	return unicode.In(r, unicode.Mn, unicode.Lm, unicode.Sk)
}

// IsDiacriticOnly reports whether every rune of s is a diacritic.
func (inv *Inventory) IsDiacriticOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !inv.IsDiacritic(r) {
			return false
		}
	}
	return true
}

// IsDefinedChar reports whether r appears in any defined phone or is a
// diacritic.
func (inv *Inventory) IsDefinedChar(r rune) bool {
	if inv == nil {
		return false
	}
	if _, ok := inv.chars[r]; ok {
		return true
	}
	return r == TieBarAbove || r == TieBarBelow || inv.IsDiacritic(r)
}

// IsUndefined reports whether phone is neither a defined phone nor composed
// solely of defined characters.
func (inv *Inventory) IsUndefined(phone string) bool {
	if phone == "" || phone == BoundaryMarker {
		return false
	}
	if _, ok := inv.Lookup(phone); ok {
		return false
	}
	for _, r := range norm.NFD.String(phone) {
		if !inv.IsDefinedChar(r) {
			return true
		}
	}
	return false
}

// Base returns phone in canonical decomposition with all diacritics removed.
func (inv *Inventory) Base(phone string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(phone) {
		if !inv.IsDiacritic(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Diacritics returns the diacritics of phone in text order, excluding any
// diacritic that precedes the first base character.
func (inv *Inventory) Diacritics(phone string) string {
	var b strings.Builder
	seenBase := false
	for _, r := range norm.NFD.String(phone) {
		if inv.IsDiacritic(r) {
			if seenBase {
				b.WriteRune(r)
			}
			continue
		}
		seenBase = true
	}
	return b.String()
}
