package inventory

import (
	"fmt"
	"strings"
)

// CharType classifies a phone or a single IPA character.
type CharType uint8

const (
	// Unknown is the zero value for phones missing from the inventory.
	Unknown CharType = iota

	// Consonant phones match the [C] shorthand.
	Consonant

	// Vowel phones match the [V] shorthand.
	Vowel

	// Suprasegmental covers stress marks and tone letters.
	Suprasegmental

	// Diacritic characters attach to the preceding base character.
	Diacritic

	// Breaking covers syllable and word break symbols.
	Breaking
)

// String returns the lower-case name used in inventory tables.
func (t CharType) String() string {
	switch t {
	case Unknown:
		return "unknown"
	case Consonant:
		return "consonant"
	case Vowel:
		return "vowel"
	case Suprasegmental:
		return "suprasegmental"
	case Diacritic:
		return "diacritic"
	case Breaking:
		return "breaking"
	default:
		return fmt.Sprintf("CharType(%d)", t)
	}
}

// ParseCharType is the inverse of CharType.String. It is case-insensitive.
func ParseCharType(s string) (CharType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "consonant":
		return Consonant, nil
	case "vowel":
		return Vowel, nil
	case "suprasegmental":
		return Suprasegmental, nil
	case "diacritic":
		return Diacritic, nil
	case "breaking":
		return Breaking, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("inventory: unknown character type %q", s)
	}
}
