package inventory

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxBinaryFeatures is the number of binary features that fit a uint64 mask
// with one plus bit and one minus bit each.
const MaxBinaryFeatures = 32

// MaxFeaturesPerGroup is the number of articulatory features one mask group
// can hold.
const MaxFeaturesPerGroup = 64

// Builder assembles an Inventory. Features must be declared before the
// phones that use them.
//
// Example:
//
//	inv, err := inventory.NewBuilder().
//		BinaryFeature("high").
//		ArticulatoryFeature("place", "dental").
//		Phone("t", inventory.Consonant, "dental", "-high").
//		Build()
type Builder struct {
	inv  *Inventory
	errs []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		inv: &Inventory{
			phones:       make(map[string]*PhoneEntry),
			binary:       make(map[string]BinaryFeature),
			articulatory: make(map[string]ArticulatoryFeature),
			chars:        make(map[rune]struct{}),
			diacritics:   make(map[rune]struct{}),
			standalone:   make(map[rune]struct{}),
		},
	}
}

// BinaryFeature declares a binary feature. Each feature takes two adjacent
// bits of the binary mask.
func (b *Builder) BinaryFeature(name string) *Builder {
	key := strings.ToLower(name)
	if _, dup := b.inv.binary[key]; dup {
		b.errs = append(b.errs, fmt.Errorf("inventory: duplicate binary feature %q", name))
		return b
	}
	n := len(b.inv.binary)
	if n >= MaxBinaryFeatures {
		b.errs = append(b.errs, fmt.Errorf("inventory: more than %d binary features", MaxBinaryFeatures))
		return b
	}
	b.inv.binary[key] = BinaryFeature{
		Name:      key,
		PlusMask:  1 << (2 * n),
		MinusMask: 1 << (2*n + 1),
	}
	return b
}

// ArticulatoryFeature declares name as the next feature of mask group group.
// Groups are numbered in order of first declaration.
func (b *Builder) ArticulatoryFeature(group, name string) *Builder {
	key := strings.ToLower(name)
	if _, dup := b.inv.articulatory[key]; dup {
		b.errs = append(b.errs, fmt.Errorf("inventory: duplicate articulatory feature %q", name))
		return b
	}
	num := -1
	for i, g := range b.inv.groups {
		if g == group {
			num = i
			break
		}
	}
	if num < 0 {
		num = len(b.inv.groups)
		b.inv.groups = append(b.inv.groups, group)
	}
	bit := 0
	for _, f := range b.inv.articulatory {
		if f.MaskNumber == num {
			bit++
		}
	}
	if bit >= MaxFeaturesPerGroup {
		b.errs = append(b.errs, fmt.Errorf("inventory: mask group %q holds more than %d features", group, MaxFeaturesPerGroup))
		return b
	}
	b.inv.articulatory[key] = ArticulatoryFeature{
		Name:       key,
		Mask:       1 << bit,
		MaskNumber: num,
	}
	return b
}

// Diacritics marks every rune of chars as a diacritic in addition to the
// Unicode-category rule.
func (b *Builder) Diacritics(chars string) *Builder {
	for _, r := range chars {
		b.inv.diacritics[r] = struct{}{}
	}
	return b
}

// Phone adds a phone. Features prefixed with '+' or '-' are binary, all
// others articulatory.
func (b *Builder) Phone(symbol string, ct CharType, features ...string) *Builder {
	key := norm.NFD.String(symbol)
	if key == "" {
		b.errs = append(b.errs, fmt.Errorf("inventory: empty phone symbol"))
		return b
	}
	entry := &PhoneEntry{Symbol: key, CharType: ct}
	for _, f := range features {
		if f == "" {
			continue
		}
		switch f[0] {
		case '+', '-':
			bf, ok := b.inv.binary[strings.ToLower(f[1:])]
			if !ok {
				b.errs = append(b.errs, fmt.Errorf("inventory: phone %q: unknown binary feature %q", symbol, f[1:]))
				continue
			}
			entry.BinaryMask |= bf.Mask(f[0])
		default:
			af, ok := b.inv.articulatory[strings.ToLower(f)]
			if !ok {
				b.errs = append(b.errs, fmt.Errorf("inventory: phone %q: unknown articulatory feature %q", symbol, f))
				continue
			}
			for len(entry.Masks) <= af.MaskNumber {
				entry.Masks = append(entry.Masks, 0)
			}
			entry.Masks[af.MaskNumber] |= af.Mask
		}
	}
	b.inv.phones[key] = entry
	if symbol != key {
		b.inv.phones[symbol] = entry
	}
	for _, r := range key {
		b.inv.chars[r] = struct{}{}
	}
	if utf8.RuneCountInString(key) == 1 && ct != Diacritic {
		r, _ := utf8.DecodeRuneInString(key)
		b.inv.standalone[r] = struct{}{}
	}
	if ct == Diacritic {
		for _, r := range key {
			b.inv.diacritics[r] = struct{}{}
		}
	}
	return b
}

// Build validates the accumulated tables and returns the Inventory.
func (b *Builder) Build() (*Inventory, error) {
	if b.inv == nil {
		return nil, fmt.Errorf("inventory: builder already used")
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	inv := b.inv
	for key := range inv.phones {
		if inv.baseRunes(key) > 1 {
			inv.multi = append(inv.multi, key)
		}
	}
	sort.Slice(inv.multi, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(inv.multi[i]), utf8.RuneCountInString(inv.multi[j])
		if li != lj {
			return li > lj
		}
		return inv.multi[i] < inv.multi[j]
	})
	seg, err := NewSegmenter(inv)
	if err != nil {
		return nil, err
	}
	inv.segmenter = seg
	b.inv = nil
	return inv, nil
}

// baseRunes counts the runes of s that start a phone on their own.
func (inv *Inventory) baseRunes(s string) int {
	n := 0
	for _, r := range s {
		if r == TieBarAbove || r == TieBarBelow || inv.IsDiacritic(r) {
			continue
		}
		n++
	}
	return n
}
