package inventory

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// table is the YAML shape of an inventory.
type table struct {
	Diacritics   string       `yaml:"diacritics"`
	Binary       []string     `yaml:"binary"`
	Articulatory []groupTable `yaml:"articulatory"`
	Phones       []phoneTable `yaml:"phones"`
}

type groupTable struct {
	Group    string   `yaml:"group"`
	Features []string `yaml:"features"`
}

type phoneTable struct {
	Symbol   string   `yaml:"symbol"`
	Type     string   `yaml:"type"`
	Features []string `yaml:"features"`
	Binary   []string `yaml:"binary"`
}

// Decode builds an Inventory from a YAML table:
//
//	diacritics: "ʰʷ"
//	binary: [con, high]
//	articulatory:
//	  - group: place
//	    features: [bilabial, dental]
//	phones:
//	  - {symbol: t, type: consonant, features: [dental], binary: [+con, -high]}
//
// Binary feature values must carry a '+' or '-' sign.
func Decode(data []byte) (*Inventory, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("inventory: decoding table: %w", err)
	}

	b := NewBuilder().Diacritics(t.Diacritics)
	for _, name := range t.Binary {
		b.BinaryFeature(name)
	}
	for _, g := range t.Articulatory {
		if g.Group == "" {
			return nil, fmt.Errorf("inventory: articulatory group without a name")
		}
		for _, name := range g.Features {
			b.ArticulatoryFeature(g.Group, name)
		}
	}
	for i, p := range t.Phones {
		if p.Symbol == "" {
			return nil, fmt.Errorf("inventory: phone %d has no symbol", i)
		}
		ct, err := ParseCharType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("inventory: phone %q: %w", p.Symbol, err)
		}
		features := make([]string, 0, len(p.Features)+len(p.Binary))
		features = append(features, p.Features...)
		for _, v := range p.Binary {
			if v == "" || (v[0] != '+' && v[0] != '-') {
				return nil, fmt.Errorf("inventory: phone %q: binary value %q needs a sign", p.Symbol, v)
			}
			features = append(features, v)
		}
		b.Phone(p.Symbol, ct, features...)
	}
	return b.Build()
}

var (
	defaultOnce sync.Once
	defaultInv  *Inventory
)

// Default returns the shared inventory decoded from the embedded IPA table.
// It panics if the embedded table is invalid.
func Default() *Inventory {
	defaultOnce.Do(func() {
		inv, err := Decode(defaultTable)
		if err != nil {
			panic("inventory: embedded default table: " + err.Error())
		}
		defaultInv = inv
	})
	return defaultInv
}
