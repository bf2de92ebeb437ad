package match

import (
	"testing"

	"github.com/coregx/phonsearch/inventory"
	"github.com/coregx/phonsearch/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testInventory defines the letters used below. Digits 2-9 are diacritics,
// so "c234" is one phone with base c.
func testInventory(t testing.TB) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewBuilder().
		BinaryFeature("high").
		BinaryFeature("con").
		ArticulatoryFeature("place", "dental").
		ArticulatoryFeature("place", "labial").
		Diacritics("23456789").
		Phone("a", inventory.Vowel, "-high", "-con").
		Phone("e", inventory.Vowel, "-high", "-con").
		Phone("i", inventory.Vowel, "+high", "-con").
		Phone("b", inventory.Consonant, "labial", "+con").
		Phone("c", inventory.Consonant, "+con").
		Phone("d", inventory.Consonant, "dental", "+con").
		Phone("f", inventory.Consonant, "labial", "+con").
		Phone("h", inventory.Consonant, "+con").
		Phone("l", inventory.Consonant, "dental", "+con").
		Phone("r", inventory.Consonant, "dental", "+con").
		Phone("s", inventory.Consonant, "dental", "+con").
		Phone("t", inventory.Consonant, "dental", "+con").
		Phone("x", inventory.Consonant, "+con").
		Phone(".", inventory.Breaking).
		Build()
	require.NoError(t, err)
	return inv
}

func parse(t *testing.T, inv *inventory.Inventory, region string, env syntax.Env) *syntax.Group {
	t.Helper()
	g, err := syntax.Parse(region, env, syntax.Config{
		Segmenter:   inv.Segmenter(),
		IsDiacritic: inv.IsDiacritic,
	})
	require.NoError(t, err, "parse %q", region)
	return g
}

func phones(inv *inventory.Inventory, text string) []string {
	return inv.Segmenter().Segment(text, false)
}

func TestFindOr(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})
	g := parse(t, inv, "{a,b,c,e}", syntax.EnvItem)
	word := phones(inv, "badlerdash")

	tests := []struct {
		start int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 4},
		{5, 7},
		{8, -1},
	}
	for _, tt := range tests {
		idx, length, ok := m.Find(g, word, tt.start)
		if tt.want < 0 {
			assert.False(t, ok, "start %d", tt.start)
			continue
		}
		require.True(t, ok, "start %d", tt.start)
		assert.Equal(t, tt.want, idx, "start %d", tt.start)
		assert.Equal(t, 1, length)
	}
}

func TestBeforeWildcard(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})
	word := phones(inv, "balderdash")

	star := parse(t, inv, "*", syntax.EnvBefore)
	for _, pos := range []int{-1, 0, 4, 9} {
		_, ok := m.Match(star, word, pos)
		assert.True(t, ok, "* at %d", pos)
	}

	plus := parse(t, inv, "+a", syntax.EnvBefore)
	_, ok := m.Match(plus, word, 1)
	assert.True(t, ok, "b precedes a")
	_, ok = m.Match(plus, phones(inv, "ab"), 0)
	assert.False(t, ok, "nothing precedes a")
}

func TestAfterWildcardShortest(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})
	g := parse(t, inv, "a*", syntax.EnvAfter)

	next, ok := m.Match(g, phones(inv, "xabab"), 1)
	require.True(t, ok)
	assert.Equal(t, 2, next, "* takes nothing when the rest already matched")

	g = parse(t, inv, "a+", syntax.EnvAfter)
	next, ok = m.Match(g, phones(inv, "xabab"), 1)
	require.True(t, ok)
	assert.Equal(t, 3, next)
}

func TestWordBoundary(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})
	word := phones(inv, "balderdash")

	before := parse(t, inv, "#{d,b}", syntax.EnvBefore)
	_, ok := m.Match(before, word, 0)
	assert.True(t, ok)
	_, ok = m.Match(before, word, 5)
	assert.False(t, ok)
	_, ok = m.Match(before, word, 6)
	assert.False(t, ok, "d at 6 is not word-initial")

	after := parse(t, inv, "{h,d}#", syntax.EnvAfter)
	_, ok = m.Match(after, word, 9)
	assert.True(t, ok)
	_, ok = m.Match(after, word, 3)
	assert.False(t, ok)

	item := parse(t, inv, "#b", syntax.EnvItem)
	marked := inv.Segmenter().Segment("bab", true)
	idx, length, ok := m.Find(item, marked, 0)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "the leading marker is not matchable")
	assert.Equal(t, 1, length)
	_, _, ok = m.Find(item, marked, 2)
	assert.False(t, ok)
}

func TestIgnoredCharacters(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{Ignored: "."})

	item := parse(t, inv, "b.c", syntax.EnvItem)
	_, _, ok := m.Find(item, phones(inv, "abcdef"), 0)
	assert.False(t, ok, "a written . must be present")
	idx, length, ok := m.Find(item, phones(inv, "ab.cdef"), 0)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 3, length)

	aa := parse(t, inv, "aa", syntax.EnvItem)
	idx, length, ok = m.Find(aa, phones(inv, "xa.ax"), 0)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 3, length, "the skipped phone is part of the span")

	_, ok = m.MatchItem(aa, phones(inv, "x.aa"), 1)
	assert.False(t, ok, "an item may not start with a skipped phone")

	strict := New(inv, Options{})
	_, _, ok = strict.Find(aa, phones(inv, "xa.ax"), 0)
	assert.False(t, ok)
}

func TestIgnoreUndefined(t *testing.T) {
	inv := testInventory(t)
	g := parse(t, inv, "ab", syntax.EnvItem)
	word := phones(inv, "a?b")

	_, _, ok := New(inv, Options{}).Find(g, word, 0)
	assert.False(t, ok)

	idx, length, ok := New(inv, Options{IgnoreUndefined: true}).Find(g, word, 0)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 3, length)
}

func TestIgnoreDiacriticsLiteral(t *testing.T) {
	inv := testInventory(t)
	g := parse(t, inv, "ca", syntax.EnvItem)
	word := []string{"c23", "a"}

	_, _, ok := New(inv, Options{}).Find(g, word, 0)
	assert.False(t, ok)
	_, _, ok = New(inv, Options{IgnoreDiacritics: true}).Find(g, word, 0)
	assert.True(t, ok)

	_, _, ok = New(inv, Options{IgnoreDiacritics: true}).Find(g, []string{"c", "4", "a"}, 0)
	assert.True(t, ok, "diacritic-only phones are skipped")
}

func TestFeatureLeaves(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})

	tests := []struct {
		region string
		phone  string
		want   bool
	}{
		{"[C]", "t", true},
		{"[C]", "a", false},
		{"[V]", "a", true},
		{"[V]", "c234", false},
		{"[C]", "c234", true},
		{"[+high]", "i", true},
		{"[+high]", "a", false},
		{"[-high]", "a", true},
		{"[+high-con]", "i", true},
		{"[+high+con]", "i", false},
		{"[dental]", "t", true},
		{"[DENTAL]", "t", true},
		{"[dental]", "b", false},
		{"[labial]", "f", true},
		{"[nasal]", "t", false},
		{"[+nasal]", "t", false},
		{"[C]", "?", false},
	}
	for _, tt := range tests {
		t.Run(tt.region+"/"+tt.phone, func(t *testing.T) {
			g := parse(t, inv, tt.region, syntax.EnvItem)
			_, ok := m.MatchItem(g, []string{tt.phone}, 0)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDiacriticPlaceholder(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})
	mock := []string{"c", "c2", "c23", "c234", "c2345", "c2356", "c23456"}

	tests := []struct {
		region string
		match  []string
	}{
		{"[[C][○*]]", mock},
		{"[[C][○+]]", mock[1:]},
		{"[[C][○23*56]]", []string{"c2356", "c23456"}},
		{"[[C][○23]]", []string{"c23"}},
		{"[[C][○2*]]", mock[1:]},
		{"[[C][○*6]]", []string{"c2356", "c23456"}},
		{"[[C][○*4*]]", []string{"c234", "c2345", "c23456"}},
		{"[[C][○+4+]]", []string{"c234", "c2345", "c23456"}},
		{"[[C]◌]", []string{"c"}},
		{"c◌2*", mock[1:]},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			g := parse(t, inv, tt.region, syntax.EnvItem)
			for _, phone := range mock {
				want := false
				for _, p := range tt.match {
					if p == phone {
						want = true
					}
				}
				_, ok := m.MatchItem(g, []string{phone}, 0)
				assert.Equal(t, want, ok, "phone %q", phone)
			}
		})
	}
}

func TestPlaceholderSeparateDiacritics(t *testing.T) {
	inv := testInventory(t)
	m := New(inv, Options{})
	word := []string{"c", "2", "3", "a"}

	item := parse(t, inv, "c◌23", syntax.EnvItem)
	length, ok := m.MatchItem(item, word, 0)
	require.True(t, ok)
	assert.Equal(t, 3, length, "adjacent diacritic phones are consumed")

	before := parse(t, inv, "c◌23", syntax.EnvBefore)
	next, ok := m.Match(before, word, 2)
	require.True(t, ok)
	assert.Equal(t, -1, next)
}

func TestBounds(t *testing.T) {
	tests := []struct {
		phones []string
		lo, hi int
	}{
		{nil, 0, 0},
		{[]string{"a"}, 0, 1},
		{[]string{" ", "a", " "}, 1, 2},
		{[]string{" ", " "}, 1, 1},
		{[]string{"a", " "}, 0, 1},
	}
	for _, tt := range tests {
		lo, hi := Bounds(tt.phones)
		assert.Equal(t, tt.lo, lo, "%q", tt.phones)
		assert.Equal(t, tt.hi, hi, "%q", tt.phones)
	}
}
