package phonsearch_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/coregx/phonsearch"
	"github.com/coregx/phonsearch/inventory"
	"github.com/coregx/phonsearch/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(text string) []string {
	return inventory.Default().Segmenter().Segment(text, false)
}

// mockInventory has phones c, c2, ... where the digits 2-9 are diacritics.
func mockInventory(t testing.TB) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewBuilder().
		BinaryFeature("con").
		Diacritics("23456789").
		Phone("a", inventory.Vowel, "-con").
		Phone("c", inventory.Consonant, "+con").
		Build()
	require.NoError(t, err)
	return inv
}

func TestSearchGroupOr(t *testing.T) {
	g, err := phonsearch.ParseGroup("{a,b,c,e}", phonsearch.EnvItem, nil, phonsearch.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, syntax.Or, g.Kind())
	assert.Equal(t, phonsearch.EnvItem, g.Env())

	word := segment("badlerdash")
	m, ok := g.Search(word, 2)
	require.True(t, ok)
	assert.Equal(t, phonsearch.MatchInfo{Start: 4, Length: 1}, m)

	m, ok = g.Search(word, 5)
	require.True(t, ok)
	assert.Equal(t, 7, m.Start)
}

func TestSearchGroupEnvironments(t *testing.T) {
	cfg := phonsearch.DefaultConfig()
	word := segment("balderdash")

	star, err := phonsearch.ParseGroup("*", phonsearch.EnvBefore, nil, cfg)
	require.NoError(t, err)
	for _, pos := range []int{-1, 0, 5} {
		_, ok := star.Search(word, pos)
		assert.True(t, ok, "* at %d", pos)
	}

	before, err := phonsearch.ParseGroup("#{d,b}", phonsearch.EnvBefore, nil, cfg)
	require.NoError(t, err)
	m, ok := before.Search(word, 0)
	require.True(t, ok)
	assert.Equal(t, phonsearch.MatchInfo{Start: 0, Length: 1}, m)
	_, ok = before.Search(word, 5)
	assert.False(t, ok)

	after, err := phonsearch.ParseGroup("{h,d}#", phonsearch.EnvAfter, nil, cfg)
	require.NoError(t, err)
	for pos := range word {
		_, ok := after.Search(word, pos)
		assert.Equal(t, pos == len(word)-1, ok, "after at %d", pos)
	}
}

func TestIgnoredToneOverride(t *testing.T) {
	q := &phonsearch.SearchQuery{Pattern: "b.c/*_*", IgnoredToneChars: "."}
	engine, err := phonsearch.Compile(q, phonsearch.DefaultConfig())
	require.NoError(t, err)

	_, ok := engine.SearchWord(segment("abcdef"), 0)
	assert.False(t, ok)

	m, ok := engine.SearchWord(segment("ab.cdef"), 0)
	require.True(t, ok)
	assert.Equal(t, phonsearch.MatchInfo{Start: 1, Length: 3}, m)

	g, err := phonsearch.ParseGroup("aa", phonsearch.EnvItem, q, phonsearch.DefaultConfig())
	require.NoError(t, err)
	m, ok = g.Search(segment("xa.ax"), 0)
	require.True(t, ok)
	assert.Equal(t, phonsearch.MatchInfo{Start: 1, Length: 3}, m)
}

func TestDiacriticQuantifiers(t *testing.T) {
	cfg := phonsearch.DefaultConfig()
	cfg.Inventory = mockInventory(t)

	tests := []struct {
		pattern string
		phone   string
		want    bool
	}{
		{"[[C][○*]]", "c", true},
		{"[[C][○*]]", "c234", true},
		{"[[C][○+]]", "c", false},
		{"[[C][○+]]", "c2", true},
		{"[[C][○23*56]]", "c2356", true},
		{"[[C][○23*56]]", "c23456", true},
		{"[[C][○23*56]]", "c2345", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.phone, func(t *testing.T) {
			engine, err := phonsearch.Compile(&phonsearch.SearchQuery{Pattern: tt.pattern}, cfg)
			require.NoError(t, err)
			_, ok := engine.SearchWord([]string{tt.phone}, 0)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestContinuation(t *testing.T) {
	engine := phonsearch.MustCompile("[V]")
	assert.Equal(t, phonsearch.StateIdle, engine.State())

	_, ok := engine.SearchNext()
	assert.False(t, ok, "no scan is active")

	word := segment("balderdash")
	var starts []int
	for m, ok := engine.SearchWord(word, 0); ok; m, ok = engine.SearchNext() {
		assert.Equal(t, phonsearch.StateScanning, engine.State())
		starts = append(starts, m.Start)
	}
	assert.Equal(t, []int{1, 4, 7}, starts)
	assert.Equal(t, phonsearch.StateIdle, engine.State())

	_, ok = engine.SearchNext()
	assert.False(t, ok, "the sequence is finite")

	m, ok := engine.SearchWord(word, 5)
	require.True(t, ok)
	assert.Equal(t, 7, m.Start, "restart from an index")
	assert.Equal(t, word, engine.Phones())

	engine.Reset()
	assert.Equal(t, phonsearch.StateIdle, engine.State())
	assert.Nil(t, engine.Phones())
	_, ok = engine.SearchNext()
	assert.False(t, ok)

	assert.Equal(t, []phonsearch.MatchInfo{{Start: 1, Length: 1}, {Start: 4, Length: 1}, {Start: 7, Length: 1}}, engine.Pattern().FindAll(word))
}

func TestSearchText(t *testing.T) {
	engine := phonsearch.MustCompile("#ba")
	m, ok := engine.SearchText("bab")
	require.True(t, ok)
	assert.Equal(t, phonsearch.MatchInfo{Start: 1, Length: 2}, m)
	assert.Equal(t, []string{" ", "b", "a", "b", " "}, engine.Phones())

	_, ok = engine.SearchNext()
	assert.False(t, ok)

	engine = phonsearch.MustCompile("a/_#")
	m, ok = engine.SearchText("abba")
	require.True(t, ok)
	assert.Equal(t, 4, m.Start)
}

func TestIdempotentParse(t *testing.T) {
	patterns := []string{
		"[V]/#[C]_{d,s}",
		"{a,e}/*_[+con]",
		"d/_a",
		"[C]/[V]_+",
	}
	words := []string{"balderdash", "badlerdash", "abba", "stressed", "dead"}
	for _, p := range patterns {
		e1 := phonsearch.MustCompile(p)
		e2 := phonsearch.MustCompile(p)
		for _, w := range words {
			phones := segment(w)
			assert.Equal(t, e1.Pattern().FindAll(phones), e2.Pattern().FindAll(phones), "%s on %s", p, w)
		}
	}
}

func TestQueryIsCloned(t *testing.T) {
	q := &phonsearch.SearchQuery{Pattern: "a", IgnoredToneChars: "."}
	engine, err := phonsearch.Compile(q, phonsearch.DefaultConfig())
	require.NoError(t, err)

	q.Pattern = "b"
	q.IgnoredToneChars = ""
	assert.Equal(t, "a", engine.Query().Pattern)
	assert.Equal(t, ".", engine.Query().IgnoredToneChars)

	m, ok := engine.SearchWord(segment("ba"), 0)
	require.True(t, ok)
	assert.Equal(t, 1, m.Start)

	clone := engine.Query()
	clone.ErrorMessages = append(clone.ErrorMessages, "x")
	assert.Empty(t, engine.Query().ErrorMessages)
}

func TestParseFailure(t *testing.T) {
	q := &phonsearch.SearchQuery{Pattern: "[a", ErrorMessages: []string{"earlier"}}
	_, err := phonsearch.Compile(q, phonsearch.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, syntax.ErrMismatchedBrackets))
	assert.Equal(t, []string{"earlier", "item: mismatched brackets at offset 0"}, q.ErrorMessages)

	engine := phonsearch.New(&phonsearch.SearchQuery{Pattern: "[a"}, phonsearch.DefaultConfig())
	assert.Equal(t, phonsearch.StateParseFailed, engine.State())
	require.Error(t, engine.Err())
	_, ok := engine.SearchWord(segment("a"), 0)
	assert.False(t, ok)
	_, ok = engine.SearchText("a")
	assert.False(t, ok)
	engine.Reset()
	assert.Equal(t, phonsearch.StateParseFailed, engine.State())

	assert.Len(t, engine.Query().ErrorMessages, 1)
	assert.Panics(t, func() { phonsearch.MustCompile("[a") })
}

func TestEnvironmentFailureMakesEngineUnusable(t *testing.T) {
	engine := phonsearch.New(&phonsearch.SearchQuery{Pattern: "a/b*_"}, phonsearch.DefaultConfig())
	assert.Equal(t, phonsearch.StateParseFailed, engine.State())
	assert.True(t, errors.Is(engine.Err(), syntax.ErrMisplacedWildcard))
	_, ok := engine.SearchWord(segment("ba"), 0)
	assert.False(t, ok)
}

func TestPlacementReporters(t *testing.T) {
	tests := []struct {
		pattern                     string
		inItem, misplaced, multiple bool
	}{
		{"a/*_", false, false, false},
		{"a*", true, false, false},
		{"a/b*_", false, true, false},
		{"a/*b*_", false, true, true},
		{"a/_*b+", false, true, true},
		{"a+/_b**", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			engine := phonsearch.New(&phonsearch.SearchQuery{Pattern: tt.pattern}, phonsearch.DefaultConfig())
			assert.Equal(t, tt.inItem, engine.WildcardInItem(), "WildcardInItem")
			assert.Equal(t, tt.misplaced, engine.MisplacedWildcard(), "MisplacedWildcard")
			assert.Equal(t, tt.multiple, engine.MultipleWildcards(), "MultipleWildcards")
		})
	}
}

func TestDiagnostics(t *testing.T) {
	engine := phonsearch.MustCompile("ta{d,n}/s_it")
	assert.Equal(t, []string{"t", "a", "d", "n", "s", "i"}, engine.PhonesInPattern())
	assert.Empty(t, engine.InvalidCharactersInPattern())
	assert.Empty(t, engine.UnknownFeaturesInPattern())

	engine = phonsearch.MustCompile("tQ9Q")
	assert.Equal(t, []rune{'Q', '9'}, engine.InvalidCharactersInPattern())

	engine = phonsearch.MustCompile("[+nasal][+foo][bar][dental][-foo]")
	assert.Equal(t, []string{"[+foo]", "[bar]", "[-foo]"}, engine.UnknownFeaturesInPattern())
	_, ok := engine.SearchWord(segment("mfoð"), 0)
	assert.False(t, ok, "unknown features never match")
}

func TestRequiredPhones(t *testing.T) {
	tests := []struct {
		query phonsearch.SearchQuery
		want  []string
	}{
		{phonsearch.SearchQuery{Pattern: "ta{d,n}/s_i"}, []string{"t", "a", "s", "i"}},
		{phonsearch.SearchQuery{Pattern: "[V]"}, nil},
		{phonsearch.SearchQuery{Pattern: "[C◌ʰ]a"}, []string{"a"}},
		{phonsearch.SearchQuery{Pattern: "[[C]{t}]"}, nil},
		{phonsearch.SearchQuery{Pattern: "ta", IgnoredToneChars: "˥"}, nil},
		{phonsearch.SearchQuery{Pattern: "ta", IgnoreDiacritics: true}, nil},
		{phonsearch.SearchQuery{Pattern: "[a"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query.Pattern, func(t *testing.T) {
			engine := phonsearch.New(&tt.query, phonsearch.DefaultConfig())
			assert.Equal(t, tt.want, engine.Pattern().RequiredPhones())
		})
	}
}

func TestIgnoreUndefinedConfig(t *testing.T) {
	word := segment("a?b")

	engine := phonsearch.MustCompile("ab")
	_, ok := engine.SearchWord(word, 0)
	assert.False(t, ok)

	cfg := phonsearch.DefaultConfig()
	cfg.IgnoreUndefined = true
	engine, err := phonsearch.Compile(&phonsearch.SearchQuery{Pattern: "ab"}, cfg)
	require.NoError(t, err)
	m, ok := engine.SearchWord(word, 0)
	require.True(t, ok)
	assert.Equal(t, phonsearch.MatchInfo{Start: 0, Length: 3}, m)
}

func TestMaxWordLength(t *testing.T) {
	cfg := phonsearch.DefaultConfig()
	cfg.MaxWordLength = 3
	engine, err := phonsearch.Compile(&phonsearch.SearchQuery{Pattern: "a"}, cfg)
	require.NoError(t, err)

	_, ok := engine.SearchWord(segment("ba"), 0)
	assert.True(t, ok)
	_, ok = engine.SearchWord(segment("bbbba"), 0)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	engine := phonsearch.MustCompile("a/b_")
	p := engine.Pattern()
	p.FindAll(segment("abab"))

	s := p.Stats()
	assert.Equal(t, uint64(2), s.Searches)
	assert.Equal(t, uint64(1), s.Matches)
	assert.Equal(t, uint64(1), s.EnvironmentRejects)
	assert.Equal(t, uint64(4), s.Candidates)

	p.ResetStats()
	assert.Equal(t, phonsearch.Stats{}, p.Stats())
}

func TestPatternConcurrentUse(t *testing.T) {
	p := phonsearch.MustCompile("[V]/[C]_").Pattern()
	word := segment("balderdash")
	want := p.FindAll(word)
	require.Len(t, want, 3)

	var wg sync.WaitGroup
	results := make([][]phonsearch.MatchInfo, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range 50 {
				results[i] = p.FindAll(word)
			}
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
