package suggest

import (
	"testing"

	"github.com/bastiangx/typr/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func info(p int) dictionary.ProbabilityInfo {
	return dictionary.NewProbabilityInfo(p, dictionary.NotAValidTimestamp, 0, 0)
}

func words(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Word
	}
	return out
}

func newTestCompleter(t *testing.T) *Completer {
	t.Helper()
	store := dictionary.NewStore()
	store.Add(dictionary.NewWordProperty("hello", dictionary.Flags{}, info(120),
		[]dictionary.Bigram{
			dictionary.NewBigram("world", info(80)),
			dictionary.NewBigram("there", info(95)),
			dictionary.NewBigram("kitty", info(10)),
		},
		[]dictionary.WeightedString{{Word: "hi", Weight: 15}},
	))
	store.Add(dictionary.NewWordProperty("help", dictionary.Flags{}, info(200), nil, nil))
	store.Add(dictionary.NewWordProperty("helium", dictionary.Flags{}, info(50), nil, nil))
	store.Add(dictionary.NewWordProperty("helix", dictionary.Flags{}, info(50), nil, nil))
	store.Add(dictionary.NewWordProperty("hell", dictionary.Flags{Blacklisted: true}, info(250), nil, nil))
	store.Add(dictionary.NewWordProperty("helo", dictionary.Flags{NotAWord: true}, info(240), nil, nil))
	store.Add(dictionary.NewWordProperty("helm", dictionary.Flags{}, dictionary.NewProbabilityInfo(dictionary.NotAProbability, dictionary.NotAValidTimestamp, 0, 0), nil, nil))
	store.Add(dictionary.NewWordProperty("hèlas", dictionary.Flags{}, info(5), nil, nil))
	return NewCompleter(store)
}

func TestCompleteRanking(t *testing.T) {
	c := newTestCompleter(t)

	testCases := []struct {
		prefix      string
		limit       int
		expected    []string
		description string
	}{
		{"hel", 0, []string{"help", "hello", "helium", "helix"}, "probability then word"},
		{"hel", 2, []string{"help", "hello"}, "limit applied"},
		{"Hel", 3, []string{"Help", "Hello", "Helium"}, "capitalization re-applied"},
		{"HEL", 1, []string{"HELp"}, "only typed positions"},
		{"hello", 0, []string{"hi"}, "shortcut of exact match, input itself skipped"},
		{"hè", 0, []string{"hèlas"}, "non-ascii prefix"},
		{"xyz", 0, nil, "no match"},
		{"", 5, nil, "empty prefix"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			result := c.Complete(tc.prefix, tc.limit)
			if tc.expected == nil {
				assert.Empty(t, result)
				return
			}
			assert.Equal(t, tc.expected, words(result))
		})
	}
}

func TestCompleteShortcutsFirst(t *testing.T) {
	c := newTestCompleter(t)
	c.Store().Add(dictionary.NewWordProperty("hellos", dictionary.Flags{}, info(60), nil, nil))

	result := c.Complete("hello", 5)
	require.Len(t, result, 2)
	assert.Equal(t, Suggestion{Word: "hi", Frequency: 15, Shortcut: true}, result[0])
	assert.Equal(t, Suggestion{Word: "hellos", Frequency: 60}, result[1])
}

func TestCompleteMinProbability(t *testing.T) {
	c := newTestCompleter(t)
	assert.Len(t, c.Complete("hel", 0), 4)

	c.SetMinProbability(100)
	assert.Equal(t, []string{"help", "hello"}, words(c.Complete("hel", 0)))
}

func TestCompleteCacheInvalidation(t *testing.T) {
	c := newTestCompleter(t)
	first := c.Complete("hel", 1)
	require.Equal(t, []string{"help"}, words(first))

	c.Store().Add(dictionary.NewWordProperty("helpful", dictionary.Flags{}, info(255), nil, nil))
	// stale until invalidated
	assert.Equal(t, []string{"help"}, words(c.Complete("hel", 1)))

	c.Invalidate()
	assert.Equal(t, []string{"helpful"}, words(c.Complete("hel", 1)))
	assert.Positive(t, c.Stats()["hotCacheHits"])
}

func TestNextWords(t *testing.T) {
	c := newTestCompleter(t)

	// order is the dictionary's, not re-ranked
	assert.Equal(t, []string{"world", "there", "kitty"}, words(c.NextWords("hello", 0)))
	assert.Equal(t, []string{"world", "there"}, words(c.NextWords("hello", 2)))
	assert.Equal(t, []string{"world"}, words(c.NextWords("Hello", 1)))
	assert.Empty(t, c.NextWords("help", 5))
	assert.Empty(t, c.NextWords("nothing", 5))

	next := c.NextWords("hello", 1)
	assert.Equal(t, 80, next[0].Frequency)
}

func TestWord(t *testing.T) {
	c := newTestCompleter(t)
	c.Store().Add(dictionary.NewWordProperty("HELP", dictionary.Flags{}, info(30), nil, nil))

	wp, ok := c.Word("HELP")
	require.True(t, ok)
	assert.Equal(t, "HELP", wp.Word())

	wp, ok = c.Word("Help")
	require.True(t, ok)
	assert.True(t, wp.Suggestable())

	_, ok = c.Word("Hell")
	assert.False(t, ok, "blacklisted entry is not a case fallback")

	wp, ok = c.Word("hell")
	require.True(t, ok, "exact match is returned as is")
	assert.True(t, wp.IsBlacklisted())
}

func TestStats(t *testing.T) {
	c := newTestCompleter(t)
	stats := c.Stats()
	assert.Equal(t, 8, stats["totalWords"])
	assert.Equal(t, 1, stats["invalidEntries"])
	assert.Equal(t, 250, stats["maxProbability"])
	assert.Equal(t, defaultCacheSize, stats["maxHotPrefixes"])
}

func TestApplyCapitalization(t *testing.T) {
	assert.Equal(t, "Élan", ApplyCapitalization("élan", CapitalPositions("Él")))
	assert.Equal(t, "word", ApplyCapitalization("word", CapitalPositions("wo")))
	assert.Equal(t, "WOrd", ApplyCapitalization("word", CapitalPositions("WOR")[:2]))
	assert.Nil(t, CapitalPositions("lower"))
	assert.Equal(t, []bool{true, false}, CapitalPositions("Ab"))
}

func TestHotCacheEviction(t *testing.T) {
	hc := NewHotCache(2)
	hc.Put("a", []Suggestion{{Word: "a"}})
	hc.Put("b", []Suggestion{{Word: "b"}})
	_, ok := hc.Get("a")
	require.True(t, ok)

	hc.Put("c", []Suggestion{{Word: "c"}})
	_, ok = hc.Get("b")
	assert.False(t, ok, "least recently used prefix evicted")
	_, ok = hc.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, hc.Stats()["hotCachePrefixes"])

	hc.Clear()
	assert.Zero(t, hc.Stats()["hotCachePrefixes"])
}
