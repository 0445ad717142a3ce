package suggest

import (
	"sort"
	"strings"

	"github.com/bastiangx/typr/internal/utils"
	"github.com/bastiangx/typr/pkg/dictionary"
	"github.com/charmbracelet/log"
)

const defaultCacheSize = 2048

var _ ICompleter = (*Completer)(nil)

type Suggestion struct {
	Word      string
	Frequency int
	Shortcut  bool `json:",omitempty"`
}

// Completer answers prefix and next-word queries over a dictionary.Store.
type Completer struct {
	store          *dictionary.Store
	hotCache       *HotCache
	minProbability int
}

func NewCompleter(store *dictionary.Store) *Completer {
	return &Completer{
		store:    store,
		hotCache: NewHotCache(defaultCacheSize),
	}
}

// SetMinProbability drops candidates below p. Cached results are flushed.
func (c *Completer) SetMinProbability(p int) {
	if p == c.minProbability {
		return
	}
	c.minProbability = p
	c.hotCache.Clear()
}

// Store returns the dictionary the completer reads from.
func (c *Completer) Store() *dictionary.Store {
	return c.store
}

// Invalidate drops cached results, e.g. after the store was reloaded.
func (c *Completer) Invalidate() {
	c.hotCache.Clear()
}

func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	if prefix == "" {
		return nil
	}
	lowerPrefix := strings.ToLower(prefix)
	capitalPositions := CapitalPositions(prefix)

	ranked, ok := c.hotCache.Get(lowerPrefix)
	if !ok {
		ranked = c.rank(lowerPrefix)
		c.hotCache.Put(lowerPrefix, ranked)
	}

	filter := utils.NewSuggestionFilter(prefix)
	var out []Suggestion
	for _, s := range ranked {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !filter.ShouldInclude(s.Word) {
			continue
		}
		s.Word = ApplyCapitalization(s.Word, capitalPositions)
		out = append(out, s)
	}
	return out
}

// rank collects candidates for an already lowercased prefix: shortcuts of
// an exact match first, then every suggestable entry by probability.
func (c *Completer) rank(lowerPrefix string) []Suggestion {
	var shortcuts []Suggestion
	for _, wp := range c.store.Lookup(lowerPrefix) {
		if !wp.Suggestable() {
			continue
		}
		for _, sc := range wp.Shortcuts() {
			shortcuts = append(shortcuts, Suggestion{Word: sc.Word, Frequency: sc.Weight, Shortcut: true})
		}
	}

	var words []Suggestion
	err := c.store.VisitPrefix(lowerPrefix, func(wp *dictionary.WordProperty) error {
		if !wp.Suggestable() {
			return nil
		}
		p, _ := wp.ProbabilityInfo().Probability()
		if p < c.minProbability {
			return nil
		}
		words = append(words, Suggestion{Word: wp.Word(), Frequency: p})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting dictionary subtree: %v", err)
		return nil
	}
	sortSuggestions(words)

	return append(shortcuts, words...)
}

// Word returns the entry for word: the exact casing if present, otherwise
// the first suggestable entry differing only in case.
func (c *Completer) Word(word string) (*dictionary.WordProperty, bool) {
	if wp, ok := c.store.Get(word); ok {
		return wp, true
	}
	for _, candidate := range c.store.Lookup(word) {
		if candidate.Suggestable() {
			return candidate, true
		}
	}
	return nil, false
}

func (c *Completer) NextWords(word string, limit int) []Suggestion {
	wp, ok := c.Word(word)
	if !ok || !wp.HasBigrams() {
		return nil
	}

	var out []Suggestion
	for _, target := range wp.BigramTargets() {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, Suggestion{Word: target.Word, Frequency: target.Weight})
	}
	return out
}

func (c *Completer) Stats() map[string]int {
	storeStats := c.store.Stats()
	stats := map[string]int{
		"totalWords":     storeStats.Entries,
		"corruptEntries": storeStats.Corrupt,
		"invalidEntries": storeStats.Invalid,
		"maxProbability": storeStats.MaxProbability,
		"minProbability": c.minProbability,
	}
	for k, v := range c.hotCache.Stats() {
		stats[k] = v
	}
	return stats
}

// sortSuggestions orders by frequency, highest first, then by word.
func sortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Frequency != s[j].Frequency {
			return s[i].Frequency > s[j].Frequency
		}
		return s[i].Word < s[j].Word
	})
}
