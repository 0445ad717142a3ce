package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Store indexes decoded entries by lowercased word in a patricia trie.
// Entries that differ only in case share one trie node.
type Store struct {
	trie    *patricia.Trie
	count   int
	corrupt int
	maxProb int
	mu      sync.RWMutex
}

// StoreStats summarizes what a Store holds.
type StoreStats struct {
	Entries        int
	Corrupt        int
	Invalid        int
	MaxProbability int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{trie: patricia.NewTrie()}
}

// Add indexes wp, replacing an entry with the exact same word.
func (s *Store) Add(wp *WordProperty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(wp)
}

func (s *Store) add(wp *WordProperty) {
	key := patricia.Prefix(strings.ToLower(wp.Word()))
	var bucket []*WordProperty
	if item := s.trie.Get(key); item != nil {
		bucket = item.([]*WordProperty)
	}
	replaced := false
	for i, existing := range bucket {
		if existing.Word() == wp.Word() {
			bucket[i] = wp
			replaced = true
			break
		}
	}
	if !replaced {
		bucket = append(bucket, wp)
		s.count++
	}
	s.trie.Set(key, bucket)
	if p, ok := wp.ProbabilityInfo().Probability(); ok && p > s.maxProb {
		s.maxProb = p
	}
}

// AddRaw decodes raw and indexes it. A malformed record is counted and
// returned as an error; the store stays usable.
func (s *Store) AddRaw(raw RawEntry) error {
	wp, err := Decode(raw)
	if err != nil {
		s.mu.Lock()
		s.corrupt++
		s.mu.Unlock()
		return err
	}
	s.Add(wp)
	return nil
}

// Get returns the entry whose word matches exactly.
func (s *Store) Get(word string) (*WordProperty, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.trie.Get(patricia.Prefix(strings.ToLower(word)))
	if item == nil {
		return nil, false
	}
	for _, wp := range item.([]*WordProperty) {
		if wp.Word() == word {
			return wp, true
		}
	}
	return nil, false
}

// Lookup returns every casing of word, e.g. "us" and "US".
func (s *Store) Lookup(word string) []*WordProperty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.trie.Get(patricia.Prefix(strings.ToLower(word)))
	if item == nil {
		return nil
	}
	return append([]*WordProperty(nil), item.([]*WordProperty)...)
}

// VisitPrefix calls fn for every entry whose lowercased word starts with
// the lowercased prefix. Returning an error from fn stops the walk.
func (s *Store) VisitPrefix(prefix string, fn func(*WordProperty) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visitor := func(_ patricia.Prefix, item patricia.Item) error {
		for _, wp := range item.([]*WordProperty) {
			if err := fn(wp); err != nil {
				return err
			}
		}
		return nil
	}
	if prefix == "" {
		return s.trie.Visit(visitor)
	}
	return s.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), visitor)
}

// Walk calls fn for every entry in trie order.
func (s *Store) Walk(fn func(*WordProperty) error) error {
	return s.VisitPrefix("", fn)
}

// Entries returns all entries sorted by word.
func (s *Store) Entries() []*WordProperty {
	var out []*WordProperty
	_ = s.Walk(func(wp *WordProperty) error {
		out = append(out, wp)
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Word() < out[j].Word()
	})
	return out
}

// Len returns the number of indexed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Stats returns counters for diagnostics.
func (s *Store) Stats() StoreStats {
	invalid := 0
	for _, wp := range s.Entries() {
		if !wp.IsValid() {
			invalid++
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreStats{
		Entries:        s.count,
		Corrupt:        s.corrupt,
		Invalid:        invalid,
		MaxProbability: s.maxProb,
	}
}

// LoadFile loads a binary record file or a combined text file into the
// store. Malformed binary records are skipped with a warning so that a
// damaged dictionary degrades to missing suggestions for those words.
func (s *Store) LoadFile(path string) error {
	format, err := DetectFileFormat(path)
	if err != nil {
		return err
	}
	if info, ok := GetFormatInfo(format); ok {
		log.Debugf("Loading %s as %s", path, info.Description)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()
	reader := bufio.NewReader(file)

	switch format {
	case FormatBinary:
		entries, err := ReadEntries(reader)
		var truncated *TruncatedFileError
		switch {
		case errors.As(err, &truncated):
			lost := truncated.Expected - truncated.Read
			log.Warnf("Dictionary %s is damaged, keeping %d entries and skipping %d: %v", path, truncated.Read, lost, truncated.Err)
			s.mu.Lock()
			s.corrupt += lost
			s.mu.Unlock()
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		skipped := 0
		for i, raw := range entries {
			if err := s.AddRaw(raw); err != nil {
				var me *MalformedEntryError
				if errors.As(err, &me) {
					log.Warnf("Skipping entry %d in %s: %v", i, path, err)
					skipped++
					continue
				}
				return err
			}
		}
		log.Debugf("Loaded %d entries from %s (%d skipped)", len(entries)-skipped, path, skipped)
	case FormatCombined:
		props, err := ParseCombined(reader)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		s.mu.Lock()
		for _, wp := range props {
			s.add(wp)
		}
		s.mu.Unlock()
		log.Debugf("Loaded %d entries from %s", len(props), path)
	}
	return nil
}

// SaveFile writes every entry to path as a binary record file. It refuses
// entries that would not decode again.
func (s *Store) SaveFile(path string) error {
	entries := s.Entries()
	raws := make([]RawEntry, len(entries))
	for i, wp := range entries {
		if err := wp.Validate(); err != nil {
			return fmt.Errorf("cannot save %q: %w", wp.Word(), err)
		}
		raws[i] = Encode(wp)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	if err := WriteEntries(w, raws); err != nil {
		return err
	}
	return w.Flush()
}
