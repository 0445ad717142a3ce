/*
Package dictionary decodes dictionary unigram records into WordProperty values.

A record arrives from the lookup layer in the same shape as the on-disk
layout: a null-terminated code point array for the word, an attribute block
for its probability and history, and parallel arrays for bigram and shortcut
targets. Decode reassembles those arrays into one immutable WordProperty:

	wp, err := dictionary.Decode(raw)
	if errors.Is(err, dictionary.ErrMalformedEntry) {
		// the source file is corrupt
	}
	fmt.Print(wp)

The parallel-array shape only exists in RawEntry and in the binary record
file. Everything above that boundary works with paired Bigram records.

String renders the combined text layout used by dictionary tooling:

	 word=hello,f=120
	  bigram=world,f=80
	  shortcut=hi,f=15

ParseCombined reads that layout back, and Store indexes decoded entries in
a patricia trie for prefix lookups.
*/
package dictionary

// WeightedString is a target word with a normalized frequency figure.
type WeightedString struct {
	Word   string
	Weight int
}

// CodePoints returns the word as Unicode code points.
func (w WeightedString) CodePoints() []rune {
	return []rune(w.Word)
}

// Bigram pairs a successor word with its full probability history.
// Target.Weight always equals the probability held in Info.
type Bigram struct {
	Target WeightedString
	Info   ProbabilityInfo
}

// NewBigram builds a Bigram whose weight is projected from info.
func NewBigram(word string, info ProbabilityInfo) Bigram {
	p, _ := info.Probability()
	return Bigram{
		Target: WeightedString{Word: word, Weight: p},
		Info:   info,
	}
}

// Flags decoded from the attribute bits of a unigram.
type Flags struct {
	NotAWord    bool
	Blacklisted bool
}

// WordProperty is the decoded, read-only view of one unigram entry.
type WordProperty struct {
	word        string
	isNotAWord  bool
	blacklisted bool
	info        ProbabilityInfo
	bigrams     []Bigram
	shortcuts   []WeightedString
}

// NewWordProperty assembles a WordProperty from already validated parts.
// hasBigrams and hasShortcuts follow from the slices.
func NewWordProperty(word string, flags Flags, info ProbabilityInfo, bigrams []Bigram, shortcuts []WeightedString) *WordProperty {
	wp := &WordProperty{
		word:        word,
		isNotAWord:  flags.NotAWord,
		blacklisted: flags.Blacklisted,
		info:        info,
	}
	if len(bigrams) > 0 {
		wp.bigrams = make([]Bigram, len(bigrams))
		for i, b := range bigrams {
			wp.bigrams[i] = NewBigram(b.Target.Word, b.Info)
		}
	}
	if len(shortcuts) > 0 {
		wp.shortcuts = append([]WeightedString(nil), shortcuts...)
	}
	return wp
}

// Word returns the unigram text.
func (wp *WordProperty) Word() string { return wp.word }

// CodePoints returns the unigram text as code points.
func (wp *WordProperty) CodePoints() []rune { return []rune(wp.word) }

func (wp *WordProperty) IsNotAWord() bool    { return wp.isNotAWord }
func (wp *WordProperty) IsBlacklisted() bool { return wp.blacklisted }
func (wp *WordProperty) HasBigrams() bool    { return len(wp.bigrams) > 0 }
func (wp *WordProperty) HasShortcuts() bool  { return len(wp.shortcuts) > 0 }

// ProbabilityInfo returns the unigram's own score and history.
func (wp *WordProperty) ProbabilityInfo() ProbabilityInfo { return wp.info }

// IsValid reports whether the unigram carries a probability at all.
func (wp *WordProperty) IsValid() bool { return wp.info.IsValid() }

// Bigrams returns the successor records in source order.
func (wp *WordProperty) Bigrams() []Bigram {
	return append([]Bigram(nil), wp.bigrams...)
}

// BigramTargets returns the lossy weighted projection of Bigrams.
func (wp *WordProperty) BigramTargets() []WeightedString {
	out := make([]WeightedString, len(wp.bigrams))
	for i, b := range wp.bigrams {
		out[i] = b.Target
	}
	return out
}

// BigramProbabilityInfo returns the history of each bigram, index aligned
// with BigramTargets.
func (wp *WordProperty) BigramProbabilityInfo() []ProbabilityInfo {
	out := make([]ProbabilityInfo, len(wp.bigrams))
	for i, b := range wp.bigrams {
		out[i] = b.Info
	}
	return out
}

// Shortcuts returns the alias targets in source order.
func (wp *WordProperty) Shortcuts() []WeightedString {
	return append([]WeightedString(nil), wp.shortcuts...)
}

// Flags returns the decoded attribute flags.
func (wp *WordProperty) Flags() Flags {
	return Flags{NotAWord: wp.isNotAWord, Blacklisted: wp.blacklisted}
}

// Suggestable reports whether the entry may be offered as a candidate.
func (wp *WordProperty) Suggestable() bool {
	return wp.IsValid() && !wp.isNotAWord && !wp.blacklisted
}
