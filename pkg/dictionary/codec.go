package dictionary

import (
	"strings"
	"unicode/utf8"
)

// Attribute bits of a unigram record.
const (
	FlagNotAWord     uint8 = 0x01
	FlagBlacklisted  uint8 = 0x02
	FlagHasBigrams   uint8 = 0x04
	FlagHasShortcuts uint8 = 0x08
)

// codePointTerminator ends every code point array and never occurs in text.
const codePointTerminator = 0

// RawEntry is a unigram record in the parallel-array shape produced by the
// lookup layer. BigramTargets[i] pairs with BigramAttributes[i], and
// ShortcutTargets[i] with ShortcutWeights[i].
type RawEntry struct {
	CodePoints       []int32
	Flags            uint8
	Attributes       []int32
	BigramTargets    [][]int32
	BigramAttributes [][]int32
	ShortcutTargets  [][]int32
	ShortcutWeights  []int32
}

// Decode validates raw and converts it into a WordProperty.
// It returns a *MalformedEntryError, never a partial result, when raw
// breaks the format contract.
func Decode(raw RawEntry) (*WordProperty, error) {
	word, err := decodeText(raw.CodePoints, "code_points", -1)
	if err != nil {
		return nil, err
	}
	info, err := decodeAttributes(raw.Attributes, "attributes", -1)
	if err != nil {
		return nil, err
	}

	if len(raw.BigramTargets) != len(raw.BigramAttributes) {
		return nil, malformed("bigrams", -1, "%d targets but %d attribute blocks",
			len(raw.BigramTargets), len(raw.BigramAttributes))
	}
	if len(raw.ShortcutTargets) != len(raw.ShortcutWeights) {
		return nil, malformed("shortcuts", -1, "%d targets but %d weights",
			len(raw.ShortcutTargets), len(raw.ShortcutWeights))
	}
	if hasFlag(raw.Flags, FlagHasBigrams) != (len(raw.BigramTargets) > 0) {
		return nil, malformed("flags", -1, "has_bigrams bit disagrees with %d bigram targets", len(raw.BigramTargets))
	}
	if hasFlag(raw.Flags, FlagHasShortcuts) != (len(raw.ShortcutTargets) > 0) {
		return nil, malformed("flags", -1, "has_shortcuts bit disagrees with %d shortcut targets", len(raw.ShortcutTargets))
	}

	var bigrams []Bigram
	if n := len(raw.BigramTargets); n > 0 {
		bigrams = make([]Bigram, 0, n)
		for i := 0; i < n; i++ {
			target, err := decodeText(raw.BigramTargets[i], "bigram_targets", i)
			if err != nil {
				return nil, err
			}
			bi, err := decodeAttributes(raw.BigramAttributes[i], "bigram_attributes", i)
			if err != nil {
				return nil, err
			}
			bigrams = append(bigrams, NewBigram(target, bi))
		}
	}

	var shortcuts []WeightedString
	if n := len(raw.ShortcutTargets); n > 0 {
		shortcuts = make([]WeightedString, 0, n)
		for i := 0; i < n; i++ {
			target, err := decodeText(raw.ShortcutTargets[i], "shortcut_targets", i)
			if err != nil {
				return nil, err
			}
			if raw.ShortcutWeights[i] < 0 {
				return nil, malformed("shortcut_weights", i, "negative weight %d", raw.ShortcutWeights[i])
			}
			shortcuts = append(shortcuts, WeightedString{Word: target, Weight: int(raw.ShortcutWeights[i])})
		}
	}

	flags := Flags{
		NotAWord:    hasFlag(raw.Flags, FlagNotAWord),
		Blacklisted: hasFlag(raw.Flags, FlagBlacklisted),
	}
	return &WordProperty{
		word:        word,
		isNotAWord:  flags.NotAWord,
		blacklisted: flags.Blacklisted,
		info:        info,
		bigrams:     bigrams,
		shortcuts:   shortcuts,
	}, nil
}

// Encode converts wp back into the raw record shape. Decode(Encode(wp))
// reproduces wp field for field.
func Encode(wp *WordProperty) RawEntry {
	var flags uint8
	if wp.isNotAWord {
		flags |= FlagNotAWord
	}
	if wp.blacklisted {
		flags |= FlagBlacklisted
	}
	if wp.HasBigrams() {
		flags |= FlagHasBigrams
	}
	if wp.HasShortcuts() {
		flags |= FlagHasShortcuts
	}

	raw := RawEntry{
		CodePoints: EncodeText(wp.word),
		Flags:      flags,
		Attributes: attributeBlock(wp.info),
	}
	for _, b := range wp.bigrams {
		raw.BigramTargets = append(raw.BigramTargets, EncodeText(b.Target.Word))
		raw.BigramAttributes = append(raw.BigramAttributes, attributeBlock(b.Info))
	}
	for _, s := range wp.shortcuts {
		raw.ShortcutTargets = append(raw.ShortcutTargets, EncodeText(s.Word))
		raw.ShortcutWeights = append(raw.ShortcutWeights, int32(s.Weight))
	}
	return raw
}

// Validate reports whether wp would survive Encode and Decode. Decode
// enforces these rules on raw records; NewWordProperty trusts its caller, so
// builders of new entries check here.
func (wp *WordProperty) Validate() error {
	if strings.ContainsRune(wp.word, codePointTerminator) {
		return malformed("code_points", -1, "text contains the terminator")
	}
	for i, b := range wp.bigrams {
		if strings.ContainsRune(b.Target.Word, codePointTerminator) {
			return malformed("bigram_targets", i, "text contains the terminator")
		}
	}
	for i, sc := range wp.shortcuts {
		if strings.ContainsRune(sc.Word, codePointTerminator) {
			return malformed("shortcut_targets", i, "text contains the terminator")
		}
	}
	_, err := Decode(Encode(wp))
	return err
}

// EncodeText returns s as a null-terminated code point array.
func EncodeText(s string) []int32 {
	out := make([]int32, 0, utf8.RuneCountInString(s)+1)
	for _, r := range s {
		out = append(out, int32(r))
	}
	return append(out, codePointTerminator)
}

// DecodeText reads a null-terminated code point array. Anything after the
// first terminator is ignored.
func DecodeText(codePoints []int32) (string, error) {
	return decodeText(codePoints, "code_points", -1)
}

func decodeText(codePoints []int32, field string, index int) (string, error) {
	end := -1
	for i, cp := range codePoints {
		if cp == codePointTerminator {
			end = i
			break
		}
	}
	if end < 0 {
		return "", malformed(field, index, "no terminator within %d code points", len(codePoints))
	}
	if end == 0 {
		return "", malformed(field, index, "empty text")
	}
	runes := make([]rune, end)
	for i, cp := range codePoints[:end] {
		r := rune(cp)
		if !utf8.ValidRune(r) {
			return "", malformed(field, index, "invalid code point U+%04X at %d", cp, i)
		}
		runes[i] = r
	}
	return string(runes), nil
}

func decodeAttributes(block []int32, field string, index int) (ProbabilityInfo, error) {
	if len(block) < AttributeCount {
		return ProbabilityInfo{}, malformed(field, index, "attribute block has %d values, want %d", len(block), AttributeCount)
	}
	info := probabilityInfoFromBlock(block)
	if !validProbability(int(block[ProbabilityIndex])) {
		return ProbabilityInfo{}, malformed(field, index, "probability %d out of range", block[ProbabilityIndex])
	}
	return info, nil
}

func attributeBlock(info ProbabilityInfo) []int32 {
	raw := info.Raw()
	return raw[:]
}

func hasFlag(flags, bit uint8) bool {
	return flags&bit != 0
}
