package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Labels of the combined text layout. Tooling parses these, keep them stable.
const (
	wordTag           = "word"
	frequencyTag      = "f"
	notAWordTag       = "not_a_word"
	blacklistedTag    = "blacklisted"
	historicalInfoTag = "historicalInfo"
	bigramTag         = "bigram"
	shortcutTag       = "shortcut"

	historicalInfoSeparator = ":"
	historicalInfoFields    = 3
)

// Render returns the combined text layout of wp: one word line followed by
// one indented line per bigram and per shortcut.
func Render(wp *WordProperty) string {
	var b strings.Builder
	prob, _ := wp.info.Probability()
	fmt.Fprintf(&b, " %s=%s,%s=%d", wordTag, wp.word, frequencyTag, prob)
	if wp.isNotAWord {
		fmt.Fprintf(&b, ",%s=true", notAWordTag)
	}
	if wp.blacklisted {
		fmt.Fprintf(&b, ",%s=true", blacklistedTag)
	}
	if wp.info.HasHistoricalInfo() {
		fmt.Fprintf(&b, ",%s=%s", historicalInfoTag, wp.info)
	}
	b.WriteByte('\n')
	for _, bg := range wp.bigrams {
		fmt.Fprintf(&b, "  %s=%s,%s=%d", bigramTag, bg.Target.Word, frequencyTag, bg.Target.Weight)
		if bg.Info.HasHistoricalInfo() {
			fmt.Fprintf(&b, ",%s=%s", historicalInfoTag, bg.Info)
		}
		b.WriteByte('\n')
	}
	for _, s := range wp.shortcuts {
		fmt.Fprintf(&b, "  %s=%s,%s=%d\n", shortcutTag, s.Word, frequencyTag, s.Weight)
	}
	return b.String()
}

// String implements fmt.Stringer with Render.
func (wp *WordProperty) String() string {
	return Render(wp)
}

// pending collects one word while its bigram and shortcut lines are read.
type pending struct {
	word      string
	flags     Flags
	info      ProbabilityInfo
	bigrams   []Bigram
	shortcuts []WeightedString
}

func (p *pending) build() (*WordProperty, error) {
	wp := NewWordProperty(p.word, p.flags, p.info, p.bigrams, p.shortcuts)
	if err := wp.Validate(); err != nil {
		return nil, err
	}
	return wp, nil
}

// ParseCombined reads entries written in the Render layout.
// Blank lines and lines starting with '#' are skipped.
func ParseCombined(r io.Reader) ([]*WordProperty, error) {
	var (
		out     []*WordProperty
		current *pending
		startNo int
		lineNo  int
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		wp, err := current.build()
		if err != nil {
			return fmt.Errorf("line %d: %w", startNo, err)
		}
		out = append(out, wp)
		return nil
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := splitFields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch {
		case fields.has(wordTag):
			if err := flush(); err != nil {
				return nil, err
			}
			startNo = lineNo
			current, err = parseWordLine(fields)
		case fields.has(bigramTag):
			if current == nil {
				return nil, fmt.Errorf("line %d: %s before any %s", lineNo, bigramTag, wordTag)
			}
			var bg Bigram
			bg, err = parseBigramLine(fields)
			current.bigrams = append(current.bigrams, bg)
		case fields.has(shortcutTag):
			if current == nil {
				return nil, fmt.Errorf("line %d: %s before any %s", lineNo, shortcutTag, wordTag)
			}
			var sc WeightedString
			sc, err = parseShortcutLine(fields)
			current.shortcuts = append(current.shortcuts, sc)
		default:
			err = fmt.Errorf("unknown line %q", line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading combined dictionary: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

type fieldSet struct {
	values map[string]string
	first  string
}

func (f fieldSet) has(key string) bool {
	return f.first == key
}

func (f fieldSet) get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// splitFields reads "tag=text,f=n,key=value...". The text of the leading
// tag runs up to the last ",f=", so words may contain commas.
func splitFields(line string) (fieldSet, error) {
	fs := fieldSet{values: make(map[string]string)}
	first, rest, ok := strings.Cut(line, "=")
	if !ok {
		return fs, fmt.Errorf("field %q has no value", line)
	}
	fs.first = first

	text, tail := rest, ""
	if i := strings.LastIndex(rest, ","+frequencyTag+"="); i >= 0 {
		text, tail = rest[:i], rest[i+1:]
	}
	fs.values[first] = text
	if tail == "" {
		return fs, nil
	}
	for _, part := range strings.Split(tail, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return fs, fmt.Errorf("field %q has no value", part)
		}
		fs.values[key] = value
	}
	return fs, nil
}

func parseWordLine(fields fieldSet) (*pending, error) {
	word, _ := fields.get(wordTag)
	if word == "" {
		return nil, fmt.Errorf("empty %s", wordTag)
	}
	info, err := parseInfo(fields)
	if err != nil {
		return nil, err
	}
	p := &pending{word: word, info: info}
	if v, ok := fields.get(notAWordTag); ok {
		p.flags.NotAWord = v == "true"
	}
	if v, ok := fields.get(blacklistedTag); ok {
		p.flags.Blacklisted = v == "true"
	}
	return p, nil
}

func parseBigramLine(fields fieldSet) (Bigram, error) {
	target, _ := fields.get(bigramTag)
	if target == "" {
		return Bigram{}, fmt.Errorf("empty %s", bigramTag)
	}
	info, err := parseInfo(fields)
	if err != nil {
		return Bigram{}, err
	}
	return NewBigram(target, info), nil
}

func parseShortcutLine(fields fieldSet) (WeightedString, error) {
	target, _ := fields.get(shortcutTag)
	if target == "" {
		return WeightedString{}, fmt.Errorf("empty %s", shortcutTag)
	}
	raw, ok := fields.get(frequencyTag)
	if !ok {
		return WeightedString{}, fmt.Errorf("%s %q has no %s", shortcutTag, target, frequencyTag)
	}
	weight, err := strconv.Atoi(raw)
	if err != nil || weight < 0 {
		return WeightedString{}, fmt.Errorf("bad %s value %q", frequencyTag, raw)
	}
	return WeightedString{Word: target, Weight: weight}, nil
}

// parseInfo reads f= and the optional historicalInfo=timestamp:level:count.
func parseInfo(fields fieldSet) (ProbabilityInfo, error) {
	raw, ok := fields.get(frequencyTag)
	if !ok {
		return ProbabilityInfo{}, fmt.Errorf("missing %s", frequencyTag)
	}
	prob, err := strconv.Atoi(raw)
	if err != nil || !validProbability(prob) {
		return ProbabilityInfo{}, fmt.Errorf("bad %s value %q", frequencyTag, raw)
	}
	hist, ok := fields.get(historicalInfoTag)
	if !ok {
		return NewProbabilityInfo(prob, NotAValidTimestamp, 0, 0), nil
	}
	parts := strings.Split(hist, historicalInfoSeparator)
	if len(parts) != historicalInfoFields {
		return ProbabilityInfo{}, fmt.Errorf("bad %s value %q", historicalInfoTag, hist)
	}
	values := make([]int, historicalInfoFields)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return ProbabilityInfo{}, fmt.Errorf("bad %s value %q: %w", historicalInfoTag, hist, err)
		}
		values[i] = v
	}
	if values[0] == NotAValidTimestamp {
		return ProbabilityInfo{}, fmt.Errorf("%s without a timestamp", historicalInfoTag)
	}
	return NewProbabilityInfo(prob, values[0], values[1], values[2]), nil
}
