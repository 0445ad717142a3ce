package event

import (
	"fmt"
	"strings"
)

// Combiner is one stage of a Chain.
type Combiner interface {
	// ProcessEvent consumes ev and returns the events handed to the next
	// stage. An empty result means ev was swallowed into a pending
	// combination. previous holds the events already in the history.
	//
	// A Chain resets every stage and replays the whole history on revert,
	// so a stage may keep its own pending state instead of reading
	// previous. The built-in stages do.
	ProcessEvent(previous []Event, ev Event) []Event

	// Feedback returns the pending text that later events may still
	// change, or "" when nothing is pending.
	Feedback() string

	// Reset drops any pending combination.
	Reset()
}

// PassThrough hands every event on unchanged.
type PassThrough struct{}

func (PassThrough) ProcessEvent(_ []Event, ev Event) []Event { return []Event{ev} }
func (PassThrough) Feedback() string                         { return "" }
func (PassThrough) Reset()                                   {}

// CombinerKind names a combiner variant in configuration.
type CombinerKind string

const (
	CombinerPassThrough CombinerKind = "pass_through"
	CombinerDeadKey     CombinerKind = "dead_key"
	CombinerHangul      CombinerKind = "hangul"
)

// NewCombiner builds a fresh combiner of the given kind.
func NewCombiner(kind CombinerKind) (Combiner, error) {
	switch kind {
	case CombinerPassThrough:
		return PassThrough{}, nil
	case CombinerDeadKey:
		return NewDeadKeyCombiner(), nil
	case CombinerHangul:
		return NewHangulCombiner(), nil
	}
	return nil, fmt.Errorf("unknown combiner %q", string(kind))
}

// NewCombiners builds one combiner per kind, in order.
func NewCombiners(kinds []CombinerKind) ([]Combiner, error) {
	out := make([]Combiner, 0, len(kinds))
	for _, k := range kinds {
		c, err := NewCombiner(k)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseCombinerKinds splits names into known kinds and rejected names.
func ParseCombinerKinds(names []string) (kinds []CombinerKind, unknown []string) {
	for _, name := range names {
		kind := CombinerKind(strings.ToLower(strings.TrimSpace(name)))
		if _, err := NewCombiner(kind); err != nil {
			unknown = append(unknown, name)
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds, unknown
}

// ForLocale returns the default combiners for a locale such as "ko_KR".
func ForLocale(locale string) []CombinerKind {
	lang, _, _ := strings.Cut(strings.ToLower(locale), "_")
	lang, _, _ = strings.Cut(lang, "-")
	switch lang {
	case "ko":
		return []CombinerKind{CombinerHangul}
	case "":
		return []CombinerKind{CombinerPassThrough}
	}
	return []CombinerKind{CombinerDeadKey}
}
