package event

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// spacingAccents maps combining marks to the accent shown while a dead key
// is pending or when it cannot combine.
var spacingAccents = map[rune]rune{
	'\u0300': '`',
	'\u0301': '´',
	'\u0302': '^',
	'\u0303': '~',
	'\u0304': '¯',
	'\u0306': '˘',
	'\u0307': '˙',
	'\u0308': '¨',
	'\u030a': '˚',
	'\u030b': '˝',
	'\u030c': 'ˇ',
	'\u0327': '¸',
	'\u0328': '˛',
}

var combiningMarks = func() map[rune]rune {
	m := make(map[rune]rune, len(spacingAccents))
	for combining, spacing := range spacingAccents {
		m[spacing] = combining
	}
	return m
}()

func toCombining(r rune) rune {
	if c, ok := combiningMarks[r]; ok {
		return c
	}
	return r
}

func toSpacing(r rune) rune {
	if s, ok := spacingAccents[r]; ok {
		return s
	}
	return r
}

// DeadKeyCombiner merges a dead key with the next key press into one
// precomposed character, e.g. U+0301 then 'e' gives 'é'.
//
// If the pair has no precomposed form, the accent and the letter are both
// emitted literally. Pressing the same dead key twice, or a dead key then
// space, emits the accent itself.
type DeadKeyCombiner struct {
	pending rune
}

// NewDeadKeyCombiner returns a combiner with nothing pending.
func NewDeadKeyCombiner() *DeadKeyCombiner {
	return &DeadKeyCombiner{}
}

func (d *DeadKeyCombiner) ProcessEvent(_ []Event, ev Event) []Event {
	if ev.Kind == KindDeadKey {
		prev := d.pending
		if prev == 0 {
			d.pending = ev.CodePoint
			return nil
		}
		d.pending = ev.CodePoint
		if prev == ev.CodePoint {
			d.pending = 0
		}
		return []Event{Text(string(toSpacing(prev)))}
	}

	if d.pending == 0 {
		return []Event{ev}
	}
	mark := d.pending
	d.pending = 0
	accent := Text(string(toSpacing(mark)))

	text := ev.TextToCommit()
	switch {
	case ev.Kind == KindInput && ev.CodePoint == ' ':
		return []Event{accent}
	case ev.Kind == KindInput && text != "":
		composed := norm.NFC.String(text + string(mark))
		if utf8.RuneCountInString(composed) == 1 {
			return []Event{Text(composed)}
		}
	}
	return []Event{accent, ev}
}

// Feedback returns the pending accent, or "" when no dead key waits.
func (d *DeadKeyCombiner) Feedback() string {
	if d.pending == 0 {
		return ""
	}
	return string(toSpacing(d.pending))
}

func (d *DeadKeyCombiner) Reset() {
	d.pending = 0
}
