package event

import "unicode/utf8"

// State is the coarse state of a Chain.
type State int

const (
	StateEmpty State = iota
	StateComposing
	StatePendingCombination
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateComposing:
		return "composing"
	case StatePendingCombination:
		return "pending"
	}
	return "unknown"
}

// FeedbackKind tells how a span of composing text should be shown.
type FeedbackKind int

const (
	// FeedbackCombining marks text that a pending combination may still
	// rewrite.
	FeedbackCombining FeedbackKind = iota + 1
)

// FeedbackSpan covers runes [Start, End) of the composing text.
type FeedbackSpan struct {
	Start int
	End   int
	Kind  FeedbackKind
}

// ComposingText is the word being composed plus its feedback spans.
type ComposingText struct {
	Text  string
	Spans []FeedbackSpan
}

// IsEmpty reports whether no word is being composed.
func (c ComposingText) IsEmpty() bool {
	return c.Text == ""
}

// Chain applies a fixed list of combiners to incoming events and owns the
// composing buffer and event history of one word.
type Chain struct {
	combiners []Combiner
	buffer    []rune
	history   []Event
}

// NewChain builds a chain over combiners, which run in the given order.
func NewChain(combiners []Combiner) *Chain {
	return &Chain{combiners: append([]Combiner(nil), combiners...)}
}

// ProcessEvent runs ev through every stage and appends the result to the
// composing buffer. A delete event reverts the last event instead.
func (c *Chain) ProcessEvent(ev Event) {
	if ev.Kind == KindDelete {
		c.RevertLastEvent()
		return
	}
	c.apply(c.history, ev)
	c.history = append(c.history, ev)
}

// ProcessEvents processes evs in order.
func (c *Chain) ProcessEvents(evs []Event) {
	for _, ev := range evs {
		c.ProcessEvent(ev)
	}
}

func (c *Chain) apply(previous []Event, ev Event) {
	pending := []Event{ev}
	for _, combiner := range c.combiners {
		var next []Event
		for _, e := range pending {
			next = append(next, combiner.ProcessEvent(previous, e)...)
		}
		pending = next
		if len(pending) == 0 {
			return
		}
	}
	for _, e := range pending {
		c.buffer = append(c.buffer, []rune(e.TextToCommit())...)
	}
}

// RevertLastEvent drops the newest event and rebuilds the composing text
// by replaying the rest from an empty state. It reports false, and does
// nothing, when the history is empty.
func (c *Chain) RevertLastEvent() bool {
	if len(c.history) == 0 {
		return false
	}
	events := append([]Event(nil), c.history[:len(c.history)-1]...)
	c.Reset()
	for _, ev := range events {
		c.apply(c.history, ev)
		c.history = append(c.history, ev)
	}
	return true
}

// ComposingWordWithCombiningFeedback returns the composing text, with a
// combining span for each stage that still holds a pending combination.
// The result is the zero value when nothing is being composed.
func (c *Chain) ComposingWordWithCombiningFeedback() ComposingText {
	text := string(c.buffer)
	offset := len(c.buffer)
	var spans []FeedbackSpan
	// later stages saw their pending events first
	for i := len(c.combiners) - 1; i >= 0; i-- {
		fb := c.combiners[i].Feedback()
		if fb == "" {
			continue
		}
		n := utf8.RuneCountInString(fb)
		spans = append(spans, FeedbackSpan{Start: offset, End: offset + n, Kind: FeedbackCombining})
		text += fb
		offset += n
	}
	if text == "" {
		return ComposingText{}
	}
	return ComposingText{Text: text, Spans: spans}
}

// Commit returns the full composing text, pending combinations included,
// and resets the chain for the next word.
func (c *Chain) Commit() string {
	text := c.ComposingWordWithCombiningFeedback().Text
	c.Reset()
	return text
}

// Reset clears the buffer, the history and every stage.
func (c *Chain) Reset() {
	for _, combiner := range c.combiners {
		combiner.Reset()
	}
	c.buffer = c.buffer[:0]
	c.history = nil
}

// History returns a copy of the processed events.
func (c *Chain) History() []Event {
	return append([]Event(nil), c.history...)
}

// Len returns the number of events in the history.
func (c *Chain) Len() int {
	return len(c.history)
}

// State reports whether the chain is empty, composing, or holding a
// pending combination.
func (c *Chain) State() State {
	for _, combiner := range c.combiners {
		if combiner.Feedback() != "" {
			return StatePendingCombination
		}
	}
	if len(c.history) > 0 {
		return StateComposing
	}
	return StateEmpty
}
