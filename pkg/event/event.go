/*
Package event turns input events into the composing text of one word.

A Chain runs each Event through an ordered list of Combiner stages. A stage
may swallow an event while a combination is pending (a dead key waiting for
its base letter, a Hangul syllable still being assembled), emit text, or
pass the event on unchanged. Whatever leaves the last stage is appended to
the composing buffer.

	chain := event.NewChain([]event.Combiner{event.NewDeadKeyCombiner()})
	chain.ProcessEvent(event.DeadKey('\u0301'))
	chain.ProcessEvent(event.Input('e'))
	chain.ComposingWordWithCombiningFeedback().Text // "é"

The chain keeps every processed event. Deleting is done by replaying the
history without its last event, never by editing the buffer in place, so
the composing text is always what a fresh chain would produce for the same
events.

A Chain is not safe for concurrent use. The input session that owns it
must serialize access.
*/
package event

import "fmt"

// Kind tells what produced an event.
type Kind int

const (
	KindInput            Kind = iota // key press producing CodePoint
	KindDeadKey                      // modifier waiting for a base character
	KindGesture                      // word typed by gesture
	KindSuggestionPicked             // accepted suggestion
	KindText                         // text emitted by a combiner stage
	KindDelete                       // user deleted the last input
)

var kindNames = map[Kind]string{
	KindInput:            "input",
	KindDeadKey:          "dead_key",
	KindGesture:          "gesture",
	KindSuggestionPicked: "suggestion",
	KindText:             "text",
	KindDelete:           "delete",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a name from String back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", name)
}

// Event is one discrete input. Stages only read TextToCommit, plus
// CodePoint for key presses and dead keys.
type Event struct {
	Kind      Kind
	CodePoint rune
	KeyCode   int
	Text      string
}

// Input is a key press producing r.
func Input(r rune) Event {
	return Event{Kind: KindInput, CodePoint: r}
}

// DeadKey is a modifier for the next character. mark may be a combining
// mark (U+0301) or its spacing form ('´').
func DeadKey(mark rune) Event {
	return Event{Kind: KindDeadKey, CodePoint: toCombining(mark)}
}

// Gesture is a whole word typed by gesture.
func Gesture(word string) Event {
	return Event{Kind: KindGesture, Text: word}
}

// SuggestionPicked is an accepted candidate.
func SuggestionPicked(word string) Event {
	return Event{Kind: KindSuggestionPicked, Text: word}
}

// Text is literal text, used by stages to emit output.
func Text(s string) Event {
	return Event{Kind: KindText, Text: s}
}

// Delete asks the chain to drop the last event.
func Delete() Event {
	return Event{Kind: KindDelete}
}

// TextToCommit returns the text this event adds when nothing combines it.
// A lone dead key commits its spacing accent.
func (e Event) TextToCommit() string {
	switch e.Kind {
	case KindInput:
		if e.CodePoint == 0 {
			return ""
		}
		return string(e.CodePoint)
	case KindDeadKey:
		return string(toSpacing(e.CodePoint))
	case KindGesture, KindSuggestionPicked, KindText:
		return e.Text
	default:
		return ""
	}
}
