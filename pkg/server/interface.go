/*
Package server implements msgpack IPC for typr.

Clients write msgpack maps to stdin and read one msgpack map per request
from stdout. Every request carries an id that is echoed back, and an action
in "a"; a request without an action is a completion:

	{"id": "r1", "p": "hel", "l": 5}

	{"id": "r1", "s": [{"w": "help", "r": 1, "f": 200}, {"w": "hello", "r": 2, "f": 120}], "c": 2, "t": 38}

The server owns one composing session. "compose" applies a single input
event to it and answers with the composing text, its feedback spans, the
session state and completions for the text:

	{"id": "r2", "a": "compose", "ev": {"k": "dead_key", "cp": 769}}
	{"id": "r3", "a": "compose", "ev": {"k": "input", "cp": 101}}

	{"id": "r3", "tx": "é", "st": "composing", "s": [...], "c": 3}

"commit" returns the composed word and clears the session, "revert" drops
the last event and "reset" clears without committing. "word" returns the
dictionary entry for "w" with its debug rendering, "next" its bigram
successors and "health" the dictionary counters.

Failures are answered with {"id": ..., "e": message, "c": code} and the
server keeps reading.
*/
package server

const (
	ActionComplete = "complete"
	ActionWord     = "word"
	ActionNext     = "next"
	ActionCompose  = "compose"
	ActionCommit   = "commit"
	ActionRevert   = "revert"
	ActionReset    = "reset"
	ActionHealth   = "health"
)

// Request is the single envelope for every action.
type Request struct {
	ID     string        `msgpack:"id"`
	Action string        `msgpack:"a,omitempty"`
	Prefix string        `msgpack:"p,omitempty"`
	Limit  int           `msgpack:"l,omitempty"`
	Word   string        `msgpack:"w,omitempty"`
	Event  *EventRequest `msgpack:"ev,omitempty"`
}

// EventRequest is an input event for the composing session. Kind is one
// of input, dead_key, gesture, suggestion or delete.
type EventRequest struct {
	Kind      string `msgpack:"k"`
	CodePoint int32  `msgpack:"cp,omitempty"`
	KeyCode   int    `msgpack:"kc,omitempty"`
	Text      string `msgpack:"t,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word     string `msgpack:"w"`
	Rank     uint16 `msgpack:"r"`
	Freq     int    `msgpack:"f,omitempty"`
	Shortcut bool   `msgpack:"sc,omitempty"`
}

// CompletionResponse answers complete and next.
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// WordResponse describes one dictionary entry.
type WordResponse struct {
	ID             string                 `msgpack:"id"`
	Word           string                 `msgpack:"w"`
	Found          bool                   `msgpack:"ok"`
	Probability    int                    `msgpack:"f,omitempty"`
	HistoricalInfo string                 `msgpack:"h,omitempty"`
	NotAWord       bool                   `msgpack:"naw,omitempty"`
	Blacklisted    bool                   `msgpack:"bl,omitempty"`
	Bigrams        []CompletionSuggestion `msgpack:"b,omitempty"`
	Shortcuts      []CompletionSuggestion `msgpack:"sh,omitempty"`
	Debug          string                 `msgpack:"d,omitempty"`
}

// FeedbackSpan marks runes [Start, End) of the composing text.
type FeedbackSpan struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
	Kind  int `msgpack:"k"`
}

// ComposeResponse answers compose, commit, revert and reset.
type ComposeResponse struct {
	ID          string                 `msgpack:"id"`
	Text        string                 `msgpack:"tx"`
	Spans       []FeedbackSpan         `msgpack:"sp,omitempty"`
	State       string                 `msgpack:"st"`
	Committed   string                 `msgpack:"cm,omitempty"`
	Suggestions []CompletionSuggestion `msgpack:"s,omitempty"`
	Count       int                    `msgpack:"c"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
