package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/typr/pkg/dictionary"
	"github.com/bastiangx/typr/pkg/event"
	"github.com/bastiangx/typr/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		line        string
		expected    []event.Event
		description string
	}{
		{"ab", []event.Event{event.Input('a'), event.Input('b')}, "plain"},
		{`e\´`, []event.Event{event.Input('e'), event.DeadKey('´')}, "dead key"},
		{`a\-b`, []event.Event{event.Input('a'), event.Delete(), event.Input('b')}, "delete"},
		{`a\\`, []event.Event{event.Input('a'), event.Input('\\')}, "escaped backslash"},
		{`a\`, []event.Event{event.Input('a'), event.Input('\\')}, "trailing backslash"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLine(tc.line))
		})
	}
}

func TestFormatComposing(t *testing.T) {
	plain := FormatComposing(event.ComposingText{Text: "café"})
	assert.Equal(t, "café", plain)

	pending := FormatComposing(event.ComposingText{
		Text:  "caf´",
		Spans: []event.FeedbackSpan{{Start: 3, End: 4, Kind: event.FeedbackCombining}},
	})
	assert.True(t, strings.HasPrefix(pending, "caf"))
	assert.Contains(t, pending, "[´]")
}

func TestInputHandlerSession(t *testing.T) {
	store := dictionary.NewStore()
	store.Add(dictionary.NewWordProperty("café", dictionary.Flags{},
		dictionary.NewProbabilityInfo(90, dictionary.NotAValidTimestamp, 0, 0),
		[]dictionary.Bigram{dictionary.NewBigram("crème", dictionary.NewProbabilityInfo(30, dictionary.NotAValidTimestamp, 0, 0))},
		nil,
	))
	store.Add(dictionary.NewWordProperty("cafés", dictionary.Flags{},
		dictionary.NewProbabilityInfo(40, dictionary.NotAValidTimestamp, 0, 0), nil, nil))

	combiners, err := event.NewCombiners([]event.CombinerKind{event.CombinerDeadKey})
	require.NoError(t, err)
	handler := NewInputHandler(suggest.NewCompleter(store), event.NewChain(combiners), 5, false, false)

	in := strings.NewReader("caf\\´e\n:w café\n:n café\n:n nothing\nab\\-\n:q\nnever\n")
	var out bytes.Buffer
	require.NoError(t, handler.Start(in, &out))

	output := out.String()
	assert.Contains(t, output, "composing: café (composing, 5 events)")
	assert.Contains(t, output, "cafés")
	assert.Contains(t, output, `committed: "café"`)
	assert.Contains(t, output, "word=café,f=90")
	assert.Contains(t, output, "crème")
	assert.Contains(t, output, "No next words for 'nothing'")
	assert.Contains(t, output, `committed: "a"`)
	assert.NotContains(t, output, "never")
}
