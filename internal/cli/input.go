// Package cli runs an interactive composing session on the terminal, for
// debugging combiners and suggestions without an IPC client.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/typr/internal/utils"
	"github.com/bastiangx/typr/pkg/dictionary"
	"github.com/bastiangx/typr/pkg/event"
	"github.com/bastiangx/typr/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	pendingStyle  = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("214"))
	shortcutStyle = lipgloss.NewStyle().Italic(true)
)

const help = `each line is composed as one word and then committed
  \X     dead key X, e.g. caf\´e or caf\` + "`" + `e
  \-     delete the last event
  \\     a literal backslash
  :w W   show the dictionary entry for W
  :n W   show the words that follow W
  :q     quit`

// InputHandler feeds each line of input through a combiner chain and
// prints the composing text with its suggestions.
type InputHandler struct {
	completer    suggest.ICompleter
	chain        *event.Chain
	suggestLimit int
	showFeedback bool
	noFilter     bool
	out          *log.Logger
}

func NewInputHandler(completer suggest.ICompleter, chain *event.Chain, limit int, showFeedback, noFilter bool) *InputHandler {
	return &InputHandler{
		completer:    completer,
		chain:        chain,
		suggestLimit: limit,
		showFeedback: showFeedback,
		noFilter:     noFilter,
	}
}

// Start reads lines from in until EOF or ":q", writing results to out.
func (h *InputHandler) Start(in io.Reader, out io.Writer) error {
	h.out = log.NewWithOptions(out, log.Options{ReportTimestamp: false})
	h.out.Print("typr CLI")
	h.out.Print(help)

	scanner := bufio.NewScanner(in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":q" {
			return nil
		}
		h.handleLine(line)
	}
}

func (h *InputHandler) handleLine(line string) {
	switch {
	case strings.HasPrefix(line, ":w "):
		h.showWord(strings.TrimSpace(line[3:]))
		return
	case strings.HasPrefix(line, ":n "):
		h.showNext(strings.TrimSpace(line[3:]))
		return
	}

	h.chain.Reset()
	start := time.Now()
	h.chain.ProcessEvents(ParseLine(line))
	composing := h.chain.ComposingWordWithCombiningFeedback()

	var suggestions []suggest.Suggestion
	if h.noFilter || utils.IsValidInput(composing.Text) {
		suggestions = h.completer.Complete(composing.Text, h.suggestLimit)
	}
	log.Debugf("Took [ %v ] for line '%s'", time.Since(start), line)

	text := composing.Text
	if h.showFeedback {
		text = FormatComposing(composing)
	}
	h.out.Printf("composing: %s (%s, %d events)", text, h.chain.State(), h.chain.Len())
	h.printSuggestions(suggestions)
	h.out.Printf("committed: %q", h.chain.Commit())
}

func (h *InputHandler) showWord(word string) {
	wp, ok := h.completer.Word(word)
	if !ok {
		h.out.Warnf("No entry for '%s'", word)
		return
	}
	h.out.Print(strings.TrimRight(dictionary.Render(wp), "\n"))
}

func (h *InputHandler) showNext(word string) {
	next := h.completer.NextWords(word, h.suggestLimit)
	if len(next) == 0 {
		h.out.Warnf("No next words for '%s'", word)
		return
	}
	h.printSuggestions(next)
}

func (h *InputHandler) printSuggestions(suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		h.out.Print("no suggestions")
		return
	}
	for i, s := range suggestions {
		word := wordStyle.Render(s.Word)
		if s.Shortcut {
			word = shortcutStyle.Render(word)
		}
		h.out.Printf("%2d. %-24s (f: %3d)", i+1, word, s.Frequency)
	}
}

// ParseLine turns a typed line into events. See help for the escapes.
func ParseLine(line string) []event.Event {
	var events []event.Event
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i == len(runes)-1 {
			events = append(events, event.Input(r))
			continue
		}
		i++
		switch runes[i] {
		case '-':
			events = append(events, event.Delete())
		case '\\':
			events = append(events, event.Input('\\'))
		default:
			events = append(events, event.DeadKey(runes[i]))
		}
	}
	return events
}

// FormatComposing styles the pending spans of c.
func FormatComposing(c event.ComposingText) string {
	runes := []rune(c.Text)
	var b strings.Builder
	pos := 0
	for _, span := range c.Spans {
		if span.Start < pos || span.End > len(runes) {
			continue
		}
		b.WriteString(string(runes[pos:span.Start]))
		b.WriteString(pendingStyle.Render(fmt.Sprintf("[%s]", string(runes[span.Start:span.End]))))
		pos = span.End
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}
