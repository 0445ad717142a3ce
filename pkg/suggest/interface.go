// Package suggest ranks dictionary entries as completions and next-word candidates.
package suggest

import "github.com/bastiangx/typr/pkg/dictionary"

// ICompleter is what the CLI and the IPC server need from a completion engine.
type ICompleter interface {
	// Complete returns up to limit candidates starting with prefix
	Complete(prefix string, limit int) []Suggestion

	// NextWords returns the bigram successors of word, in dictionary order
	NextWords(word string, limit int) []Suggestion

	// Word returns the dictionary entry for word, matching case first
	Word(word string) (*dictionary.WordProperty, bool)

	// Stats returns counters about the loaded dictionary and cache
	Stats() map[string]int
}
