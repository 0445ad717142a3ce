package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typr/internal/logger"
	"github.com/bastiangx/typr/internal/utils"
	"github.com/bastiangx/typr/pkg/config"
	"github.com/bastiangx/typr/pkg/dictionary"
	"github.com/bastiangx/typr/pkg/event"
	"github.com/bastiangx/typr/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultLimit = 10

// maxDecodeErrors is the number of consecutive undecodable frames after
// which the input stream is given up.
const maxDecodeErrors = 8

// Server handles msgpack IPC for completions and one composing session.
type Server struct {
	completer    *suggest.Completer
	config       *config.Config
	configPath   string
	kinds        []event.CombinerKind
	chain        *event.Chain
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	requestCount int
	log          *log.Logger
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(completer *suggest.Completer, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(completer *suggest.Completer, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		completer:  completer,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		log:        logger.New("server"),
	}
	s.applyConfig(cfg)
	return s
}

// Start sends a ready status and serves requests until the input closes.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	failures := 0
	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			if failures++; failures >= maxDecodeErrors {
				return fmt.Errorf("giving up after %d undecodable requests: %w", failures, err)
			}
			continue
		}
		failures = 0
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	s.requestCount++
	if every := s.config.Server.ReloadEvery; every > 0 && s.requestCount%every == 0 {
		s.reloadConfig()
	}

	switch request.Action {
	case "", ActionComplete:
		s.handleComplete(request)
	case ActionWord:
		s.handleWord(request)
	case ActionNext:
		s.handleNext(request)
	case ActionCompose:
		s.handleCompose(request)
	case ActionCommit:
		committed := s.chain.Commit()
		s.sendCompose(request, committed)
	case ActionRevert:
		s.chain.RevertLastEvent()
		s.sendCompose(request, "")
	case ActionReset:
		s.chain.Reset()
		s.sendCompose(request, "")
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Stats: s.completer.Stats()})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown action: %s", request.Action), 400)
	}
}

// applyConfig installs cfg and rebuilds the combiner chain if its kinds
// changed. A rebuilt chain starts empty.
func (s *Server) applyConfig(cfg *config.Config) {
	s.config = cfg
	s.completer.SetMinProbability(cfg.Dict.MinProbability)

	kinds := cfg.CombinerKinds()
	if s.chain != nil && slices.Equal(kinds, s.kinds) {
		return
	}
	combiners, err := event.NewCombiners(kinds)
	if err != nil {
		s.log.Warnf("Falling back to pass-through input: %v", err)
		kinds = []event.CombinerKind{event.CombinerPassThrough}
		combiners = []event.Combiner{event.PassThrough{}}
	}
	s.kinds = kinds
	s.chain = event.NewChain(combiners)
	s.log.Debugf("Combiner chain: %v", kinds)
}

func (s *Server) reloadConfig() {
	if s.configPath == "" {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.log.Warnf("Keeping current config, reload of %s failed: %v", s.configPath, err)
		return
	}
	s.log.Debugf("Reloaded config from %s after %d requests", s.configPath, s.requestCount)
	s.applyConfig(cfg)
}

// validPrefix reports why prefix cannot be completed, or "" when it can.
func (s *Server) validPrefix(prefix string) (string, int) {
	n := utf8.RuneCountInString(prefix)
	switch {
	case prefix == "":
		return "Missing 'p' parameter", 400
	case n < s.config.Server.MinPrefix:
		return fmt.Sprintf("Prefix must be at least %d characters", s.config.Server.MinPrefix), 400
	case n > s.config.Server.MaxPrefix:
		return fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix), 400
	}
	return "", 0
}

func (s *Server) limit(requested int) int {
	limit := requested
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit := s.config.Server.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// complete returns no suggestions for input the filter rejects.
func (s *Server) complete(prefix string, limit int) []suggest.Suggestion {
	if s.config.Server.FilterInput && !utils.IsValidInput(prefix) {
		s.log.Debugf("Filtered prefix '%s'", prefix)
		return nil
	}
	return s.completer.Complete(prefix, limit)
}

func (s *Server) handleComplete(request Request) {
	if msg, code := s.validPrefix(request.Prefix); msg != "" {
		s.log.Debugf("Rejected prefix '%s': %s", request.Prefix, msg)
		s.sendError(request.ID, msg, code)
		return
	}

	start := time.Now()
	suggestions := s.complete(request.Prefix, s.limit(request.Limit))
	elapsed := time.Since(start)

	ranked := toCompletionSuggestions(suggestions)
	s.sendResponse(CompletionResponse{
		ID:          request.ID,
		Suggestions: ranked,
		Count:       len(ranked),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleNext(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	start := time.Now()
	ranked := toCompletionSuggestions(s.completer.NextWords(request.Word, s.limit(request.Limit)))
	s.sendResponse(CompletionResponse{
		ID:          request.ID,
		Suggestions: ranked,
		Count:       len(ranked),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleWord(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	wp, ok := s.completer.Word(request.Word)
	if !ok {
		s.sendResponse(WordResponse{ID: request.ID, Word: request.Word})
		return
	}
	s.sendResponse(wordResponse(request.ID, wp))
}

func wordResponse(id string, wp *dictionary.WordProperty) WordResponse {
	info := wp.ProbabilityInfo()
	resp := WordResponse{
		ID:          id,
		Word:        wp.Word(),
		Found:       true,
		NotAWord:    wp.IsNotAWord(),
		Blacklisted: wp.IsBlacklisted(),
		Debug:       dictionary.Render(wp),
	}
	if p, ok := info.Probability(); ok {
		resp.Probability = p
	}
	if info.HasHistoricalInfo() {
		resp.HistoricalInfo = info.String()
	}
	for i, target := range wp.BigramTargets() {
		resp.Bigrams = append(resp.Bigrams, CompletionSuggestion{Word: target.Word, Rank: uint16(i + 1), Freq: target.Weight})
	}
	for i, sc := range wp.Shortcuts() {
		resp.Shortcuts = append(resp.Shortcuts, CompletionSuggestion{Word: sc.Word, Rank: uint16(i + 1), Freq: sc.Weight, Shortcut: true})
	}
	return resp
}

func (s *Server) handleCompose(request Request) {
	if request.Event == nil {
		s.sendError(request.ID, "Missing 'ev' parameter", 400)
		return
	}
	ev, err := toEvent(*request.Event)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}
	s.chain.ProcessEvent(ev)
	s.sendCompose(request, "")
}

// toEvent maps the wire form onto an input event. Stage output events are
// never accepted from clients.
func toEvent(req EventRequest) (event.Event, error) {
	kind, err := event.ParseKind(req.Kind)
	if err != nil {
		return event.Event{}, err
	}
	var ev event.Event
	switch kind {
	case event.KindInput:
		ev = event.Input(rune(req.CodePoint))
	case event.KindDeadKey:
		ev = event.DeadKey(rune(req.CodePoint))
	case event.KindGesture:
		ev = event.Gesture(req.Text)
	case event.KindSuggestionPicked:
		ev = event.SuggestionPicked(req.Text)
	case event.KindDelete:
		ev = event.Delete()
	default:
		return event.Event{}, fmt.Errorf("event kind %q is not accepted from clients", req.Kind)
	}
	if (kind == event.KindInput || kind == event.KindDeadKey) && !utf8.ValidRune(ev.CodePoint) {
		return event.Event{}, fmt.Errorf("invalid code point %d", req.CodePoint)
	}
	ev.KeyCode = req.KeyCode
	return ev, nil
}

func (s *Server) sendCompose(request Request, committed string) {
	composing := s.chain.ComposingWordWithCombiningFeedback()
	resp := ComposeResponse{
		ID:        request.ID,
		Text:      composing.Text,
		State:     s.chain.State().String(),
		Committed: committed,
	}
	for _, span := range composing.Spans {
		resp.Spans = append(resp.Spans, FeedbackSpan{Start: span.Start, End: span.End, Kind: int(span.Kind)})
	}
	if msg, _ := s.validPrefix(composing.Text); msg == "" {
		resp.Suggestions = toCompletionSuggestions(s.complete(composing.Text, s.limit(request.Limit)))
	}
	resp.Count = len(resp.Suggestions)
	s.sendResponse(resp)
}

// toCompletionSuggestions assigns ranks 1..n in result order.
func toCompletionSuggestions(suggestions []suggest.Suggestion) []CompletionSuggestion {
	ranks := utils.CreateRankList(len(suggestions))
	result := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		result[i] = CompletionSuggestion{
			Word:     sg.Word,
			Rank:     ranks[i],
			Freq:     sg.Frequency,
			Shortcut: sg.Shortcut,
		}
	}
	return result
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
