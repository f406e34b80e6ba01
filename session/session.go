package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"linguakit/audio"
	"linguakit/capture"
	"linguakit/core"
	"linguakit/language"
	"linguakit/scenario"
)

// State is the top-level session state. Recording and per-turn synthesis
// are orthogonal sub-states and never appear here.
type State string

const (
	StateUnconfigured  State = "unconfigured"
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting_reply"
)

// Author identifies who produced a turn.
type Author string

const (
	AuthorUser  Author = "user"
	AuthorTutor Author = "tutor"
)

// Turn is one conversational exchange item. Text and authorship are
// immutable once appended; only the audio fields mutate, by id lookup,
// when synthesis starts and completes.
type Turn struct {
	ID           uuid.UUID
	Author       Author
	Text         string
	CreatedAt    time.Time
	Audio        *audio.Resource // nil until synthesis completes
	Synthesizing bool
}

var (
	ErrAlreadyConfigured = errors.New("session: already configured")
	ErrNotConfigured     = errors.New("session: not configured")
	ErrIncompleteSetup   = errors.New("session: language pair and scenario are required")
	ErrBusy              = errors.New("session: a reply is pending")
	ErrEmptyMessage      = errors.New("session: empty message")
	ErrUnknownTurn       = errors.New("session: unknown turn")
	ErrRequestInFlight   = errors.New("session: request already in flight")
	ErrNotEnoughContext  = errors.New("session: not enough conversation context")
)

// Listener receives session updates. Callbacks fire while the session lock
// is held so their order matches the order transitions were accepted;
// implementations must not call back into the session.
type Listener interface {
	TurnAppended(t Turn)
	TurnUpdated(t Turn)
	PendingChanged(pending bool)
	RecordingChanged(active bool)
	StagedInput(text string)
	Notice(text string)
	GrammarReady(c *core.GrammarCorrection)
	VocabularyReady(items []core.VocabularySuggestion)
	ReviewReady(r *core.ReviewSession)
}

// NopListener is a Listener that ignores everything. Embed it to implement
// only the callbacks a surface cares about.
type NopListener struct{}

func (NopListener) TurnAppended(Turn)                           {}
func (NopListener) TurnUpdated(Turn)                            {}
func (NopListener) PendingChanged(bool)                         {}
func (NopListener) RecordingChanged(bool)                       {}
func (NopListener) StagedInput(string)                          {}
func (NopListener) Notice(string)                               {}
func (NopListener) GrammarReady(*core.GrammarCorrection)        {}
func (NopListener) VocabularyReady([]core.VocabularySuggestion) {}
func (NopListener) ReviewReady(*core.ReviewSession)             {}

// Collaborators bundles the external services a session delegates to.
type Collaborators struct {
	Chat     core.Conversationalist
	Speech   core.SpeechSynthesizer
	Analysis core.Analyst
}

// Config wires a session to its collaborators and its playback sink.
type Config struct {
	Collaborators Collaborators
	// Recognizer provides speech capture. nil means the capability is
	// unavailable in this environment.
	Recognizer capture.Recognizer
	Sink       audio.Sink
	Logger     *core.Logger
	// SampleRate and Channels describe the provider's raw PCM payloads.
	// Zero values fall back to the audio package defaults.
	SampleRate int
	Channels   int
}

// SetupRequest carries the configuration choices finalized on the setup
// screen.
type SetupRequest struct {
	NativeCode string                `json:"native_code"`
	TargetCode string                `json:"target_code"`
	ScenarioID string                `json:"scenario_id"`
	Custom     scenario.CustomFields `json:"custom"`
}

// Session owns the ordered transcript and serializes user actions against
// the in-flight reply state. It is the single writer of the turn list;
// presentation surfaces read snapshots via Turns.
type Session struct {
	mu sync.Mutex

	cfg      Config
	listener Listener
	logger   *core.Logger

	state  State
	epoch  int // bumped on Exit so stale completions are dropped
	ctx    context.Context
	cancel context.CancelFunc

	native      language.Language
	target      language.Language
	scen        scenario.Scenario
	instruction string
	autoplay    bool

	turns []Turn

	recording  bool
	transcript capture.Transcript

	grammarBusy bool
	vocabBusy   bool
	reviewBusy  bool

	store *audio.Store
	slot  *audio.Slot
}

// New creates an unconfigured session. Autoplay defaults to on.
func New(cfg Config, listener Listener) *Session {
	if listener == nil {
		listener = NopListener{}
	}
	if cfg.Logger == nil {
		cfg.Logger = core.GetLogger()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audio.DefaultSampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = audio.DefaultChannels
	}
	return &Session{
		cfg:      cfg,
		listener: listener,
		logger:   cfg.Logger.With(map[string]interface{}{"component": "session"}),
		state:    StateUnconfigured,
		ctx:      context.Background(),
		cancel:   func() {},
		autoplay: true,
		store:    audio.NewStore(),
		slot:     audio.NewSlot(cfg.Sink),
	}
}

// Configure finalizes the language pair and scenario and opens the session
// with a synthetic tutor greeting. Valid only from Unconfigured; any
// refusal leaves the state untouched.
func (s *Session) Configure(req SetupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnconfigured {
		return ErrAlreadyConfigured
	}

	native, ok := language.ByCode(req.NativeCode)
	if !ok {
		return fmt.Errorf("%w: unknown native language %q", ErrIncompleteSetup, req.NativeCode)
	}
	target, ok := language.ByCode(req.TargetCode)
	if !ok {
		return fmt.Errorf("%w: unknown target language %q", ErrIncompleteSetup, req.TargetCode)
	}
	scen, ok := scenario.ByID(req.ScenarioID)
	if !ok {
		return fmt.Errorf("%w: unknown scenario %q", ErrIncompleteSetup, req.ScenarioID)
	}
	if scen.ID == scenario.CustomID {
		materialized, err := scenario.Materialize(req.Custom, target)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIncompleteSetup, err)
		}
		scen = materialized
	}

	s.native = native
	s.target = target
	s.scen = scen
	s.instruction = scenario.Instruction(scen, target, native)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.state = StateIdle

	greeting := s.appendTurnLocked(AuthorTutor, scen.Greeting(target))
	if s.autoplay {
		s.beginSynthesisLocked(greeting.ID)
	}
	return nil
}

// SendMessage appends the user's turn optimistically and requests a tutor
// reply. Valid only from Idle with non-empty trimmed text; a pending reply
// gates further sends.
func (s *Session) SendMessage(text string) error {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	switch s.state {
	case StateUnconfigured:
		s.mu.Unlock()
		return ErrNotConfigured
	case StateAwaitingReply:
		s.mu.Unlock()
		return ErrBusy
	}
	if trimmed == "" {
		s.mu.Unlock()
		return ErrEmptyMessage
	}

	if s.recording {
		s.stopRecordingLocked()
	}
	s.transcript.Reset()
	s.listener.StagedInput("")

	history := s.historyLocked()
	s.appendTurnLocked(AuthorUser, trimmed)
	s.state = StateAwaitingReply
	s.listener.PendingChanged(true)

	ctx, epoch, instruction := s.ctx, s.epoch, s.instruction
	s.mu.Unlock()

	go s.deliverReply(ctx, epoch, history, trimmed, instruction)
	return nil
}

func (s *Session) deliverReply(ctx context.Context, epoch int, history []core.Exchange, userText, instruction string) {
	reply, err := s.cfg.Collaborators.Chat.Reply(ctx, history, userText, instruction)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.state != StateAwaitingReply {
		return
	}
	s.state = StateIdle
	s.listener.PendingChanged(false)

	if err != nil {
		// The user's message stays in the transcript unanswered; they may
		// simply send again.
		s.logger.With(map[string]interface{}{"error": err}).Error("conversation request failed")
		return
	}

	tutorTurn := s.appendTurnLocked(AuthorTutor, reply)
	if s.autoplay {
		s.beginSynthesisLocked(tutorTurn.ID)
	}
}

// RequestSpeech plays the turn's cached audio, or synthesizes it first.
// Valid from any configured state, independent of a pending reply.
func (s *Session) RequestSpeech(turnID uuid.UUID) error {
	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return ErrNotConfigured
	}
	idx := s.indexOfLocked(turnID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrUnknownTurn
	}
	t := &s.turns[idx]
	if t.Audio != nil {
		err := s.slot.Set(t.Audio)
		s.mu.Unlock()
		return err
	}
	if t.Synthesizing {
		s.mu.Unlock()
		return nil
	}
	s.beginSynthesisLocked(turnID)
	s.mu.Unlock()
	return nil
}

// beginSynthesisLocked marks the turn as synthesizing and kicks off the
// provider call. Caller holds the lock.
func (s *Session) beginSynthesisLocked(turnID uuid.UUID) {
	idx := s.indexOfLocked(turnID)
	if idx < 0 {
		return
	}
	t := &s.turns[idx]
	t.Synthesizing = true
	s.listener.TurnUpdated(*t)

	go s.synthesize(s.ctx, s.epoch, turnID, t.Text, s.target.Voice)
}

func (s *Session) synthesize(ctx context.Context, epoch int, turnID uuid.UUID, text, voice string) {
	payload, err := s.cfg.Collaborators.Speech.Synthesize(ctx, text, voice)

	var res *audio.Resource
	if err == nil {
		res, err = s.store.FromBase64PCM(payload, s.cfg.SampleRate, s.cfg.Channels)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		// The session was discarded mid-call; drop the orphaned resource.
		if res != nil {
			s.store.Release(res.ID)
		}
		return
	}
	idx := s.indexOfLocked(turnID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	t := &s.turns[idx]
	t.Synthesizing = false
	if err != nil {
		// The turn stays silent; no retry is scheduled.
		s.logger.With(map[string]interface{}{"turn": turnID.String(), "error": err}).Error("speech synthesis failed")
		s.listener.TurnUpdated(*t)
		s.mu.Unlock()
		return
	}
	t.Audio = res
	s.listener.TurnUpdated(*t)
	// Playback starts inside the epoch-guarded section so a concurrent Exit
	// cannot be outrun by a stale resource.
	s.slot.Set(res)
	s.mu.Unlock()
}

// AnalyzeGrammar runs the grammar side request for one sentence. It is not
// gated by a pending reply and tracks its own loading flag.
func (s *Session) AnalyzeGrammar(text string) error {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return ErrNotConfigured
	}
	if trimmed == "" {
		s.mu.Unlock()
		return ErrEmptyMessage
	}
	if s.grammarBusy {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.grammarBusy = true
	ctx, epoch, targetName := s.ctx, s.epoch, s.target.Name
	s.mu.Unlock()

	go func() {
		result, err := s.cfg.Collaborators.Analysis.AnalyzeGrammar(ctx, targetName, trimmed)
		if err != nil {
			s.logger.With(map[string]interface{}{"error": err}).Error("grammar analysis failed")
			result = nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		s.grammarBusy = false
		s.listener.GrammarReady(result)
	}()
	return nil
}

// RequestVocabulary asks for contextual vocabulary hints based on the
// active scenario and the recent transcript.
func (s *Session) RequestVocabulary() error {
	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return ErrNotConfigured
	}
	if s.vocabBusy {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.vocabBusy = true
	ctx, epoch, targetName := s.ctx, s.epoch, s.target.Name
	scenarioContext := s.scen.Title + ": " + s.scen.Description
	recent := s.recentHistoryLocked(5)
	s.mu.Unlock()

	go func() {
		items, err := s.cfg.Collaborators.Analysis.SuggestVocabulary(ctx, targetName, scenarioContext, recent)
		if err != nil {
			s.logger.With(map[string]interface{}{"error": err}).Error("vocabulary request failed")
			items = nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		s.vocabBusy = false
		s.listener.VocabularyReady(items)
	}()
	return nil
}

// RequestReview generates the grammar summary and practice quiz for the
// whole conversation. Refused until at least 2 turns exist.
func (s *Session) RequestReview() error {
	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return ErrNotConfigured
	}
	if len(s.turns) < 2 {
		s.mu.Unlock()
		return ErrNotEnoughContext
	}
	if s.reviewBusy {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.reviewBusy = true
	ctx, epoch, targetName := s.ctx, s.epoch, s.target.Name
	conversation := s.conversationTextLocked()
	s.mu.Unlock()

	go func() {
		review, err := s.cfg.Collaborators.Analysis.GenerateReview(ctx, targetName, conversation)
		if err != nil {
			s.logger.With(map[string]interface{}{"error": err}).Error("review generation failed")
			review = nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		s.reviewBusy = false
		s.listener.ReviewReady(review)
	}()
	return nil
}

// ToggleRecording starts or stops the speech-capture sub-session. Starting
// stops active playback first; capture and playback are mutually exclusive
// by policy.
func (s *Session) ToggleRecording() error {
	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return ErrNotConfigured
	}
	if s.recording {
		s.stopRecordingLocked()
		s.mu.Unlock()
		return nil
	}
	if s.cfg.Recognizer == nil {
		s.listener.Notice("Speech recognition is not supported in this environment.")
		s.mu.Unlock()
		return capture.ErrUnavailable
	}
	ctx, lang, epoch := s.ctx, s.target.Code, s.epoch
	s.mu.Unlock()

	s.slot.Stop()

	frags, err := s.cfg.Recognizer.Start(ctx, lang)
	if err != nil {
		s.mu.Lock()
		if errors.Is(err, capture.ErrUnavailable) {
			s.listener.Notice("Speech recognition is not supported in this environment.")
		} else {
			s.logger.With(map[string]interface{}{"error": err}).Error("speech capture failed to start")
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.epoch != epoch || s.state == StateUnconfigured {
		// The session was discarded while the recognizer was starting.
		s.mu.Unlock()
		s.cfg.Recognizer.Stop()
		return nil
	}
	s.recording = true
	s.listener.RecordingChanged(true)
	s.mu.Unlock()

	go s.consumeFragments(epoch, frags)
	return nil
}

func (s *Session) consumeFragments(epoch int, frags <-chan capture.Fragment) {
	for f := range frags {
		s.mu.Lock()
		if s.epoch != epoch || !s.recording {
			s.mu.Unlock()
			return
		}
		s.transcript.Apply(f)
		s.listener.StagedInput(s.transcript.Text())
		s.mu.Unlock()
	}

	// The recognizer ended on its own.
	s.mu.Lock()
	if s.epoch == epoch && s.recording {
		s.recording = false
		s.listener.RecordingChanged(false)
	}
	s.mu.Unlock()
}

func (s *Session) stopRecordingLocked() {
	s.recording = false
	s.cfg.Recognizer.Stop()
	s.listener.RecordingChanged(false)
}

// SetAutoplay flips the audio-autoplay preference. Allowed in any state,
// including while a reply is pending.
func (s *Session) SetAutoplay(on bool) {
	s.mu.Lock()
	s.autoplay = on
	s.mu.Unlock()
}

// Exit discards the session wholesale: playback stops, every audio
// resource is released, and the state returns to Unconfigured.
func (s *Session) Exit() {
	s.mu.Lock()
	if s.state == StateUnconfigured {
		s.mu.Unlock()
		return
	}
	if s.recording {
		s.stopRecordingLocked()
	}
	s.cancel()
	s.epoch++
	s.state = StateUnconfigured
	s.turns = nil
	s.transcript.Reset()
	s.grammarBusy = false
	s.vocabBusy = false
	s.reviewBusy = false
	s.ctx = context.Background()
	s.cancel = func() {}
	s.mu.Unlock()

	s.slot.Stop()
	s.store.ReleaseAll()
}

// --- snapshots ---

// State returns the current top-level state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a chat reply is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAwaitingReply
}

// Recording reports whether speech capture is active.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Autoplay reports the autoplay preference.
func (s *Session) Autoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoplay
}

// StagedText returns the staged input built from capture fragments.
func (s *Session) StagedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Text()
}

// Turns returns a snapshot of the transcript in conversational order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Scenario returns the active (possibly materialized) scenario.
func (s *Session) Scenario() scenario.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scen
}

// Languages returns the configured native and target languages.
func (s *Session) Languages() (native, target language.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.native, s.target
}

// --- internals (lock held) ---

func (s *Session) appendTurnLocked(author Author, text string) Turn {
	t := Turn{
		ID:        uuid.New(),
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.turns = append(s.turns, t)
	s.listener.TurnAppended(t)
	return t
}

func (s *Session) indexOfLocked(id uuid.UUID) int {
	for i := range s.turns {
		if s.turns[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) historyLocked() []core.Exchange {
	history := make([]core.Exchange, 0, len(s.turns))
	for _, t := range s.turns {
		role := core.ExchangeRoleUser
		if t.Author == AuthorTutor {
			role = core.ExchangeRoleTutor
		}
		history = append(history, core.Exchange{Role: role, Text: t.Text})
	}
	return history
}

func (s *Session) recentHistoryLocked(n int) string {
	start := 0
	if len(s.turns) > n {
		start = len(s.turns) - n
	}
	lines := make([]string, 0, n)
	for _, t := range s.turns[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Author, t.Text))
	}
	return strings.Join(lines, "\n")
}

func (s *Session) conversationTextLocked() string {
	lines := make([]string, 0, len(s.turns))
	for _, t := range s.turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Author, t.Text))
	}
	return strings.Join(lines, "\n\n")
}
