package protocol

import (
	"encoding/json"

	"linguakit/core"
	"linguakit/scenario"
	"linguakit/session"
)

// MessageType enumerates all messages exchanged with the browser client.
type MessageType string

const (
	// Client -> Engine
	MsgHello           MessageType = "hello"
	MsgConfigure       MessageType = "configure"
	MsgSendMessage     MessageType = "send_message"
	MsgRequestSpeech   MessageType = "request_speech"
	MsgToggleRecording MessageType = "toggle_recording"
	MsgCaptureFragment MessageType = "capture_fragment"
	MsgAnalyzeGrammar  MessageType = "analyze_grammar"
	MsgVocabulary      MessageType = "vocabulary"
	MsgReview          MessageType = "review"
	MsgSetAutoplay     MessageType = "set_autoplay"
	MsgExit            MessageType = "exit"

	// Engine -> Client
	MsgTurnAdded    MessageType = "turn_added"
	MsgTurnUpdated  MessageType = "turn_updated"
	MsgPending      MessageType = "pending"
	MsgRecording    MessageType = "recording"
	MsgStagedInput  MessageType = "staged_input"
	MsgNotice       MessageType = "notice"
	MsgGrammar      MessageType = "grammar"
	MsgVocabResult  MessageType = "vocabulary_result"
	MsgReviewResult MessageType = "review_result"
	MsgPlayAudio    MessageType = "play_audio"
	MsgStopAudio    MessageType = "stop_audio"
	MsgError        MessageType = "error"
)

// Envelope is the outer JSON wrapper for all WebSocket messages.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Client -> Engine payloads ---

// HelloPayload announces the client's capabilities right after connecting.
type HelloPayload struct {
	// SpeechCapture is true when the browser can run speech recognition
	// and relay fragments over this connection.
	SpeechCapture bool `json:"speech_capture"`
}

// ConfigurePayload carries the finalized setup choices.
type ConfigurePayload = session.SetupRequest

// SendMessagePayload carries one user message.
type SendMessagePayload struct {
	Text string `json:"text"`
}

// RequestSpeechPayload addresses one turn for playback.
type RequestSpeechPayload struct {
	TurnID string `json:"turn_id"`
}

// CaptureFragmentPayload relays one recognized speech fragment from the
// browser's recognition engine.
type CaptureFragmentPayload struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// AnalyzeGrammarPayload addresses one sentence for correction.
type AnalyzeGrammarPayload struct {
	Text string `json:"text"`
}

// SetAutoplayPayload flips the autoplay preference.
type SetAutoplayPayload struct {
	Enabled bool `json:"enabled"`
}

// --- Engine -> Client payloads ---

// TurnPayload is the wire form of one transcript turn.
type TurnPayload struct {
	ID           string `json:"id"`
	Author       string `json:"author"`
	Text         string `json:"text"`
	CreatedAt    int64  `json:"created_at"`
	AudioRef     string `json:"audio_ref,omitempty"`
	Synthesizing bool   `json:"synthesizing"`
}

// TurnFromSession converts a session turn snapshot to its wire form.
func TurnFromSession(t session.Turn) TurnPayload {
	p := TurnPayload{
		ID:           t.ID.String(),
		Author:       string(t.Author),
		Text:         t.Text,
		CreatedAt:    t.CreatedAt.UnixMilli(),
		Synthesizing: t.Synthesizing,
	}
	if t.Audio != nil {
		p.AudioRef = t.Audio.Ref()
	}
	return p
}

// FlagPayload carries a boolean state change (pending, recording, ...).
type FlagPayload struct {
	Value bool `json:"value"`
}

// TextPayload carries a plain text value (staged input, notices).
type TextPayload struct {
	Text string `json:"text"`
}

// GrammarPayload wraps a grammar result; Result is null on failure.
type GrammarPayload struct {
	Result *core.GrammarCorrection `json:"result"`
}

// VocabularyPayload wraps vocabulary suggestions; empty on failure.
type VocabularyPayload struct {
	Suggestions []core.VocabularySuggestion `json:"suggestions"`
}

// ReviewPayload wraps a review session; Result is null on failure.
type ReviewPayload struct {
	Result *core.ReviewSession `json:"result"`
}

// PlayAudioPayload carries a playable WAV container for one resource.
type PlayAudioPayload struct {
	Ref  string `json:"ref"`
	WAV  []byte `json:"wav"` // base64 on the wire
	Mime string `json:"mime"`
}

// ErrorPayload reports a refused action.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ScenarioPayload is the catalog form of a scenario for the setup screen.
type ScenarioPayload = scenario.Scenario
