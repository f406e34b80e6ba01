package gateway

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"linguakit/audio"
	"linguakit/capture"
	"linguakit/core"
	"linguakit/protocol"
	"linguakit/session"
)

// outboundBuffer bounds the per-connection write queue. A client that cannot
// keep up loses updates rather than stalling the session.
const outboundBuffer = 256

// Client owns one WebSocket connection and the session behind it. It is the
// session's Listener (state changes become envelopes), its audio Sink
// (playback commands ship the WAV container to the browser), and the relay
// for the browser's speech recognition.
type Client struct {
	conn       *websocket.Conn
	sess       *session.Session
	recognizer *browserRecognizer
	logger     *core.Logger

	outbound chan []byte
	done     chan struct{}
}

func newClient(conn *websocket.Conn, collaborators session.Collaborators, logger *core.Logger) *Client {
	c := &Client{
		conn:       conn,
		recognizer: newBrowserRecognizer(),
		logger:     logger.With(map[string]interface{}{"remote": conn.RemoteAddr().String()}),
		outbound:   make(chan []byte, outboundBuffer),
		done:       make(chan struct{}),
	}
	c.sess = session.New(session.Config{
		Collaborators: collaborators,
		Recognizer:    c.recognizer,
		Sink:          c,
		Logger:        logger,
	}, c)
	return c
}

// run services the connection until it closes, then tears the session down.
func (c *Client) run() {
	go c.writeLoop()
	defer func() {
		close(c.done)
		c.sess.Exit()
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.With(map[string]interface{}{"error": err}).Warn("connection closed unexpectedly")
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	msgType, raw, err := protocol.Unmarshal(data)
	if err != nil {
		c.sendError(err)
		return
	}

	switch msgType {
	case protocol.MsgHello:
		handle(c, raw, func(p protocol.HelloPayload) error {
			c.recognizer.setSupported(p.SpeechCapture)
			return nil
		})
	case protocol.MsgConfigure:
		handle(c, raw, func(p protocol.ConfigurePayload) error {
			return c.sess.Configure(p)
		})
	case protocol.MsgSendMessage:
		handle(c, raw, func(p protocol.SendMessagePayload) error {
			return c.sess.SendMessage(p.Text)
		})
	case protocol.MsgRequestSpeech:
		handle(c, raw, func(p protocol.RequestSpeechPayload) error {
			id, err := uuid.Parse(p.TurnID)
			if err != nil {
				return session.ErrUnknownTurn
			}
			return c.sess.RequestSpeech(id)
		})
	case protocol.MsgToggleRecording:
		if err := c.sess.ToggleRecording(); err != nil {
			c.sendError(err)
		}
	case protocol.MsgCaptureFragment:
		handle(c, raw, func(p protocol.CaptureFragmentPayload) error {
			c.recognizer.deliver(capture.Fragment{Text: p.Text, Final: p.Final})
			return nil
		})
	case protocol.MsgAnalyzeGrammar:
		handle(c, raw, func(p protocol.AnalyzeGrammarPayload) error {
			return c.sess.AnalyzeGrammar(p.Text)
		})
	case protocol.MsgVocabulary:
		if err := c.sess.RequestVocabulary(); err != nil {
			c.sendError(err)
		}
	case protocol.MsgReview:
		if err := c.sess.RequestReview(); err != nil {
			c.sendError(err)
		}
	case protocol.MsgSetAutoplay:
		handle(c, raw, func(p protocol.SetAutoplayPayload) error {
			c.sess.SetAutoplay(p.Enabled)
			return nil
		})
	case protocol.MsgExit:
		c.sess.Exit()
	default:
		c.logger.With(map[string]interface{}{"type": string(msgType)}).Warn("unknown message type")
	}
}

// handle decodes a payload and runs the action, reporting any refusal back
// to the client.
func handle[T any](c *Client, raw json.RawMessage, action func(T) error) {
	payload, err := protocol.UnmarshalPayload[T](raw)
	if err != nil {
		c.sendError(err)
		return
	}
	if err := action(payload); err != nil {
		c.sendError(err)
	}
}

// --- outbound ---

func (c *Client) writeLoop() {
	for {
		select {
		case data := <-c.outbound:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) send(msgType protocol.MessageType, payload interface{}) {
	data, err := protocol.Marshal(msgType, payload)
	if err != nil {
		c.logger.With(map[string]interface{}{"type": string(msgType), "error": err}).Error("marshal outbound message")
		return
	}
	select {
	case c.outbound <- data:
	default:
		c.logger.With(map[string]interface{}{"type": string(msgType)}).Warn("outbound queue full, dropping message")
	}
}

func (c *Client) sendError(err error) {
	c.send(protocol.MsgError, protocol.ErrorPayload{Message: err.Error()})
}

// --- session.Listener ---

func (c *Client) TurnAppended(t session.Turn) {
	c.send(protocol.MsgTurnAdded, protocol.TurnFromSession(t))
}

func (c *Client) TurnUpdated(t session.Turn) {
	c.send(protocol.MsgTurnUpdated, protocol.TurnFromSession(t))
}

func (c *Client) PendingChanged(pending bool) {
	c.send(protocol.MsgPending, protocol.FlagPayload{Value: pending})
}

func (c *Client) RecordingChanged(active bool) {
	c.send(protocol.MsgRecording, protocol.FlagPayload{Value: active})
}

func (c *Client) StagedInput(text string) {
	c.send(protocol.MsgStagedInput, protocol.TextPayload{Text: text})
}

func (c *Client) Notice(text string) {
	c.send(protocol.MsgNotice, protocol.TextPayload{Text: text})
}

func (c *Client) GrammarReady(result *core.GrammarCorrection) {
	c.send(protocol.MsgGrammar, protocol.GrammarPayload{Result: result})
}

func (c *Client) VocabularyReady(items []core.VocabularySuggestion) {
	c.send(protocol.MsgVocabResult, protocol.VocabularyPayload{Suggestions: items})
}

func (c *Client) ReviewReady(result *core.ReviewSession) {
	c.send(protocol.MsgReviewResult, protocol.ReviewPayload{Result: result})
}

// --- audio.Sink ---

// Play ships the turn's WAV container to the browser, which owns the actual
// audio element.
func (c *Client) Play(res *audio.Resource) error {
	c.send(protocol.MsgPlayAudio, protocol.PlayAudioPayload{
		Ref:  res.Ref(),
		WAV:  res.Data,
		Mime: "audio/wav",
	})
	return nil
}

func (c *Client) Stop() {
	c.send(protocol.MsgStopAudio, nil)
}
