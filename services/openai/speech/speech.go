package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"linguakit/core"
)

// Config holds the configuration for the OpenAI speech service. The PCM
// response format is fixed: raw 24 kHz mono signed 16-bit little-endian,
// which is what the audio package's container synthesizer expects.
type Config struct {
	APIKey string
	Model  string
}

func DefaultConfig() Config {
	return Config{
		Model: string(openai.TTSModel1),
	}
}

// OpenAISpeechService implements core.SpeechSynthesizer on the OpenAI
// speech endpoint.
type OpenAISpeechService struct {
	client *openai.Client
	cfg    Config
	logger *core.Logger
}

func NewOpenAISpeechService(cfg Config, logger *core.Logger) (*OpenAISpeechService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai speech: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	return &OpenAISpeechService{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger.With(map[string]interface{}{"service": "openai-speech"}),
	}, nil
}

// Synthesize returns the provider's raw PCM payload base64-encoded, or
// core.ErrSpeechUnavailable when the provider cannot produce audio.
func (s *OpenAISpeechService) Synthesize(ctx context.Context, text string, voice string) (string, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrSpeechUnavailable, err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("%w: read audio payload: %v", core.ErrSpeechUnavailable, err)
	}
	if len(pcm) == 0 {
		return "", core.ErrSpeechUnavailable
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}
