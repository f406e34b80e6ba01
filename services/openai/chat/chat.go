package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"linguakit/core"
)

// fallbackReply is returned when the provider answers with an empty
// completion, keeping "provider failed" distinct from "provider said
// nothing".
const fallbackReply = "I'm sorry, I didn't catch that."

// Config holds the configuration for the OpenAI conversation service.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultConfig returns conversation defaults tuned for short tutoring
// exchanges.
func DefaultConfig() Config {
	return Config{
		Model:       openai.GPT4oMini,
		MaxTokens:   300,
		Temperature: 0.7,
	}
}

// OpenAIChatService implements core.Conversationalist on OpenAI chat
// completions.
type OpenAIChatService struct {
	client *openai.Client
	cfg    Config
	logger *core.Logger
}

func NewOpenAIChatService(cfg Config, logger *core.Logger) (*OpenAIChatService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai chat: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	return &OpenAIChatService{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger.With(map[string]interface{}{"service": "openai-chat"}),
	}, nil
}

// Reply sends the composed instruction, the ordered prior transcript, and
// the new user message, and returns the tutor's reply text.
func (s *OpenAIChatService) Reply(ctx context.Context, history []core.Exchange, userText string, instruction string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: instruction,
	})
	for _, e := range history {
		role := openai.ChatMessageRoleUser
		if e.Role == core.ExchangeRoleTutor {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: e.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		s.logger.Warn("provider returned an empty completion")
		return fallbackReply, nil
	}
	return reply, nil
}
