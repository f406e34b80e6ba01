package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sashabaranov/go-openai"

	"linguakit/core"
)

// Config holds the configuration for the OpenAI analysis service, which
// backs the grammar, vocabulary, and review side requests.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
}

func DefaultConfig() Config {
	return Config{
		Model:     openai.GPT4oMini,
		MaxTokens: 1024,
	}
}

// OpenAIAnalysisService implements core.Analyst with JSON-mode chat
// completions decoded via sonic.
type OpenAIAnalysisService struct {
	client *openai.Client
	cfg    Config
	logger *core.Logger
}

func NewOpenAIAnalysisService(cfg Config, logger *core.Logger) (*OpenAIAnalysisService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai analysis: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &OpenAIAnalysisService{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger.With(map[string]interface{}{"service": "openai-analysis"}),
	}, nil
}

// completeJSON runs one JSON-mode completion and returns the raw document.
func (s *OpenAIAnalysisService) completeJSON(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("analysis completion: no choices returned")
	}
	return []byte(resp.Choices[0].Message.Content), nil
}

// AnalyzeGrammar checks one sentence for grammar and vocabulary mistakes,
// suggesting a more natural phrasing when the sentence is already correct.
func (s *OpenAIAnalysisService) AnalyzeGrammar(ctx context.Context, targetLanguage string, sentence string) (*core.GrammarCorrection, error) {
	prompt := fmt.Sprintf(
		"Analyze the following sentence in %s for grammar and vocabulary mistakes. If it is correct, suggest a more natural way to say it.\n\nSentence: %s\n\n"+
			`Respond with a JSON object: {"original": string, "corrected": string, "explanation": string, "mistakeType": "Grammar" | "Vocabulary" | "Spelling" | "None"}`,
		targetLanguage, sentence,
	)

	doc, err := s.completeJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var correction core.GrammarCorrection
	if err := sonic.Unmarshal(doc, &correction); err != nil {
		return nil, fmt.Errorf("decode grammar correction: %w", err)
	}
	switch correction.MistakeType {
	case core.MistakeGrammar, core.MistakeVocabulary, core.MistakeSpelling, core.MistakeNone:
	default:
		correction.MistakeType = core.MistakeNone
	}
	return &correction, nil
}

// SuggestVocabulary asks for 3 useful terms for the user's next response in
// the current scenario.
func (s *OpenAIAnalysisService) SuggestVocabulary(ctx context.Context, targetLanguage string, scenarioContext string, recentHistory string) ([]core.VocabularySuggestion, error) {
	var b strings.Builder
	b.WriteString("You are a vocabulary tutor.\n")
	fmt.Fprintf(&b, "Target Language: %s\n", targetLanguage)
	fmt.Fprintf(&b, "Scenario: %s\n", scenarioContext)
	fmt.Fprintf(&b, "Recent Conversation: %s\n\n", recentHistory)
	b.WriteString("Suggest 3 useful, high-quality vocabulary words, idioms, or short phrases that the user could effectively use in their NEXT response or generally in this context. ")
	b.WriteString("If the language is Chinese (any variant), include Pinyin in the pronunciation field.\n\n")
	b.WriteString(`Respond with a JSON object: {"suggestions": [{"term": string, "pronunciation": string, "translation": string, "example": string}]}`)

	doc, err := s.completeJSON(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var payload struct {
		Suggestions []core.VocabularySuggestion `json:"suggestions"`
	}
	if err := sonic.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("decode vocabulary suggestions: %w", err)
	}
	return payload.Suggestions, nil
}

// GenerateReview summarizes the conversation's grammar points and builds a
// multiple-choice quiz testing them.
func (s *OpenAIAnalysisService) GenerateReview(ctx context.Context, targetLanguage string, conversation string) (*core.ReviewSession, error) {
	var b strings.Builder
	b.WriteString("Act as a strict but helpful language teacher.\n")
	fmt.Fprintf(&b, "Analyze the following conversation history in %s.\n\n", targetLanguage)
	b.WriteString("1. Identify the 3 most important grammar rules or patterns that appeared (or were misused) in the conversation.\n")
	b.WriteString("2. Summarize these rules with explanations and reference the user's or tutor's messages as examples.\n")
	b.WriteString("3. Create 3 multiple-choice practice questions (Quiz) specifically testing these rules to help the user practice.\n\n")
	fmt.Fprintf(&b, "Conversation History:\n%s\n\n", conversation)
	b.WriteString(`Respond with a JSON object: {"summary": [{"ruleName": string, "explanation": string, "exampleFromChat": string}], "quiz": [{"question": string, "options": [4 strings], "correctAnswerIndex": 0-3, "explanation": string}]}`)

	doc, err := s.completeJSON(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var review core.ReviewSession
	if err := sonic.Unmarshal(doc, &review); err != nil {
		return nil, fmt.Errorf("decode review session: %w", err)
	}

	// Drop questions the model got structurally wrong rather than failing
	// the whole review.
	valid := review.Quiz[:0]
	for _, q := range review.Quiz {
		if len(q.Options) == 4 && q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < 4 {
			valid = append(valid, q)
		}
	}
	review.Quiz = valid
	return &review, nil
}
