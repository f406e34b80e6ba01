package factories

import (
	"fmt"

	"linguakit/core"
	"linguakit/services/openai/analysis"
	"linguakit/services/openai/chat"
	"linguakit/services/openai/speech"
	"linguakit/session"
)

// BuildCollaborators constructs the three external services every session
// delegates to. All three share the same API key; per-service models and
// limits come from the settings.
func BuildCollaborators(cfg SettingsConfig, logger *core.Logger) (session.Collaborators, error) {
	if logger == nil {
		logger = core.GetLogger()
	}
	if cfg.OpenAIAPIKey == "" {
		return session.Collaborators{}, fmt.Errorf("factories: OpenAI API key is required (set OPENAI_API_KEY or openai_api_key in settings)")
	}

	chatSvc, err := chat.NewOpenAIChatService(chat.Config{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.Chat.Model,
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	}, logger)
	if err != nil {
		return session.Collaborators{}, err
	}

	speechSvc, err := speech.NewOpenAISpeechService(speech.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.Speech.Model,
	}, logger)
	if err != nil {
		return session.Collaborators{}, err
	}

	analysisSvc, err := analysis.NewOpenAIAnalysisService(analysis.Config{
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.Analysis.Model,
		MaxTokens: cfg.Analysis.MaxTokens,
	}, logger)
	if err != nil {
		return session.Collaborators{}, err
	}

	return session.Collaborators{
		Chat:     chatSvc,
		Speech:   speechSvc,
		Analysis: analysisSvc,
	}, nil
}
