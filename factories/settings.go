package factories

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// ChatSettings tunes the conversation service. Zero values fall back to the
// service defaults.
type ChatSettings struct {
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// SpeechSettings tunes the synthesis service.
type SpeechSettings struct {
	Model string `json:"model,omitempty"`
}

// AnalysisSettings tunes the grammar/vocabulary/review service.
type AnalysisSettings struct {
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// SettingsConfig is the top-level config loaded from settings.json. The API
// key is normally supplied via the OPENAI_API_KEY environment variable; a
// key in the file takes precedence.
type SettingsConfig struct {
	OpenAIAPIKey string           `json:"openai_api_key,omitempty"`
	Chat         ChatSettings     `json:"chat,omitempty"`
	Speech       SpeechSettings   `json:"speech,omitempty"`
	Analysis     AnalysisSettings `json:"analysis,omitempty"`
}

// DefaultSettingsConfig returns a SettingsConfig with every tunable left to
// the service defaults.
func DefaultSettingsConfig() SettingsConfig {
	return SettingsConfig{}
}

// SettingsConfigFromJSON parses a JSON blob into a SettingsConfig.
func SettingsConfigFromJSON(data []byte) (SettingsConfig, error) {
	var cfg SettingsConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return SettingsConfig{}, fmt.Errorf("settings: %w", err)
	}
	return cfg, nil
}

// SettingsConfigFromFile reads and parses a SettingsConfig from a JSON file.
func SettingsConfigFromFile(path string) (SettingsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettingsConfig(), fmt.Errorf("settings: read %q: %w", path, err)
	}
	return SettingsConfigFromJSON(data)
}

// LoadSettings resolves the effective settings: an explicit file path wins,
// then the SETTINGS_JSON_B64 environment variable, then defaults. The API
// key falls back to OPENAI_API_KEY when the settings leave it empty.
func LoadSettings(path string) (SettingsConfig, error) {
	cfg := DefaultSettingsConfig()

	switch {
	case path != "":
		loaded, err := SettingsConfigFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	case os.Getenv("SETTINGS_JSON_B64") != "":
		raw, err := base64.StdEncoding.DecodeString(os.Getenv("SETTINGS_JSON_B64"))
		if err != nil {
			return cfg, fmt.Errorf("settings: decode SETTINGS_JSON_B64: %w", err)
		}
		loaded, err := SettingsConfigFromJSON(raw)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}
