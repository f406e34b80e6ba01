package factories

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsConfigFromJSON(t *testing.T) {
	cfg, err := SettingsConfigFromJSON([]byte(`{
		"openai_api_key": "sk-test",
		"chat": {"model": "gpt-4o", "max_tokens": 200, "temperature": 0.5},
		"speech": {"model": "tts-1-hd"},
		"analysis": {"max_tokens": 2048}
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.OpenAIAPIKey)
	}
	if cfg.Chat.Model != "gpt-4o" || cfg.Chat.MaxTokens != 200 {
		t.Errorf("chat settings = %+v", cfg.Chat)
	}
	if cfg.Speech.Model != "tts-1-hd" {
		t.Errorf("speech settings = %+v", cfg.Speech)
	}
	if cfg.Analysis.MaxTokens != 2048 {
		t.Errorf("analysis settings = %+v", cfg.Analysis)
	}
}

func TestSettingsConfigFromJSONRejectsGarbage(t *testing.T) {
	if _, err := SettingsConfigFromJSON([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"openai_api_key": "sk-file"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-file" {
		t.Errorf("api key = %q", cfg.OpenAIAPIKey)
	}
}

func TestLoadSettingsFromEnvB64(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte(`{"chat": {"model": "gpt-4o-mini"}}`))
	t.Setenv("SETTINGS_JSON_B64", raw)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if cfg.Chat.Model != "gpt-4o-mini" {
		t.Errorf("chat model = %q", cfg.Chat.Model)
	}
	if cfg.OpenAIAPIKey != "sk-env" {
		t.Errorf("api key should fall back to OPENAI_API_KEY, got %q", cfg.OpenAIAPIKey)
	}
}

func TestBuildCollaboratorsRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := BuildCollaborators(SettingsConfig{}, nil); err == nil {
		t.Error("expected error without an API key")
	}
}
