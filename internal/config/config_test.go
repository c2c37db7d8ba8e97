package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AIName != "Haro" {
		t.Errorf("Expected default AI name Haro, got %q", cfg.AIName)
	}
	if cfg.Mode != "local" {
		t.Errorf("Expected local mode by default, got %q", cfg.Mode)
	}
	if cfg.MaxExchanges != 10 {
		t.Errorf("Expected default max exchanges 10, got %d", cfg.MaxExchanges)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Expected default temperature 0.7, got %f", cfg.Temperature)
	}
	if len(cfg.WakePhrases) != 3 || cfg.WakePhrases[0] != "hey haro" {
		t.Errorf("Unexpected default wake phrases: %v", cfg.WakePhrases)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HARO_AI_NAME", "Nova")
	t.Setenv("HARO_WAKE_PHRASES", "hey nova, nova ,")
	t.Setenv("HARO_MAX_EXCHANGES", "3")
	t.Setenv("HARO_SPEECH_RATE", "180")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AIName != "Nova" {
		t.Errorf("Expected Nova, got %q", cfg.AIName)
	}
	if len(cfg.WakePhrases) != 2 || cfg.WakePhrases[0] != "hey nova" || cfg.WakePhrases[1] != "nova" {
		t.Errorf("Unexpected wake phrases: %v", cfg.WakePhrases)
	}
	if cfg.MaxExchanges != 3 {
		t.Errorf("Expected 3 exchanges, got %d", cfg.MaxExchanges)
	}
	if cfg.SpeechRate != 180 {
		t.Errorf("Expected rate 180, got %d", cfg.SpeechRate)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad mode", "HARO_MODE", "hybrid"},
		{"bad provider", "HARO_TTS_PROVIDER", "festival"},
		{"negative exchanges", "HARO_MAX_EXCHANGES", "-1"},
		{"temperature too high", "HARO_TEMPERATURE", "3.5"},
		{"unparseable int", "HARO_MAX_OUTPUT_TOKENS", "many"},
		{"zero tokens", "HARO_MAX_OUTPUT_TOKENS", "0"},
		{"volume out of range", "HARO_SPEECH_VOLUME", "1.5"},
		{"zero rate", "HARO_SPEECH_RATE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadRemoteModeRequiresKey(t *testing.T) {
	t.Setenv("HARO_MODE", "remote")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("Expected error for remote mode without API key")
	}

	t.Setenv("GEMINI_API_KEY", "test-key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed with key set: %v", err)
	}
	if cfg.Mode != "remote" {
		t.Errorf("Expected remote mode, got %q", cfg.Mode)
	}
}
