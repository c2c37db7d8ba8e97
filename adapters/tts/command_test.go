package tts

import (
	"testing"

	"go.uber.org/zap"
)

func TestValidateCommandConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  CommandConfig
		wantErr bool
	}{
		{"defaults", CommandConfig{}, false},
		{"valid", CommandConfig{Rate: 150, Volume: 0.9}, false},
		{"negative rate", CommandConfig{Rate: -1}, true},
		{"volume too high", CommandConfig{Volume: 1.5}, true},
		{"negative volume", CommandConfig{Volume: -0.1}, true},
	}
	for _, tt := range tests {
		err := ValidateCommandConfig(tt.config)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: ValidateCommandConfig() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestSelectVoice(t *testing.T) {
	logger := zap.NewNop()
	voices := []string{"en", "en-us", "en+f3"}

	if got := selectVoice(voices, 1, logger); got != "en-us" {
		t.Errorf("Expected en-us for index 1, got %q", got)
	}
	// Out-of-range index degrades to the default voice.
	if got := selectVoice(voices, 7, logger); got != "en" {
		t.Errorf("Expected fallback to default voice, got %q", got)
	}
	if got := selectVoice(voices, -1, logger); got != "en" {
		t.Errorf("Expected fallback for negative index, got %q", got)
	}
	if got := selectVoice(nil, 0, logger); got != "en" {
		t.Errorf("Expected builtin default voices, got %q", got)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{}); err == nil {
		t.Error("Expected error for missing API key")
	}
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "key"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "key", Stability: 1.5}); err == nil {
		t.Error("Expected error for out-of-range stability")
	}
}
