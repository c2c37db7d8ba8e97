package llm

import (
	"testing"

	"google.golang.org/genai"

	"github.com/haroai/haro/domain/entities"
)

func TestValidateGeminiConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  GeminiConfig
		wantErr bool
	}{
		{"missing api key", GeminiConfig{}, true},
		{"valid minimal", GeminiConfig{APIKey: "key"}, false},
		{"valid full", GeminiConfig{APIKey: "key", Temperature: 0.7, MaxOutputTokens: 150, TimeoutSeconds: 30}, false},
		{"temperature too high", GeminiConfig{APIKey: "key", Temperature: 2.5}, true},
		{"negative temperature", GeminiConfig{APIKey: "key", Temperature: -0.1}, true},
		{"negative max tokens", GeminiConfig{APIKey: "key", MaxOutputTokens: -1}, true},
		{"negative timeout", GeminiConfig{APIKey: "key", TimeoutSeconds: -1}, true},
	}

	for _, tt := range tests {
		err := ValidateGeminiConfig(tt.config)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: ValidateGeminiConfig() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestParseIntentResult(t *testing.T) {
	result, err := parseIntentResult(`{"intent": "greeting", "confidence": 0.9, "entities": ["morning"], "requires_action": false}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Intent != "greeting" {
		t.Errorf("Expected intent greeting, got %q", result.Intent)
	}
	if result.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", result.Confidence)
	}
	if len(result.Entities) != 1 || result.Entities[0] != "morning" {
		t.Errorf("Unexpected entities: %v", result.Entities)
	}
}

func TestParseIntentResultClampsConfidence(t *testing.T) {
	result, err := parseIntentResult(`{"intent": "command", "confidence": 1.7}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Expected confidence clamped to 1.0, got %f", result.Confidence)
	}
	if result.Entities == nil {
		t.Error("Expected entities to default to an empty slice")
	}
}

func TestParseIntentResultFailures(t *testing.T) {
	if _, err := parseIntentResult("not json at all"); err == nil {
		t.Error("Expected error for malformed JSON")
	}
	if _, err := parseIntentResult(`{"confidence": 0.5}`); err == nil {
		t.Error("Expected error when intent field is missing")
	}
}

func TestHistoryToContents(t *testing.T) {
	history := []entities.Turn{
		{Role: entities.RoleSystem, Text: "You are Haro."},
		{Role: entities.RoleUser, Text: "hello"},
		{Role: entities.RoleAssistant, Text: "hi there"},
	}

	contents := historyToContents(history)
	if len(contents) != 3 {
		t.Fatalf("Expected 3 contents, got %d", len(contents))
	}
	// System turns ride along as user content.
	if contents[0].Role != genai.RoleUser {
		t.Errorf("Expected system turn converted to user role, got %q", contents[0].Role)
	}
	if contents[1].Role != genai.RoleUser {
		t.Errorf("Expected user role, got %q", contents[1].Role)
	}
	if contents[2].Role != genai.RoleModel {
		t.Errorf("Expected model role for assistant turn, got %q", contents[2].Role)
	}
}
