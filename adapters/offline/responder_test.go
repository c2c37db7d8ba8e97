package offline

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestResponder() *Responder {
	return NewResponder("Haro", zap.NewNop())
}

func reply(t *testing.T, r *Responder, utterance string) string {
	t.Helper()
	text, err := r.Reply(context.Background(), nil, utterance)
	if err != nil {
		t.Fatalf("Reply(%q) returned error: %v", utterance, err)
	}
	return text
}

func inPool(text string, pool []string) bool {
	for _, p := range pool {
		if text == p {
			return true
		}
	}
	return false
}

func TestGreetingRule(t *testing.T) {
	r := newTestResponder()
	for _, utterance := range []string{"hello there", "Hey!", "good morning"} {
		if !inPool(reply(t, r, utterance), greetingPool) {
			t.Errorf("Expected greeting reply for %q", utterance)
		}
	}
}

func TestGoodbyeRule(t *testing.T) {
	r := newTestResponder()
	if !inPool(reply(t, r, "ok goodbye now"), goodbyePool) {
		t.Error("Expected goodbye reply")
	}
}

func TestRulePriorityGreetingBeforeCapabilities(t *testing.T) {
	// "hello, what can you do" matches greeting and capabilities; greeting
	// is evaluated first and must win.
	r := newTestResponder()
	if !inPool(reply(t, r, "hello, what can you do"), greetingPool) {
		t.Error("Greeting rule should take priority over capabilities")
	}
}

func TestTimeReplyUsesClock(t *testing.T) {
	r := newTestResponder()
	fixed := time.Date(2025, time.March, 5, 14, 30, 0, 0, time.UTC)
	r.clock = func() time.Time { return fixed }

	text := reply(t, r, "what time is it")
	if !strings.Contains(text, "14:30") && !strings.Contains(text, "2:30 PM") {
		t.Errorf("Time reply %q does not contain the current time", text)
	}
}

func TestMathEvaluation(t *testing.T) {
	r := newTestResponder()

	text := reply(t, r, "calculate 4*5")
	if !strings.Contains(text, "20") {
		t.Errorf("Expected 4*5 to evaluate to 20, got %q", text)
	}

	text = reply(t, r, "what is 15 plus 7")
	if !strings.HasPrefix(text, "The answer is") && text != mathHelp {
		t.Errorf("Expected the math handler for %q, got %q", "what is 15 plus 7", text)
	}
}

func TestMathWithoutDigitsReturnsHelp(t *testing.T) {
	r := newTestResponder()
	if text := reply(t, r, "calculate"); text != mathHelp {
		t.Errorf("Expected help string, got %q", text)
	}
}

func TestMathDivisionByZeroReturnsHelp(t *testing.T) {
	r := newTestResponder()
	if text := reply(t, r, "calculate 10/0"); text != mathHelp {
		t.Errorf("Expected help string for division by zero, got %q", text)
	}
}

func TestMathMalformedExpressionReturnsHelp(t *testing.T) {
	r := newTestResponder()
	if text := reply(t, r, "calculate 4*(5"); text != mathHelp {
		t.Errorf("Expected help string for malformed expression, got %q", text)
	}
}

func TestExtractExpression(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"calculate 4*5", "4*5"},
		{"what is (2+3)*4 please", "(2+3)*4"},
		{"calculate", ""},
		{"10 times 3", "10"},
	}
	for _, tt := range tests {
		if got := extractExpression(tt.in); got != tt.want {
			t.Errorf("extractExpression(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIdentityRule(t *testing.T) {
	r := newTestResponder()
	text := reply(t, r, "tell me about yourself")
	if !strings.Contains(text, "Haro") {
		t.Errorf("Identity reply should mention the assistant name, got %q", text)
	}
}

func TestUnknownFallsThrough(t *testing.T) {
	r := newTestResponder()
	if !inPool(reply(t, r, "quantum entanglement"), unknownPool) {
		t.Error("Expected an unknown-topic reply")
	}
}

func TestAnalyzeIntent(t *testing.T) {
	r := newTestResponder()
	tests := []struct {
		utterance      string
		intent         string
		requiresAction bool
	}{
		{"hello there", "greeting", false},
		{"bye now", "goodbye", false},
		{"what time is it", "time_query", true},
		{"calculate 2+2", "calculation", true},
		{"weather tomorrow", "weather_query", false},
		{"is that so?", "question", false},
		{"nice one", "casual_chat", false},
	}
	for _, tt := range tests {
		got, err := r.AnalyzeIntent(context.Background(), tt.utterance)
		if err != nil {
			t.Fatalf("AnalyzeIntent(%q) returned error: %v", tt.utterance, err)
		}
		if got.Intent != tt.intent {
			t.Errorf("AnalyzeIntent(%q).Intent = %q, want %q", tt.utterance, got.Intent, tt.intent)
		}
		if got.RequiresAction != tt.requiresAction {
			t.Errorf("AnalyzeIntent(%q).RequiresAction = %v, want %v", tt.utterance, got.RequiresAction, tt.requiresAction)
		}
		if got.Confidence <= 0 || got.Confidence > 1 {
			t.Errorf("AnalyzeIntent(%q).Confidence = %f out of range", tt.utterance, got.Confidence)
		}
	}
}

func TestKnowledge(t *testing.T) {
	r := newTestResponder()

	if _, ok := r.Knowledge("raspberry_pi"); !ok {
		t.Error("Expected builtin fact raspberry_pi")
	}

	r.AddKnowledge("raspberry_pi", "custom override")
	if info, _ := r.Knowledge("raspberry_pi"); info != "custom override" {
		t.Errorf("Custom knowledge should shadow builtin, got %q", info)
	}

	if _, ok := r.Knowledge("nonexistent"); ok {
		t.Error("Expected no knowledge for unknown topic")
	}
}
