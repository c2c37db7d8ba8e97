package llm

import (
	"context"
	"sync"

	"github.com/haroai/haro/domain/entities"
	"github.com/haroai/haro/domain/repositories"
)

// MockResponder is a scriptable responder for tests.
type MockResponder struct {
	mu sync.Mutex

	ReplyFunc   func(history []entities.Turn, utterance string) (string, error)
	IntentFunc  func(utterance string) (entities.IntentResult, error)
	ModelLabel  string
	ReplyCalls  int
	IntentCalls int
}

var _ repositories.Responder = (*MockResponder)(nil)

func (m *MockResponder) Reply(_ context.Context, history []entities.Turn, utterance string) (string, error) {
	m.mu.Lock()
	m.ReplyCalls++
	m.mu.Unlock()
	if m.ReplyFunc != nil {
		return m.ReplyFunc(history, utterance)
	}
	return "mock reply to " + utterance, nil
}

func (m *MockResponder) AnalyzeIntent(_ context.Context, utterance string) (entities.IntentResult, error) {
	m.mu.Lock()
	m.IntentCalls++
	m.mu.Unlock()
	if m.IntentFunc != nil {
		return m.IntentFunc(utterance)
	}
	return entities.IntentResult{Intent: "casual_chat", Confidence: 0.5, Entities: []string{}}, nil
}

func (m *MockResponder) Label() string {
	if m.ModelLabel != "" {
		return m.ModelLabel
	}
	return "mock"
}
