package stt

import (
	"context"
	"sync"

	"github.com/haroai/haro/domain/repositories"
)

// MockTranscriber returns scripted transcripts for tests.
type MockTranscriber struct {
	mu      sync.Mutex
	Scripts []string
	Err     error
	calls   int
}

var _ repositories.Transcriber = (*MockTranscriber)(nil)

func (m *MockTranscriber) Transcribe(_ context.Context, _ []byte, _ repositories.AudioConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.calls
	m.calls++
	if m.Err != nil {
		return "", m.Err
	}
	if idx >= len(m.Scripts) {
		return "", repositories.ErrNoSpeech
	}
	return m.Scripts[idx], nil
}

// Calls reports how many transcriptions were attempted.
func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
