package tts

import (
	"strings"
	"sync"
	"time"

	"github.com/haroai/haro/domain/repositories"
)

// MockSynthesizer records rendered segments for tests. A non-zero Delay
// makes Speak block so interruption timing can be exercised; Stop unblocks
// the in-flight Speak.
type MockSynthesizer struct {
	Delay time.Duration

	mu     sync.Mutex
	spoken []string
	stop   chan struct{}
	closed bool
}

var _ repositories.Synthesizer = (*MockSynthesizer)(nil)

func (m *MockSynthesizer) Speak(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	stop := make(chan struct{})
	m.stop = stop
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-stop:
		}
	}
	return nil
}

func (m *MockSynthesizer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

func (m *MockSynthesizer) Close() error {
	m.Stop()
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Spoken returns the segments whose rendering started, in order.
func (m *MockSynthesizer) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Closed reports whether Close was called.
func (m *MockSynthesizer) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
