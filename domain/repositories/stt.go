package repositories

import (
	"context"
	"errors"
)

// Transcription failures the capture loop is expected to log and loop past.
var (
	// ErrNoSpeech means the clip contained no recognizable speech.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrServiceUnavailable means the recognition service could not be reached.
	ErrServiceUnavailable = errors.New("speech service unavailable")
)

// AudioConfig describes a captured audio clip for recognition.
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}

// Transcriber converts a bounded audio clip to text. Treated as unreliable:
// failures are classified, never fatal to the capture loop.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, config AudioConfig) (string, error)
}

// CaptureDevice records one bounded audio clip from the microphone. Capture
// blocks until a phrase boundary, silence timeout, or the hard time limit.
type CaptureDevice interface {
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}
