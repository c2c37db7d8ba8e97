package listener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/haroai/haro/domain/repositories"
)

const captureRetryBackoff = 500 * time.Millisecond

// Listener runs the capture loop: it records audio clips from the device,
// transcribes each one, and delivers the resulting utterances on Out.
// Capture and transcription overlap; a slow recognition call never blocks
// the next recording window.
type Listener struct {
	device      repositories.CaptureDevice
	transcriber repositories.Transcriber
	audio       repositories.AudioConfig
	logger      *zap.Logger
	out         chan string
}

// New creates a listener. The channel is buffered so a burst of short
// utterances does not stall the capture loop.
func New(device repositories.CaptureDevice, transcriber repositories.Transcriber, audio repositories.AudioConfig, logger *zap.Logger) *Listener {
	return &Listener{
		device:      device,
		transcriber: transcriber,
		audio:       audio,
		logger:      logger,
		out:         make(chan string, 8),
	}
}

// Out delivers transcribed utterances. It is closed when Run returns.
func (l *Listener) Out() <-chan string {
	return l.out
}

// Run captures until the context is canceled. Transcription failures are
// logged and the loop continues; only context cancellation ends it.
func (l *Listener) Run(ctx context.Context) {
	defer close(l.out)

	for {
		if ctx.Err() != nil {
			return
		}

		audio, err := l.device.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("Audio capture failed, retrying", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(captureRetryBackoff):
			}
			continue
		}
		if len(audio) == 0 {
			continue
		}

		go l.transcribe(ctx, audio)
	}
}

func (l *Listener) transcribe(ctx context.Context, audio []byte) {
	text, err := l.transcriber.Transcribe(ctx, audio, l.audio)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNoSpeech):
			l.logger.Debug("No speech detected in clip")
		case errors.Is(err, repositories.ErrServiceUnavailable):
			l.logger.Warn("Speech recognition unavailable", zap.Error(err))
		default:
			l.logger.Error("Transcription failed", zap.Error(err))
		}
		return
	}

	select {
	case l.out <- text:
	case <-ctx.Done():
	}
}
