package speech

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haroai/haro/domain/repositories"
)

const (
	idlePollInterval = 10 * time.Millisecond
	workerJoinWait   = 2 * time.Second
)

// Request is one pending text segment.
type Request struct {
	ID   string
	Text string
}

// Queue serializes spoken playback: a single worker goroutine renders at
// most one segment at a time through the synthesizer, which it owns
// exclusively. Segments play in strict FIFO order until an interrupt starts
// a new ordering epoch and discards everything pending.
type Queue struct {
	synth  repositories.Synthesizer
	logger *zap.Logger

	mu       sync.Mutex
	pending  []Request
	speaking bool
	closed   bool
	wake     *sync.Cond

	done         chan struct{}
	shutdownOnce sync.Once
}

// NewQueue creates the queue and starts its worker.
func NewQueue(synth repositories.Synthesizer, logger *zap.Logger) *Queue {
	q := &Queue{
		synth:  synth,
		logger: logger,
		done:   make(chan struct{}),
	}
	q.wake = sync.NewCond(&q.mu)
	go q.worker()
	return q
}

func (q *Queue) worker() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.wake.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}
		req := q.pending[0]
		q.pending = q.pending[1:]
		q.speaking = true
		q.mu.Unlock()

		q.logger.Debug("Speaking segment", zap.String("request_id", req.ID))
		if err := q.synth.Speak(req.Text); err != nil {
			q.logger.Error("Playback failed", zap.String("request_id", req.ID), zap.Error(err))
		}

		q.mu.Lock()
		q.speaking = false
		q.mu.Unlock()
	}
}

// Enqueue adds a text segment for playback. Empty or whitespace-only text
// is a no-op. With interrupt set, the in-flight segment is halted and every
// pending segment is discarded before the new text starts: a new ordering
// epoch, not a priority insert.
func (q *Queue) Enqueue(text string, interrupt bool) {
	if strings.TrimSpace(text) == "" {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	if interrupt {
		discarded := len(q.pending)
		q.pending = q.pending[:0]
		if q.speaking {
			q.synth.Stop()
		}
		if discarded > 0 || q.speaking {
			q.logger.Debug("Interrupt epoch started", zap.Int("discarded", discarded))
		}
	}

	q.pending = append(q.pending, Request{ID: uuid.New().String(), Text: text})
	q.wake.Broadcast()
}

// SpeakNow halts current playback, discards everything pending, and renders
// the text as the sole segment of a fresh epoch. The caller never blocks on
// playback.
func (q *Queue) SpeakNow(text string) {
	q.Enqueue(text, true)
}

// Stop halts in-flight playback if any. Pending segments stay queued; the
// worker proceeds to the next one.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.speaking {
		q.synth.Stop()
	}
}

// IsBusy reports whether a segment is in flight or pending.
func (q *Queue) IsBusy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.speaking || len(q.pending) > 0
}

// Depth returns the number of pending segments, excluding any in flight.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// WaitUntilIdle blocks until nothing is in flight or pending, or the
// timeout elapses. It reports whether idleness was reached in time.
func (q *Queue) WaitUntilIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !q.IsBusy() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(idlePollInterval)
	}
}

// Shutdown stops the worker, joins it with a bounded wait, and releases the
// synthesizer. Safe to call from any goroutine; repeated calls are no-ops.
func (q *Queue) Shutdown() {
	q.shutdownOnce.Do(func() {
		q.mu.Lock()
		q.pending = q.pending[:0]
		q.closed = true
		if q.speaking {
			q.synth.Stop()
		}
		q.wake.Broadcast()
		q.mu.Unlock()

		select {
		case <-q.done:
		case <-time.After(workerJoinWait):
			q.logger.Warn("Speech worker did not stop within join timeout")
		}

		if err := q.synth.Close(); err != nil {
			q.logger.Error("Failed to close synthesizer", zap.Error(err))
		}
		q.logger.Info("Speech queue shut down")
	})
}
