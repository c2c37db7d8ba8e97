package orchestrator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haroai/haro/internal/observability"
	"github.com/haroai/haro/internal/speech"
	"github.com/haroai/haro/usecase"
)

const wakeAcknowledgement = "Hello! How can I help you?"

// State is the orchestrator lifecycle phase.
type State string

const (
	StateStopped      State = "stopped"
	StateInitializing State = "initializing"
	StateListening    State = "listening"
)

// Config configures the turn orchestrator.
type Config struct {
	AIName        string
	WakePhrases   []string
	ShutdownGrace time.Duration
}

// Orchestrator connects recognized utterances to the session and the speech
// queue. It applies the wake filter, routes wake-matched commands through
// the session, and speaks the replies.
type Orchestrator struct {
	session *usecase.Session
	queue   *speech.Queue
	metrics *observability.Metrics
	logger  *zap.Logger

	aiName  string
	phrases []string
	grace   time.Duration

	mu           sync.Mutex
	state        State
	intakeOpen   bool
	shutdownOnce sync.Once
}

// New creates an orchestrator. Wake phrases are matched case-insensitively;
// longer phrases are stripped first so "hey haro" never leaves a dangling
// "hey" behind.
func New(config Config, session *usecase.Session, queue *speech.Queue, metrics *observability.Metrics, logger *zap.Logger) *Orchestrator {
	phrases := make([]string, 0, len(config.WakePhrases))
	for _, phrase := range config.WakePhrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})

	grace := config.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}

	return &Orchestrator{
		session: session,
		queue:   queue,
		metrics: metrics,
		logger:  logger,
		aiName:  config.AIName,
		phrases: phrases,
		grace:   grace,
		state:   StateStopped,
	}
}

// Run speaks the greeting, then consumes utterances until the channel
// closes or the context is canceled. It owns the listening state for its
// whole duration.
func (o *Orchestrator) Run(ctx context.Context, utterances <-chan string) {
	o.mu.Lock()
	o.state = StateInitializing
	o.intakeOpen = true
	o.mu.Unlock()

	greeting := "Hello! I'm " + o.aiName + ", your AI assistant. How can I help you today?"
	o.queue.Enqueue(greeting, false)
	o.metrics.SegmentEnqueued()

	o.mu.Lock()
	o.state = StateListening
	o.mu.Unlock()
	o.logger.Info("Listening for wake phrases", zap.Strings("phrases", o.phrases))

	defer func() {
		o.mu.Lock()
		o.state = StateStopped
		o.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case text, ok := <-utterances:
			if !ok {
				return
			}
			o.HandleUtterance(ctx, text)
		}
	}
}

// HandleUtterance runs one recognized utterance through the wake filter and,
// if it matches, through the session. Replies queue behind whatever is
// already being spoken.
func (o *Orchestrator) HandleUtterance(ctx context.Context, text string) {
	o.mu.Lock()
	open := o.intakeOpen
	o.mu.Unlock()
	if !open {
		return
	}

	command, woke := o.extractCommand(text)
	if !woke {
		o.logger.Debug("Discarding utterance without wake phrase", zap.String("text", text))
		o.metrics.UtteranceDropped()
		return
	}

	if command == "" {
		// Bare activation: acknowledge without consuming a conversation turn.
		o.queue.Enqueue(wakeAcknowledgement, false)
		o.metrics.SegmentEnqueued()
		return
	}

	o.logger.Info("Wake phrase matched", zap.String("command", command))
	start := time.Now()
	reply := o.session.Process(ctx, command)
	o.metrics.TurnProcessed()
	o.metrics.ObserveResponseLatency(time.Since(start))

	o.queue.Enqueue(reply, false)
	o.metrics.SegmentEnqueued()
}

// extractCommand reports whether the utterance contains a wake phrase and
// returns the remainder with every phrase occurrence stripped and the
// whitespace collapsed.
func (o *Orchestrator) extractCommand(text string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return "", false
	}

	matched := false
	for _, phrase := range o.phrases {
		if strings.Contains(lowered, phrase) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	stripped := lowered
	for _, phrase := range o.phrases {
		stripped = strings.ReplaceAll(stripped, phrase, " ")
	}
	return strings.Join(strings.Fields(stripped), " "), true
}

// State returns the lifecycle phase for status surfaces.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Shutdown closes intake, speaks the farewell, waits for playback to drain
// within the grace period, and releases the speech queue. One-shot and safe
// to call from a signal handler goroutine.
func (o *Orchestrator) Shutdown() {
	o.shutdownOnce.Do(func() {
		o.mu.Lock()
		o.intakeOpen = false
		o.mu.Unlock()

		o.logger.Info("Shutting down")
		o.queue.SpeakNow("Goodbye! It was nice talking with you.")
		o.metrics.Interrupted()
		if !o.queue.WaitUntilIdle(o.grace) {
			o.logger.Warn("Playback did not drain before shutdown deadline")
		}
		o.queue.Shutdown()

		o.mu.Lock()
		o.state = StateStopped
		o.mu.Unlock()
	})
}
