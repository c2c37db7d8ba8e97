package offline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haroai/haro/domain/entities"
	"github.com/haroai/haro/domain/repositories"
)

// Responder generates replies from fixed rule tables with no network
// access. Rule categories are evaluated in a fixed priority order and the
// first match wins.
type Responder struct {
	aiName string
	logger *zap.Logger

	mu        sync.Mutex
	rng       *rand.Rand
	knowledge map[string]string
	clock     func() time.Time
}

var _ repositories.Responder = (*Responder)(nil)

// NewResponder creates the offline responder.
func NewResponder(aiName string, logger *zap.Logger) *Responder {
	return &Responder{
		aiName:    aiName,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		knowledge: make(map[string]string),
		clock:     time.Now,
	}
}

// Reply matches the utterance against the rule tables. The conversation
// history is ignored; only the current utterance drives the reply.
func (r *Responder) Reply(_ context.Context, _ []entities.Turn, utterance string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(utterance))

	switch {
	case containsAny(lower, greetingWords):
		return r.pick(greetingPool), nil
	case containsAny(lower, goodbyeWords):
		return r.pick(goodbyePool), nil
	case containsAny(lower, thanksWords):
		return r.pick(thanksPool), nil
	case containsAny(lower, timeWords):
		return r.timeReply(), nil
	case containsAny(lower, dateWords):
		return r.dateReply(), nil
	case containsAny(lower, weatherWords):
		return r.pick(weatherPool), nil
	case containsAny(lower, mathWords):
		return evaluateMath(utterance), nil
	case containsAny(lower, robotWords):
		return r.pick(robotPool), nil
	case containsAny(lower, capabilitiesWords):
		return r.pick(capabilitiesPool), nil
	case containsAny(lower, identityWords):
		return fmt.Sprintf("I'm %s, %s. I can help you with many things like answering questions, basic calculations, and friendly conversation!", r.aiName, assistantPurpose), nil
	default:
		return r.pick(unknownPool), nil
	}
}

// AnalyzeIntent classifies the utterance with the same keyword heuristics.
func (r *Responder) AnalyzeIntent(_ context.Context, utterance string) (entities.IntentResult, error) {
	lower := strings.ToLower(utterance)

	var intent string
	var confidence float64
	switch {
	case containsAny(lower, []string{"hello", "hi", "hey"}):
		intent, confidence = "greeting", 0.9
	case containsAny(lower, []string{"goodbye", "bye"}):
		intent, confidence = "goodbye", 0.9
	case containsAny(lower, []string{"time", "clock"}):
		intent, confidence = "time_query", 0.8
	case containsAny(lower, []string{"date", "today"}):
		intent, confidence = "date_query", 0.8
	case containsAny(lower, []string{"calculate", "math", "+", "-", "*", "/"}):
		intent, confidence = "calculation", 0.7
	case containsAny(lower, []string{"weather"}):
		intent, confidence = "weather_query", 0.8
	case strings.Contains(utterance, "?"):
		intent, confidence = "question", 0.6
	default:
		intent, confidence = "casual_chat", 0.5
	}

	return entities.IntentResult{
		Intent:         intent,
		Confidence:     confidence,
		Entities:       []string{},
		RequiresAction: intent == "calculation" || intent == "time_query" || intent == "date_query",
	}, nil
}

// Label names the backend for status reporting.
func (r *Responder) Label() string {
	return "local knowledge base"
}

// AddKnowledge registers a custom fact retrievable by topic.
func (r *Responder) AddKnowledge(topic, information string) {
	r.mu.Lock()
	r.knowledge[topic] = information
	r.mu.Unlock()
	r.logger.Debug("Added knowledge", zap.String("topic", topic))
}

// Knowledge looks up a fact, custom entries first.
func (r *Responder) Knowledge(topic string) (string, bool) {
	r.mu.Lock()
	info, ok := r.knowledge[topic]
	r.mu.Unlock()
	if ok {
		return info, true
	}
	info, ok = builtinFacts[topic]
	return info, ok
}

func (r *Responder) timeReply() string {
	now := r.clock()
	options := []string{
		"The current time is " + now.Format("15:04"),
		"It's " + now.Format("3:04 PM") + " right now",
	}
	return r.pick(options)
}

func (r *Responder) dateReply() string {
	now := r.clock()
	options := []string{
		"Today is " + now.Format("Monday, January 2, 2006"),
		"The date is " + now.Format("01/02/2006"),
	}
	return r.pick(options)
}

func (r *Responder) pick(pool []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.rng.Intn(len(pool))]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
