package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haroai/haro/domain/entities"
	"github.com/haroai/haro/domain/repositories"
)

const emptyUtterancePrompt = "I didn't catch that. Could you say it again?"

// fallbackReplies are spoken when the responder fails. One is recorded as
// the assistant turn so the history keeps alternating in pairs.
var fallbackReplies = []string{
	"I'm sorry, I'm having trouble understanding right now. Could you try again?",
	"I seem to be experiencing some technical difficulties. Please give me a moment.",
	"I'm not quite sure how to respond to that. Could you rephrase your question?",
}

// SessionConfig configures a conversation session.
type SessionConfig struct {
	AIName       string
	SystemPrompt string
	MaxExchanges int
}

// Summary is a point-in-time view of the conversation state.
type Summary struct {
	TotalExchanges int    `json:"total_exchanges"`
	HistoryLength  int    `json:"history_length"`
	AIName         string `json:"ai_name"`
	Model          string `json:"model"`
}

// Session owns the conversation history and user context, and converts
// utterances into replies through the responder chosen at construction.
// All methods are mutually exclusive on one Session instance; concurrent
// mutation would corrupt the eviction invariants.
type Session struct {
	mu        sync.Mutex
	conv      *entities.Conversation
	responder repositories.Responder
	userCtx   map[string]string
	aiName    string
	logger    *zap.Logger
}

// NewSession creates a session bound to the given responder.
func NewSession(config SessionConfig, responder repositories.Responder, logger *zap.Logger) *Session {
	return &Session{
		conv:      entities.NewConversation(config.SystemPrompt, config.MaxExchanges),
		responder: responder,
		userCtx:   make(map[string]string),
		aiName:    config.AIName,
		logger:    logger,
	}
}

// Process converts one utterance into a reply. On responder failure it
// returns a fallback apology and records that apology as the assistant
// turn; failures never propagate past the session boundary.
func (s *Session) Process(ctx context.Context, utterance string) string {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return emptyUtterancePrompt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.responder.Reply(ctx, s.conv.Turns(), utterance)
	if err != nil {
		s.logger.Error("Responder failed, using fallback reply", zap.Error(err))
		reply = s.fallbackReply()
	} else {
		reply = strings.TrimSpace(reply)
		if reply == "" {
			s.logger.Warn("Responder returned empty reply, using fallback")
			reply = s.fallbackReply()
		}
	}

	s.conv.AddExchange(utterance, reply)

	s.logger.Info("Processed utterance",
		zap.String("conversation_id", s.conv.ID),
		zap.Int("history_length", s.conv.Len()),
		zap.Int("exchanges", s.conv.Exchanges()))
	return reply
}

// AnalyzeIntent classifies an utterance without touching history. On any
// classifier failure it returns the unknown result.
func (s *Session) AnalyzeIntent(ctx context.Context, utterance string) entities.IntentResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.responder.AnalyzeIntent(ctx, utterance)
	if err != nil {
		s.logger.Warn("Intent analysis failed", zap.Error(err))
		return entities.UnknownIntent()
	}
	return result
}

// Reset clears the history back to just the system turn. User context is
// unaffected.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("Resetting conversation history", zap.String("conversation_id", s.conv.ID))
	s.conv.Reset()
}

// SetContext stores session-scoped metadata; last write wins.
func (s *Session) SetContext(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userCtx[key] = value
}

// GetContext retrieves session-scoped metadata.
func (s *Session) GetContext(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.userCtx[key]
	return value, ok
}

// Summary reports conversation counters for status surfaces.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		TotalExchanges: s.conv.Exchanges(),
		HistoryLength:  s.conv.Len(),
		AIName:         s.aiName,
		Model:          s.responder.Label(),
	}
}

// History returns a copy of the ordered turn history.
func (s *Session) History() []entities.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Turns()
}

func (s *Session) fallbackReply() string {
	index := int(time.Now().UnixNano()) % len(fallbackReplies)
	if index < 0 {
		index = -index
	}
	return fallbackReplies[index]
}
