package entities

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the sender of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in the conversation history.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation owns the ordered turn history for one assistant session.
// The system turn, when present, is always element 0 and is never evicted.
// Conversation is not safe for concurrent use; the owning session
// serializes access.
type Conversation struct {
	ID           string
	turns        []Turn
	maxExchanges int
}

// NewConversation creates a conversation seeded with a single system turn.
// maxExchanges bounds how many user/assistant pairs are remembered.
func NewConversation(systemPrompt string, maxExchanges int) *Conversation {
	if maxExchanges < 0 {
		maxExchanges = 0
	}
	c := &Conversation{
		ID:           uuid.New().String(),
		maxExchanges: maxExchanges,
	}
	c.seed(systemPrompt)
	return c
}

func (c *Conversation) seed(systemPrompt string) {
	c.turns = c.turns[:0]
	if systemPrompt != "" {
		c.turns = append(c.turns, Turn{
			Role:      RoleSystem,
			Text:      systemPrompt,
			Timestamp: time.Now(),
		})
	}
}

// AddExchange appends one user/assistant pair and evicts the oldest pairs
// once the budget is exceeded. Pairs are always appended and evicted
// together so the history alternates user/assistant after the system turn.
func (c *Conversation) AddExchange(userText, assistantText string) {
	now := time.Now()
	c.turns = append(c.turns,
		Turn{Role: RoleUser, Text: userText, Timestamp: now},
		Turn{Role: RoleAssistant, Text: assistantText, Timestamp: now},
	)
	c.trim()
}

func (c *Conversation) trim() {
	base := 0
	if c.hasSystemTurn() {
		base = 1
	}
	max := c.maxExchanges * 2
	for len(c.turns)-base > max {
		// Drop the oldest user/assistant pair.
		c.turns = append(c.turns[:base], c.turns[base+2:]...)
	}
}

func (c *Conversation) hasSystemTurn() bool {
	return len(c.turns) > 0 && c.turns[0].Role == RoleSystem
}

// Turns returns a copy of the ordered history.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns including the system turn.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Exchanges returns the number of completed user/assistant pairs.
func (c *Conversation) Exchanges() int {
	if c.hasSystemTurn() {
		return (len(c.turns) - 1) / 2
	}
	return len(c.turns) / 2
}

// Reset clears the history back to just the system turn.
func (c *Conversation) Reset() {
	var systemPrompt string
	if c.hasSystemTurn() {
		systemPrompt = c.turns[0].Text
	}
	c.seed(systemPrompt)
}
