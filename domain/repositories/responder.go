package repositories

import (
	"context"

	"github.com/haroai/haro/domain/entities"
)

// Responder turns an utterance into reply text. Implementations are either
// remote (language-model completion endpoint, driven by the full ordered
// history) or local (rule matching over the raw utterance). The variant is
// chosen once at session construction.
type Responder interface {
	// Reply generates the assistant's reply. history is the ordered
	// conversation so far, not yet including the current utterance.
	// Any error is absorbed by the session's fallback path.
	Reply(ctx context.Context, history []entities.Turn, utterance string) (string, error)

	// AnalyzeIntent classifies a single utterance. It never mutates
	// conversation state.
	AnalyzeIntent(ctx context.Context, utterance string) (entities.IntentResult, error)

	// Label names the generation backend for status reporting.
	Label() string
}
