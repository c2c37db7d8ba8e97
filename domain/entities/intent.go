package entities

// IntentResult is the per-utterance classification consumed by the
// orchestrator for optional branching. It is never persisted.
type IntentResult struct {
	Intent         string   `json:"intent"`
	Confidence     float64  `json:"confidence"`
	Entities       []string `json:"entities"`
	RequiresAction bool     `json:"requires_action"`
}

// UnknownIntent is the fallback returned when classification fails.
func UnknownIntent() IntentResult {
	return IntentResult{
		Intent:     "unknown",
		Confidence: 0.0,
		Entities:   []string{},
	}
}
