package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/haroai/haro/domain/entities"
	"github.com/haroai/haro/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.7
	defaultMaxTokens      = 150
	defaultTimeoutSeconds = 30
)

// GeminiConfig holds configuration for the remote responder.
// APIKey is required; everything else has a default.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int
	TimeoutSeconds  int
}

// ValidateGeminiConfig validates the GeminiConfig.
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Gemini API key is required")
	}
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", config.Temperature)
	}
	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", config.MaxOutputTokens)
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// GeminiResponder generates replies by sending the full ordered history to
// the Gemini completion endpoint. Transport and generation failures
// propagate to the caller; the session owns the fallback behavior.
type GeminiResponder struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
	timeoutSeconds  int
}

var _ repositories.Responder = (*GeminiResponder)(nil)

// NewGeminiResponder creates the remote responder. A missing API key is a
// constructor error so remote mode fails at startup, not mid-conversation.
func NewGeminiResponder(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiResponder, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}
	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		// Replies are spoken aloud, so keep them short.
		maxOutputTokens = defaultMaxTokens
	}
	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &GeminiResponder{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		timeoutSeconds:  timeoutSeconds,
	}, nil
}

// Reply sends the role-tagged history plus the current utterance and returns
// the trimmed text of the top completion.
func (g *GeminiResponder) Reply(ctx context.Context, history []entities.Turn, utterance string) (string, error) {
	contents := historyToContents(history)
	contents = append(contents, genai.NewContentFromText(utterance, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: int32(g.maxOutputTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := responseText(response)
	if text == "" {
		return "", fmt.Errorf("empty completion from model %s", g.model)
	}

	g.logger.Debug("Generated reply",
		zap.Int("history_length", len(history)),
		zap.Int("reply_length", len(text)))
	return text, nil
}

const intentPromptFormat = `Analyze the following user input and determine the intent.
Respond with JSON in this format:
{"intent": "category", "confidence": 0.8, "entities": ["entity1", "entity2"], "requires_action": false}

Intent categories: greeting, question, request, goodbye, casual_chat, command

User input: %q`

// AnalyzeIntent asks the model for a structured classification of a single
// utterance. Conversation history is never involved.
func (g *GeminiResponder) AnalyzeIntent(ctx context.Context, utterance string) (entities.IntentResult, error) {
	prompt := fmt.Sprintf(intentPromptFormat, utterance)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  100,
		ResponseMIMEType: "application/json",
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return entities.IntentResult{}, fmt.Errorf("analyze intent: %w", err)
	}

	return parseIntentResult(responseText(response))
}

// Label names the backend for status reporting.
func (g *GeminiResponder) Label() string {
	return g.model
}

func parseIntentResult(raw string) (entities.IntentResult, error) {
	var result entities.IntentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return entities.IntentResult{}, fmt.Errorf("parse intent result: %w", err)
	}
	if result.Intent == "" {
		return entities.IntentResult{}, fmt.Errorf("intent result missing intent field")
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if result.Entities == nil {
		result.Entities = []string{}
	}
	return result, nil
}

func historyToContents(history []entities.Turn) []*genai.Content {
	var contents []*genai.Content
	for _, turn := range history {
		var role genai.Role
		switch turn.Role {
		case entities.RoleAssistant:
			role = genai.RoleModel
		default:
			// System turns ride along as user content; Gemini has no
			// dedicated system role in the contents list.
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return contents
}

func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return strings.TrimSpace(text)
}
