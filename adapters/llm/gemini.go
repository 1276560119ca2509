package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.7
	defaultTopP           = 0.9
	defaultMaxTokens      = 512
	defaultTimeoutSeconds = 30
	maxAttempts           = 3
)

// systemPrompt is the fixed tutor persona prepended to every request.
const systemPrompt = `You are a friendly tutoring assistant who helps students ` +
	`from primary school through high school. Answer the student's question ` +
	`clearly, in age-appropriate language, and encourage them to think for ` +
	`themselves. When explaining difficult concepts, use everyday examples. ` +
	`Keep each answer short and to the point, at most three or four sentences.`

// GeminiConfig holds configuration for the GeminiLLM adapter.
// Required fields:
// - APIKey: Your Google AI API key
// Optional fields with defaults:
// - Model: The Gemini model to use (default: "gemini-2.0-flash")
// - Temperature: Sampling temperature between 0 and 1 (default: 0.7)
// - TimeoutSeconds: Bound on each generation call (default: 30)
type GeminiConfig struct {
	APIKey         string
	Model          string
	Temperature    float32
	TimeoutSeconds int
}

// GeminiLLM implements the LargeLanguageModel interface using Google's Gemini API
type GeminiLLM struct {
	client         *genai.Client
	logger         *zap.Logger
	model          string
	temperature    float32
	timeoutSeconds int
}

// Ensure GeminiLLM implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*GeminiLLM)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// NewGeminiLLM creates a new Gemini LLM instance
func NewGeminiLLM(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
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

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &GeminiLLM{
		client:         client,
		logger:         logger,
		model:          model,
		temperature:    temperature,
		timeoutSeconds: timeoutSeconds,
	}, nil
}

// Respond sends the persona, rendered history, and the new query to Gemini
// and returns the reply text.
func (g *GeminiLLM) Respond(ctx context.Context, userQuery, historyText string) (string, error) {
	prompt := buildPrompt(userQuery, historyText)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		TopP:            genai.Ptr(float32(defaultTopP)),
		MaxOutputTokens: int32(defaultMaxTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}

		g.logger.Warn("Failed to generate content, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < maxAttempts-1 {
			select {
			case <-time.After(time.Duration(attempt+1) * time.Second):
			case <-ctx.Done():
				return "", repositories.NewFault(repositories.FaultUpstream, "gemini request cancelled", ctx.Err())
			}
		}
	}
	if err != nil {
		return "", repositories.NewFault(repositories.FaultUpstream, "gemini request failed", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", repositories.NewFault(repositories.FaultUpstream, "gemini returned no candidates", nil)
	}

	var reply strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			reply.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		return "", repositories.NewFault(repositories.FaultUpstream, "gemini returned empty response", nil)
	}

	g.logger.Info("Generated response",
		zap.String("model", g.model),
		zap.Int("historyLength", len(historyText)),
		zap.Int("responseLength", len(text)))
	return text, nil
}

// buildPrompt assembles the single-shot prompt sent to the model.
func buildPrompt(userQuery, historyText string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	if historyText != "" {
		b.WriteString("\n\nConversation so far:\n")
		b.WriteString(historyText)
	}
	b.WriteString("\n\nStudent's question: ")
	b.WriteString(userQuery)
	return b.String()
}
