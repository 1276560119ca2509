package llm

import (
	"context"
	"fmt"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

// MockLLM is a placeholder implementation for testing without API access
type MockLLM struct {
	Reply string
	Err   error
	// LastQuery and LastHistory record the most recent call for assertions.
	LastQuery   string
	LastHistory string
}

// NewMockLLM creates a new mock LLM
func NewMockLLM() *MockLLM {
	return &MockLLM{Reply: "That is a great question! Let's work through it together."}
}

// Respond implements repositories.LargeLanguageModel
func (m *MockLLM) Respond(ctx context.Context, userQuery, historyText string) (string, error) {
	m.LastQuery = userQuery
	m.LastHistory = historyText
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply == "" {
		return fmt.Sprintf("You asked: %s", userQuery), nil
	}
	return m.Reply, nil
}

var _ repositories.LargeLanguageModel = (*MockLLM)(nil)
