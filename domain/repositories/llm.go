package repositories

import "context"

// LargeLanguageModel abstracts any chat/LLM provider
type LargeLanguageModel interface {
	// Respond combines the tutor persona, the rendered conversation
	// history, and the new query into a single prompt and returns the
	// model's reply. Provider failures yield an Upstream fault; the reply
	// string is never an embedded error message.
	Respond(ctx context.Context, userQuery string, historyText string) (string, error)
}
