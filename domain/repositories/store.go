package repositories

import (
	"context"

	"github.com/phamduyan/tutorvoice/domain/entities"
)

// SessionStore defines data access methods for sessions and their messages.
// It exclusively owns the persistent representation of both entities.
type SessionStore interface {
	// CreateSession inserts a new session and returns its identifier.
	// An empty title is replaced with a creation-time label.
	CreateSession(ctx context.Context, title string) (int64, error)
	// GetSession returns a single session, or a NotFound fault.
	GetSession(ctx context.Context, sessionID int64) (*entities.Session, error)
	// AddMessage inserts a message and bumps the owning session's
	// last-updated timestamp in one transaction. Returns a NotFound fault
	// when the session does not exist.
	AddMessage(ctx context.Context, sessionID int64, role entities.MessageRole, content, audioPath string) (int64, error)
	// GetSessionHistory returns all messages of a session in ascending
	// creation order. An existing session with no messages yields an
	// empty slice.
	GetSessionHistory(ctx context.Context, sessionID int64) ([]entities.Message, error)
	// GetAllSessions returns every session, most recently active first.
	GetAllSessions(ctx context.Context) ([]entities.Session, error)
	// FormatConversationHistory renders a session's messages into a
	// role-labelled transcript for LLM prompting.
	FormatConversationHistory(ctx context.Context, sessionID int64) (string, error)
	// DeleteSession removes the session and all of its messages in one
	// transaction.
	DeleteSession(ctx context.Context, sessionID int64) error
	// Close releases the underlying database handle.
	Close() error
}
