package entities

import (
	"errors"
	"strings"
	"time"
)

// MessageRole represents the role of a message sender
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the known roles.
func (r MessageRole) Valid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

// Label returns the transcript label used when rendering history for the LLM.
func (r MessageRole) Label() string {
	if r == MessageRoleUser {
		return "Student"
	}
	return "Tutor"
}

// Session represents a conversation thread between a user and the tutor
type Session struct {
	ID          int64     `json:"session_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Message represents a single turn within a session. AudioPath is set only
// for user turns that originated from a recorded upload. Messages are never
// mutated after creation.
type Message struct {
	ID        int64       `json:"message_id"`
	SessionID int64       `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	AudioPath string      `json:"audio_path,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewSessionTitle builds the default title for a session created without one.
func NewSessionTitle(now time.Time) string {
	return "Conversation " + now.Format("02/01/2006 15:04")
}

// Validate validates the message data
func (m *Message) Validate() error {
	if m.SessionID <= 0 {
		return errors.New("session_id is required")
	}
	if !m.Role.Valid() {
		return errors.New("invalid message role")
	}
	if m.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

// FormatTranscript renders ordered messages into the plain-text transcript
// fed to the LLM. Order of the input is preserved.
func FormatTranscript(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(msg.Role.Label())
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
