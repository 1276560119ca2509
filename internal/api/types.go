package api

import "github.com/phamduyan/tutorvoice/domain/entities"

// ProcessTextRequest represents the JSON body for /api/process-text
type ProcessTextRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	Voice     string `json:"voice"`
}

// CreateSessionRequest represents the JSON body for POST /api/session
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// TurnResponse represents the result of one processed turn
type TurnResponse struct {
	Success           bool   `json:"success"`
	SessionID         int64  `json:"session_id"`
	UserText          string `json:"user_text"`
	AssistantResponse string `json:"assistant_response"`
	AudioURL          string `json:"audio_url"`
}

// SessionHistoryResponse represents a session's message history
type SessionHistoryResponse struct {
	Success   bool               `json:"success"`
	SessionID int64              `json:"session_id"`
	Messages  []entities.Message `json:"messages"`
}

// SessionCreatedResponse represents a newly created session
type SessionCreatedResponse struct {
	Success   bool   `json:"success"`
	SessionID int64  `json:"session_id"`
	Title     string `json:"title"`
}

// SessionDeletedResponse confirms a session deletion
type SessionDeletedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IndexResponse lists sessions and the available voices
type IndexResponse struct {
	Sessions []entities.Session `json:"sessions"`
	Voices   []string           `json:"voices"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
