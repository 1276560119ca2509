package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition
type MockSpeechToText struct {
	Transcript string
	Err        error
	logger     *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{
		Transcript: "Hello tutor, can you help me with my homework?",
		logger:     logger,
	}
}

// Transcribe implements repositories.SpeechToText
func (s *MockSpeechToText) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	s.logger.Info("Mock transcription",
		zap.String("audioPath", audioPath),
		zap.String("language", language))
	if s.Err != nil {
		return "", s.Err
	}
	return s.Transcript, nil
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)
