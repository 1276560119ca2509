package tts

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

// MockTextToSpeech is a placeholder implementation for text-to-speech
type MockTextToSpeech struct {
	Err    error
	logger *zap.Logger
}

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

// Synthesize implements repositories.TextToSpeech. The voice name is still
// resolved so unknown voices fail exactly as they do in production.
func (t *MockTextToSpeech) Synthesize(ctx context.Context, text, voiceName, outputPath string) error {
	if _, err := ResolveVoice(voiceName); err != nil {
		return err
	}
	if t.Err != nil {
		return t.Err
	}

	t.logger.Info("Mock synthesis",
		zap.String("voice", voiceName),
		zap.String("outputPath", outputPath))

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return repositories.NewFault(repositories.FaultStorage, "failed to create output directory", err)
		}
	}
	return os.WriteFile(outputPath, []byte("mock audio"), 0o644)
}

// Voices lists the same catalog production uses.
func (t *MockTextToSpeech) Voices() []string {
	names := make([]string, 0, len(voiceIDs))
	for name := range voiceIDs {
		names = append(names, name)
	}
	return names
}

var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)
