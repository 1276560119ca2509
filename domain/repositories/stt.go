package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts the audio file at audioPath to text. It is
	// responsible for any format normalization the engine requires and
	// for removing temporary artifacts regardless of outcome.
	// Unrecognizable speech yields a NoSpeech fault, provider failures an
	// Upstream fault.
	Transcribe(ctx context.Context, audioPath string, language string) (string, error)
}
