package repositories

import "context"

// TextToSpeech abstracts text-to-speech services
type TextToSpeech interface {
	// Synthesize speaks text with the named voice and writes the audio to
	// outputPath. An unresolvable voice name yields a NotFound fault
	// before any network call; a provider failure yields an Upstream
	// fault and no file is written.
	Synthesize(ctx context.Context, text string, voiceName string, outputPath string) error
	// Voices lists the available human-readable voice names.
	Voices() []string
}
