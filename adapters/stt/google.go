package stt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

const defaultLanguage = "vi-VN"

// GoogleSpeechToText implements SpeechToText for Google Cloud
type GoogleSpeechToText struct {
	client *speech.Client
	logger *zap.Logger
}

// Ensure GoogleSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a Google Cloud Speech client. Credentials are
// resolved through the standard GOOGLE_APPLICATION_CREDENTIALS mechanism.
func NewGoogleSpeechToText(ctx context.Context, logger *zap.Logger) (*GoogleSpeechToText, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleSpeechToText{client: client, logger: logger}, nil
}

// Transcribe converts the audio file at audioPath to text.
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return "", repositories.NewFault(repositories.FaultStorage, "failed to read audio file", err)
	}
	if len(audioData) == 0 {
		return "", repositories.NewFault(repositories.FaultInvalidInput, "audio file is empty", nil)
	}

	if language == "" {
		language = defaultLanguage
	}

	encoding := encodingForFile(audioPath, audioData)
	config := &speechpb.RecognitionConfig{
		Encoding:     encoding,
		LanguageCode: language,
	}
	// LINEAR16 without a WAV header needs an explicit sample rate; for WAV,
	// FLAC and Opus containers Google reads it from the header.
	if encoding == speechpb.RecognitionConfig_LINEAR16 && !hasRIFFHeader(audioData) {
		config.SampleRateHertz = 16000
	}

	g.logger.Info("Transcribing audio",
		zap.String("audioPath", audioPath),
		zap.String("language", language),
		zap.String("encoding", encoding.String()),
		zap.Int("bytes", len(audioData)))

	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: config,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return "", repositories.NewFault(repositories.FaultUpstream, "speech recognition failed", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			if transcript.Len() > 0 {
				transcript.WriteByte(' ')
			}
			transcript.WriteString(result.Alternatives[0].Transcript)
		}
	}

	text := strings.TrimSpace(transcript.String())
	if text == "" {
		return "", repositories.NewFault(repositories.FaultNoSpeech, "no speech detected in audio", nil)
	}

	g.logger.Info("Transcription completed", zap.Int("length", len(text)))
	return text, nil
}

// Close releases the underlying gRPC connection.
func (g *GoogleSpeechToText) Close() error {
	return g.client.Close()
}

// encodingForFile picks the recognition encoding from the file extension,
// falling back to header sniffing for uploads without a useful name.
func encodingForFile(audioPath string, data []byte) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(filepath.Ext(audioPath)) {
	case ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case ".flac":
		return speechpb.RecognitionConfig_FLAC
	case ".ogg", ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	case ".webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case ".amr":
		return speechpb.RecognitionConfig_AMR
	}

	switch {
	case hasRIFFHeader(data):
		return speechpb.RecognitionConfig_LINEAR16
	case len(data) >= 4 && string(data[:4]) == "fLaC":
		return speechpb.RecognitionConfig_FLAC
	case len(data) >= 4 && string(data[:4]) == "OggS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case len(data) >= 4 && data[0] == 0x1a && data[1] == 0x45 && data[2] == 0xdf && data[3] == 0xa3:
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}

func hasRIFFHeader(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}
