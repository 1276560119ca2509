package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://api.elevenlabs.io/v1"
	defaultModelID    = "eleven_flash_v2_5"
	defaultStability  = 0.5  // Default voice stability
	defaultClarity    = 0.75 // Default voice clarity/similarity_boost
	defaultSpeed      = 1.0
	defaultTimeout    = 60 * time.Second
)

// voiceIDs maps human-readable voice names to ElevenLabs voice identifiers.
var voiceIDs = map[string]string{
	"callum": "N2lVS1w4EtoT3dr4eOWO",
	"alice":  "Xb7hH8MSUJpSbSDYk0k2",
	"aria":   "9BWtsMINqrJLrRacOk9x",
	"rachel": "21m00Tcm4TlvDq8ikWAM",
	"bill":   "pqHfZKP75CvOlQylNhV4",
	"brian":  "nPczCjzI2devNBz1zQrb",
	"domi":   "AZnzlk1XvdvUeBnXmlld",
	"elli":   "MF3mGyEYCl7XYWbV9V6O",
	"nicole": "MF3mGyEYCl7XYWbV9V6O",
	"harry":  "SOYHLrjzK2X1ezoPC6cr",
	"ethan":  "g5CIjZEefAph4nQFvHAz",
}

// ElevenLabsConfig holds configuration for the ElevenLabsTTS adapter.
// Required fields:
// - APIKey: Your Eleven Labs API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Eleven Labs API (default: "https://api.elevenlabs.io/v1")
// - ModelID: The model ID to use (default: "eleven_flash_v2_5")
// - Stability: Voice stability value between 0 and 1 (default: 0.5)
// - Clarity: Voice clarity/similarity boost value between 0 and 1 (default: 0.75)
// - Speed: Speaking rate between 0.5 and 2 (default: 1.0)
// - Timeout: Bound on the synthesis HTTP call (default: 60s)
type ElevenLabsConfig struct {
	APIKey     string
	APIBaseURL string
	ModelID    string
	Stability  float64
	Clarity    float64
	Speed      float64
	Timeout    time.Duration
}

// ElevenLabsTTS implements TextToSpeech using the Eleven Labs API
type ElevenLabsTTS struct {
	apiKey     string
	apiBaseURL string
	modelID    string
	stability  float64
	clarity    float64
	speed      float64
	client     *http.Client
	logger     *zap.Logger
}

// Ensure ElevenLabsTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*ElevenLabsTTS)(nil)

// elevenLabsVoiceSettings represents voice settings for Eleven Labs API
type elevenLabsVoiceSettings struct {
	Speed           float64 `json:"speed"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// elevenLabsRequest represents the request payload for Eleven Labs TTS API
type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

// ValidateElevenLabsConfig validates the ElevenLabsConfig
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required")
	}
	if config.Stability != 0 && (config.Stability < 0 || config.Stability > 1) {
		return fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}
	if config.Clarity != 0 && (config.Clarity < 0 || config.Clarity > 1) {
		return fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}
	if config.Speed != 0 && (config.Speed < 0.5 || config.Speed > 2) {
		return fmt.Errorf("speed must be between 0.5 and 2, got %f", config.Speed)
	}
	return nil
}

// NewElevenLabsTTS creates a new Eleven Labs TTS instance
func NewElevenLabsTTS(config ElevenLabsConfig, logger *zap.Logger) (*ElevenLabsTTS, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
		logger.Info("Using default model ID", zap.String("modelID", modelID))
	}

	stability := config.Stability
	if stability == 0 {
		stability = defaultStability
	}

	clarity := config.Clarity
	if clarity == 0 {
		clarity = defaultClarity
	}

	speed := config.Speed
	if speed == 0 {
		speed = defaultSpeed
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &ElevenLabsTTS{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		modelID:    modelID,
		stability:  stability,
		clarity:    clarity,
		speed:      speed,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Voices lists the available voice names, sorted for stable presentation.
func (e *ElevenLabsTTS) Voices() []string {
	names := make([]string, 0, len(voiceIDs))
	for name := range voiceIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveVoice maps a human-readable voice name to its provider identifier.
func ResolveVoice(voiceName string) (string, error) {
	id, ok := voiceIDs[strings.ToLower(voiceName)]
	if !ok {
		return "", repositories.NewFault(repositories.FaultNotFound,
			fmt.Sprintf("unknown voice %q", voiceName), nil)
	}
	return id, nil
}

// Synthesize converts text to speech and writes the MP3 to outputPath.
func (e *ElevenLabsTTS) Synthesize(ctx context.Context, text, voiceName, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return repositories.NewFault(repositories.FaultInvalidInput, "text cannot be empty", nil)
	}

	voiceID, err := ResolveVoice(voiceName)
	if err != nil {
		return err
	}

	e.logger.Info("Converting text to speech",
		zap.String("voice", voiceName),
		zap.String("voiceID", voiceID),
		zap.String("modelID", e.modelID),
		zap.Int("textLength", len(text)))

	request := elevenLabsRequest{
		Text:    text,
		ModelID: e.modelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Speed:           e.speed,
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return repositories.NewFault(repositories.FaultUpstream, "failed to marshal request", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.apiBaseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return repositories.NewFault(repositories.FaultUpstream, "failed to create HTTP request", err)
	}

	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return repositories.NewFault(repositories.FaultUpstream, "text-to-speech request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		e.logger.Error("Eleven Labs API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return repositories.NewFault(repositories.FaultUpstream,
			fmt.Sprintf("eleven labs returned status %d", resp.StatusCode), nil)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return repositories.NewFault(repositories.FaultStorage, "failed to create output directory", err)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return repositories.NewFault(repositories.FaultStorage, "failed to create output file", err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		os.Remove(outputPath)
		return repositories.NewFault(repositories.FaultStorage, "failed to write audio file", err)
	}

	e.logger.Info("Synthesized speech",
		zap.String("outputPath", outputPath),
		zap.Int64("bytes", written))
	return nil
}

// NewElevenLabsConfigFromEnv creates a new ElevenLabsConfig from environment variables
func NewElevenLabsConfigFromEnv() ElevenLabsConfig {
	config := ElevenLabsConfig{
		APIKey:     os.Getenv("ELEVEN_API_KEY"),
		APIBaseURL: os.Getenv("ELEVEN_API_BASE_URL"),
		ModelID:    os.Getenv("ELEVEN_MODEL_ID"),
	}

	if stabilityStr := os.Getenv("ELEVEN_STABILITY"); stabilityStr != "" {
		if stability, err := strconv.ParseFloat(stabilityStr, 64); err == nil && stability >= 0 && stability <= 1 {
			config.Stability = stability
		}
	}

	if clarityStr := os.Getenv("ELEVEN_CLARITY"); clarityStr != "" {
		if clarity, err := strconv.ParseFloat(clarityStr, 64); err == nil && clarity >= 0 && clarity <= 1 {
			config.Clarity = clarity
		}
	}

	if speedStr := os.Getenv("ELEVEN_SPEED"); speedStr != "" {
		if speed, err := strconv.ParseFloat(speedStr, 64); err == nil && speed >= 0.5 && speed <= 2 {
			config.Speed = speed
		}
	}

	return config
}
