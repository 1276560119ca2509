package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/phamduyan/tutorvoice/domain/repositories"
)

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Test without API key
	_, err := NewElevenLabsTTS(ElevenLabsConfig{}, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.modelID != defaultModelID {
		t.Errorf("Expected default model ID '%s', got '%s'", defaultModelID, tts.modelID)
	}
	if tts.stability != defaultStability {
		t.Errorf("Expected default stability %f, got %f", defaultStability, tts.stability)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Stability: 1.5}); err == nil {
		t.Error("Expected error for out-of-range stability")
	}
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Speed: 3}); err == nil {
		t.Error("Expected error for out-of-range speed")
	}
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k"}); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestResolveVoice(t *testing.T) {
	id, err := ResolveVoice("Rachel")
	if err != nil {
		t.Fatalf("Expected rachel to resolve, got %v", err)
	}
	if id != "21m00Tcm4TlvDq8ikWAM" {
		t.Errorf("Unexpected voice ID %s", id)
	}

	_, err = ResolveVoice("darth-vader")
	if err == nil {
		t.Fatal("Expected error for unknown voice")
	}
	if !repositories.IsKind(err, repositories.FaultNotFound) {
		t.Errorf("Expected not_found fault, got %v", err)
	}
}

func TestSynthesizeUnknownVoice(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	err = tts.Synthesize(context.Background(), "hello", "nobody", filepath.Join(t.TempDir(), "out.mp3"))
	if !repositories.IsKind(err, repositories.FaultNotFound) {
		t.Errorf("Expected not_found fault before any network call, got %v", err)
	}
}

func TestSynthesizeWritesFile(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-api-key" {
			t.Errorf("Missing API key header")
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			t.Error("Expected request body")
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	outputPath := filepath.Join(t.TempDir(), "outputs", "reply.mp3")
	if err := tts.Synthesize(context.Background(), "hello there", "elli", outputPath); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("Unexpected file content %q", data)
	}
}

func TestSynthesizeUpstreamError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key", APIBaseURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	outputPath := filepath.Join(t.TempDir(), "reply.mp3")
	err = tts.Synthesize(context.Background(), "hello", "elli", outputPath)
	if !repositories.IsKind(err, repositories.FaultUpstream) {
		t.Fatalf("Expected upstream fault, got %v", err)
	}

	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Error("No file should be written on upstream failure")
	}
}

func TestVoices(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	voices := tts.Voices()
	if len(voices) != len(voiceIDs) {
		t.Errorf("Expected %d voices, got %d", len(voiceIDs), len(voices))
	}
	for i := 1; i < len(voices); i++ {
		if voices[i-1] > voices[i] {
			t.Errorf("Expected sorted voice names, got %v", voices)
		}
	}
}
