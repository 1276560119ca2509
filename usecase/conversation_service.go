package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/domain/entities"
	"github.com/phamduyan/tutorvoice/domain/repositories"
)

const (
	// DefaultVoice is used when the client does not request one.
	DefaultVoice = "elli"

	uploadURLPrefix = "/static/uploads/"
	outputURLPrefix = "/static/outputs/"
)

// Turn is the result of one full request through the pipeline.
type Turn struct {
	SessionID     int64
	UserText      string
	AssistantText string
	AudioURL      string
}

// ConversationService orchestrates the conversation flow: resolve session,
// transcribe, persist the user turn, prompt the LLM, persist the assistant
// turn, synthesize the reply. It is stateless across requests; all durable
// state lives in the SessionStore.
type ConversationService struct {
	store        repositories.SessionStore
	speechToText repositories.SpeechToText
	textToSpeech repositories.TextToSpeech
	llm          repositories.LargeLanguageModel
	logger       *zap.Logger

	uploadDir string
	outputDir string
	language  string

	// sessionLocks serializes message appends within a single session so
	// concurrent requests against the same session keep a total order.
	mu           sync.Mutex
	sessionLocks map[int64]*sync.Mutex
}

// NewConversationService creates a new conversation service
func NewConversationService(
	store repositories.SessionStore,
	stt repositories.SpeechToText,
	tts repositories.TextToSpeech,
	llm repositories.LargeLanguageModel,
	uploadDir string,
	outputDir string,
	language string,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		store:        store,
		speechToText: stt,
		textToSpeech: tts,
		llm:          llm,
		logger:       logger,
		uploadDir:    uploadDir,
		outputDir:    outputDir,
		language:     language,
		sessionLocks: make(map[int64]*sync.Mutex),
	}
}

// ResolveSession turns the client's session reference into a session id.
// An empty reference or "new" creates a fresh session; anything else must
// parse as the id of an existing session.
func (s *ConversationService) ResolveSession(ctx context.Context, ref string) (int64, error) {
	if ref == "" || ref == "new" {
		return s.store.CreateSession(ctx, entities.NewSessionTitle(time.Now()))
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, repositories.NewFault(repositories.FaultInvalidInput,
			fmt.Sprintf("invalid session id %q", ref), err)
	}

	if _, err := s.store.GetSession(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

// ProcessAudio runs the full pipeline for a recorded upload.
func (s *ConversationService) ProcessAudio(ctx context.Context, sessionRef, filename string, audio io.Reader, voice string) (*Turn, error) {
	sessionID, err := s.ResolveSession(ctx, sessionRef)
	if err != nil {
		return nil, err
	}

	uploadName, uploadPath, err := s.saveUpload(filename, audio)
	if err != nil {
		return nil, err
	}

	userText, err := s.speechToText.Transcribe(ctx, uploadPath, s.language)
	if err != nil {
		return nil, err
	}

	return s.completeTurn(ctx, sessionID, userText, uploadURLPrefix+uploadName, voice)
}

// ProcessText runs the pipeline for a typed question.
func (s *ConversationService) ProcessText(ctx context.Context, sessionRef, text, voice string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, repositories.NewFault(repositories.FaultInvalidInput, "text cannot be empty", nil)
	}

	sessionID, err := s.ResolveSession(ctx, sessionRef)
	if err != nil {
		return nil, err
	}

	return s.completeTurn(ctx, sessionID, text, "", voice)
}

// completeTurn persists the user message, asks the LLM, persists the reply,
// and synthesizes it.
func (s *ConversationService) completeTurn(ctx context.Context, sessionID int64, userText, userAudioPath, voice string) (*Turn, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	unlock := s.lockSession(sessionID)
	assistantText, err := func() (string, error) {
		defer unlock()

		if _, err := s.store.AddMessage(ctx, sessionID, entities.MessageRoleUser, userText, userAudioPath); err != nil {
			return "", err
		}

		history, err := s.store.FormatConversationHistory(ctx, sessionID)
		if err != nil {
			return "", err
		}

		reply, err := s.llm.Respond(ctx, userText, history)
		if err != nil {
			return "", err
		}

		if _, err := s.store.AddMessage(ctx, sessionID, entities.MessageRoleAssistant, reply, ""); err != nil {
			return "", err
		}
		return reply, nil
	}()
	if err != nil {
		return nil, err
	}

	outputName := uuid.New().String() + ".mp3"
	outputPath := filepath.Join(s.outputDir, outputName)
	if err := s.textToSpeech.Synthesize(ctx, assistantText, voice, outputPath); err != nil {
		return nil, err
	}

	s.logger.Info("Turn completed",
		zap.Int64("sessionID", sessionID),
		zap.String("voice", voice),
		zap.Int("userTextLength", len(userText)),
		zap.Int("replyLength", len(assistantText)))

	return &Turn{
		SessionID:     sessionID,
		UserText:      userText,
		AssistantText: assistantText,
		AudioURL:      outputURLPrefix + outputName,
	}, nil
}

// saveUpload writes the uploaded audio under the uploads directory with a
// fresh name, keeping the original extension so the STT adapter can pick the
// right encoding.
func (s *ConversationService) saveUpload(filename string, audio io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".wav"
	}
	name := uuid.New().String() + ext
	path := filepath.Join(s.uploadDir, name)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", "", repositories.NewFault(repositories.FaultStorage, "failed to create upload directory", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", "", repositories.NewFault(repositories.FaultStorage, "failed to create upload file", err)
	}
	defer out.Close()

	written, err := io.Copy(out, audio)
	if err != nil {
		os.Remove(path)
		return "", "", repositories.NewFault(repositories.FaultStorage, "failed to save upload", err)
	}
	if written == 0 {
		os.Remove(path)
		return "", "", repositories.NewFault(repositories.FaultInvalidInput, "uploaded audio is empty", nil)
	}

	return name, path, nil
}

// lockSession acquires the per-session append lock and returns the release
// function. Locks are created lazily and never evicted; session counts stay
// small for this workload.
func (s *ConversationService) lockSession(sessionID int64) func() {
	s.mu.Lock()
	lock, ok := s.sessionLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
