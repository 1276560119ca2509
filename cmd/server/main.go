package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/phamduyan/tutorvoice/adapters/llm"
	"github.com/phamduyan/tutorvoice/adapters/sqlite"
	"github.com/phamduyan/tutorvoice/adapters/stt"
	"github.com/phamduyan/tutorvoice/adapters/tts"
	"github.com/phamduyan/tutorvoice/config"
	"github.com/phamduyan/tutorvoice/internal/api"
	"github.com/phamduyan/tutorvoice/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize the session store
	store, err := sqlite.NewStore(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer store.Close()

	// Initialize adapters
	speechToText, err := stt.NewGoogleSpeechToText(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to create speech-to-text adapter", zap.Error(err))
	}
	defer speechToText.Close()

	ttsConfig := tts.NewElevenLabsConfigFromEnv()
	if ttsConfig.APIKey == "" {
		ttsConfig.APIKey = cfg.ElevenAPIKey
	}
	textToSpeech, err := tts.NewElevenLabsTTS(ttsConfig, logger)
	if err != nil {
		logger.Fatal("Failed to create text-to-speech adapter", zap.Error(err))
	}

	languageModel, err := llm.NewGeminiLLM(ctx, llm.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM adapter", zap.Error(err))
	}

	// Initialize usecase services
	conversations := usecase.NewConversationService(
		store, speechToText, textToSpeech, languageModel,
		cfg.UploadDir, cfg.OutputDir, cfg.Language, logger,
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Routes and static audio files
	api.NewHandler(conversations, store, textToSpeech, logger).Register(e)
	e.Static("/static/uploads", cfg.UploadDir)
	e.Static("/static/outputs", cfg.OutputDir)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
