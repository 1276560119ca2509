package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	DBPath    string `env:"DB_PATH" envDefault:"chat_history.db"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"static/uploads"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"static/outputs"`
	Language  string `env:"STT_LANGUAGE" envDefault:"vi-VN"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL"`

	ElevenAPIKey string `env:"ELEVEN_API_KEY"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
