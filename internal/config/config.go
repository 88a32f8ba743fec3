package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultModel           = "gpt-5-mini"
	defaultReasoningEffort = "low"
	defaultEnrichBaseURL   = "https://api.enrichlayer.io/v1"
)

type Config struct {
	OpenAIAPIKey    string
	Model           string
	ReasoningEffort string

	// Optional externally supplied conversation handle. When set, the
	// session store returns it verbatim and never persists it.
	ConversationID string

	EnrichAPIKey  string
	EnrichBaseURL string

	// Base URL of the configuration document service. Empty means the CLI
	// runs on embedded defaults.
	ConfigBaseURL string

	AutoEnrich bool

	Port    string
	DataDir string
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		Model:           os.Getenv("ONBO_MODEL"),
		ReasoningEffort: os.Getenv("ONBO_REASONING_EFFORT"),
		ConversationID:  os.Getenv("ONBO_CONVERSATION_ID"),
		EnrichAPIKey:    os.Getenv("ENRICH_API_KEY"),
		EnrichBaseURL:   os.Getenv("ENRICH_BASE_URL"),
		ConfigBaseURL:   os.Getenv("CONFIG_BASE_URL"),
		AutoEnrich:      os.Getenv("ONBO_AUTO_ENRICH") == "1",
		Port:            os.Getenv("PORT"),
		DataDir:         os.Getenv("DATA_DIR"),
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.ReasoningEffort == "" {
		cfg.ReasoningEffort = defaultReasoningEffort
	}
	if cfg.EnrichBaseURL == "" {
		cfg.EnrichBaseURL = defaultEnrichBaseURL
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}

	for _, req := range []struct {
		name, val string
	}{
		{"OPENAI_API_KEY", cfg.OpenAIAPIKey},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}

// LoadWeb is Load without the model-provider credential requirement: the
// document service never talks to the model.
func LoadWeb() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    os.Getenv("PORT"),
		DataDir: os.Getenv("DATA_DIR"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	return cfg, nil
}
