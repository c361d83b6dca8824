package setup

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bfortuner/prompt-playground/internal/config"
	"github.com/bfortuner/prompt-playground/internal/interview"
	"github.com/bfortuner/prompt-playground/internal/llm/openai"
	"github.com/bfortuner/prompt-playground/internal/runner"
)

type Config struct {
	OpenAIKey      string
	OpenAIOrgID    string
	Port           string
	SessionTTL     time.Duration
	MaxRetries     int
	RequestTimeout time.Duration
}

type Dependencies struct {
	Runner      *runner.Runner
	Interviewer *interview.Interviewer
	Store       *interview.Store
	Presets     *config.PresetsConfig
	Logger      *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIOrgID:    getEnv("OPENAI_ORG_ID", ""),
		Port:           getEnv("PLAYGROUND_API_PORT", "18080"),
		SessionTTL:     getEnvDuration("SESSION_TTL", time.Hour),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
	}
}

func Wire(cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	client, err := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIOrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	if cfg.MaxRetries > 0 {
		client.MaxRetries = cfg.MaxRetries
	}

	presets, err := config.LoadPresetsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load presets config: %w", err)
	}

	promptRunner := runner.NewRunner(client, logger)
	store := interview.NewStore(cfg.SessionTTL, logger)
	interviewer := interview.NewInterviewer(client, logger)

	return &Dependencies{
		Runner:      promptRunner,
		Interviewer: interviewer,
		Store:       store,
		Presets:     presets,
		Logger:      logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
