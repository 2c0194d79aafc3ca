package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	RequestTimeout int // seconds
	MaxRetries     int

	HTTPAddr string
	LogLevel string

	DataDir     string
	DatabaseURL string

	DefaultPeriod   string
	DefaultInterval string
	CacheTTLMinutes int

	TelegramToken  string
	TelegramChatID int64

	AgentsConfig string
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnvWithDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnvWithDefault("OPENAI_MODEL", "gpt-4o"),
		RequestTimeout:  getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		MaxRetries:      getEnvIntWithDefault("MAX_RETRIES", 2),
		HTTPAddr:        getEnvWithDefault("HTTP_ADDR", ":8080"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		DataDir:         getEnvWithDefault("DATA_DIR", "data"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DefaultPeriod:   getEnvWithDefault("DEFAULT_PERIOD", "1mo"),
		DefaultInterval: getEnvWithDefault("DEFAULT_INTERVAL", "1d"),
		CacheTTLMinutes: getEnvIntWithDefault("CACHE_TTL_MINUTES", 60),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:  getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),
		AgentsConfig:    os.Getenv("AGENTS_CONFIG"),
	}

	return cfg, nil
}

// AgentPrompts holds optional per-role system prompt overrides loaded from a
// YAML file pointed at by AGENTS_CONFIG.
type AgentPrompts struct {
	Model         string            `yaml:"model"`
	SystemPrompts map[string]string `yaml:"system_prompts"`
}

// LoadAgentPrompts reads prompt overrides from path. An empty path yields an
// empty override set, not an error.
func LoadAgentPrompts(path string) (*AgentPrompts, error) {
	prompts := &AgentPrompts{SystemPrompts: map[string]string{}}
	if path == "" {
		return prompts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading agents config: %w", err)
	}
	if err := yaml.Unmarshal(raw, prompts); err != nil {
		return nil, fmt.Errorf("parsing agents config: %w", err)
	}
	if prompts.SystemPrompts == nil {
		prompts.SystemPrompts = map[string]string{}
	}

	return prompts, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
