package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string // SQLite file path or postgres:// URL

	// Text-generation provider. An empty APIKey runs the assistant offline.
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	// Optional catalog summary cache.
	RedisURL string
	CacheTTL time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8000"),
		Env:         getEnv("ENV", "production"),
		DatabaseURL: getEnv("DATABASE_URL", "ecommerce.db"),
		LLMAPIKey:   os.Getenv("GROQ_API_KEY"),
		LLMBaseURL:  getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:    getEnv("LLM_MODEL", "llama3-8b-8192"),
		LLMTimeout:  getDuration("LLM_TIMEOUT", 30*time.Second),
		RedisURL:    os.Getenv("REDIS_URL"),
		CacheTTL:    getDuration("CACHE_TTL", 5*time.Minute),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
