package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config is loaded once at startup from environment variables and passed to
// the components that need it. Nothing reads the environment after this.
type Config struct {
	Port string

	// Persistence
	MongoURI          string
	DatabaseName      string
	SessionCollection string

	// Concurrency lock
	RedisAddr     string
	RedisPassword string
	LockTTL       time.Duration

	// Generation providers
	GeminiAPIKey string
	GeminiModel  string
	OllamaURL    string

	// Background sweeper for expired sessions
	SweeperSchedule string
	SweeperEnabled  bool

	// Auth
	JWTSecret string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		MongoURI:          os.Getenv("MONGO_URI"),
		DatabaseName:      getEnvOrDefault("INTERVIEW_DB_NAME", "placementprep"),
		SessionCollection: getEnvOrDefault("INTERVIEW_SESSIONS_COLLECTION", "interview_sessions"),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		LockTTL:           getEnvDuration("SESSION_LOCK_TTL", 90*time.Second),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaURL:         getEnvOrDefault("OLLAMA_URL", "http://localhost:11434"),
		SweeperSchedule:   getEnvOrDefault("SESSION_SWEEPER_SCHEDULE", "*/5 * * * *"),
		SweeperEnabled:    getEnvOrDefault("SESSION_SWEEPER_ENABLED", "true") == "true",
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.MongoURI == "" {
		return errors.New("MONGO_URI environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	// At least one generation provider must be reachable in principle. The
	// Gemini key is optional (the Ollama chain covers its absence), but an
	// empty Ollama URL with no Gemini key means no provider at all.
	if cfg.GeminiAPIKey == "" && cfg.OllamaURL == "" {
		return errors.New("no generation provider configured: set GEMINI_API_KEY or OLLAMA_URL")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
