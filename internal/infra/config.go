package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment
// variables. It is constructed once at process start and passed by
// reference into the adapters; business logic never reads the environment
// directly.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	AppBaseURL        string
	StorageBaseURL    string
	StoragePath       string
	SunoAPIKey        string
	SunoAPIURL        string
	SunoModel         string
	SunoTimeout       time.Duration
	AzureSpeechKey    string
	AzureSpeechRegion string
	SpeechTimeout     time.Duration
	DBMaxConns        int
	DBMinConns        int
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
}

// SunoCallbackURL is the webhook endpoint the music provider calls back.
func (c *Config) SunoCallbackURL() string {
	return strings.TrimRight(c.AppBaseURL, "/") + "/api/v1/webhooks/suno-callback"
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AppBaseURL:        getEnv("APP_URL", "https://suno.aiacopilot.com"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		StoragePath:       getEnv("STORAGE_PATH", "./data/audio"),
		SunoAPIKey:        os.Getenv("SUNO_API_KEY"),
		SunoAPIURL:        getEnv("SUNO_API_URL", "https://api.sunoapi.org/api/v1/generate"),
		SunoModel:         getEnv("SUNO_MODEL", "V5"),
		SunoTimeout:       time.Second * time.Duration(getEnvInt("SUNO_TIMEOUT_SECONDS", 10)),
		AzureSpeechKey:    os.Getenv("AZURE_SPEECH_KEY"),
		AzureSpeechRegion: getEnv("AZURE_SPEECH_REGION", "eastus2"),
		SpeechTimeout:     time.Second * time.Duration(getEnvInt("AZURE_SPEECH_TIMEOUT_SECONDS", 30)),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 1),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
