package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	baseURL := strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/")
	return &Config{
		Service: &ServiceConfig{
			Name: getEnv("SERVICE_NAME", "livechat-client"),
			Env:  normalizeEnv(getEnv("APP_ENV", "development")),
		},
		API: &APIConfig{
			BaseURL:   baseURL,
			Timeout:   getEnvDuration("API_TIMEOUT", 10*time.Second),
			RateLimit: getEnvFloat("API_RATE_LIMIT", 10),
			RateBurst: getEnvInt("API_RATE_BURST", 20),
		},
		Realtime: &RealtimeConfig{
			URL:              getEnv("REALTIME_URL", RealtimeURL(baseURL)),
			HandshakeTimeout: getEnvDuration("REALTIME_HANDSHAKE_TIMEOUT", 10*time.Second),
			WriteTimeout:     getEnvDuration("REALTIME_WRITE_TIMEOUT", 10*time.Second),
			ReadLimit:        int64(getEnvInt("REALTIME_READ_LIMIT", 512*1024)),
		},
		Credentials: &CredentialsConfig{
			DBPath:     getEnv("TOKEN_DB_PATH", "livechat.db"),
			Passphrase: getEnv("TOKEN_PASSPHRASE", ""),
		},
		Logger: &LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "JSON"),
		},
		Tracer: &TracerConfig{
			Address: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Account: &AccountConfig{
			Username: getEnv("LIVECHAT_USERNAME", ""),
			Password: getEnv("LIVECHAT_PASSWORD", ""),
		},
	}
}

// RealtimeURL derives the WebSocket endpoint from the REST base URL
func RealtimeURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "ws://localhost:3000/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
