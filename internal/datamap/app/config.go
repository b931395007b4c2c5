package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer       string        // Issuer claim for tokens (default: datamapd)
	JWTSecret    string        // Required: HMAC secret for token signing (min 32 bytes)
	TokenTTL     time.Duration // Token lifetime (default: 24h)
	DatabaseFile string        // Path to SQLite database file (default: ./datamapd.db)
	PepperFile   string        // Path to file containing pepper for password hashing (default: ./pepper)
	CORSOrigin   string        // Allowed browser origin, empty disables CORS (default: http://localhost:5173)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, loading a local .env
// file first when present.
func LoadConfig() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Issuer:       getEnvOrDefault("DATAMAPD_ISSUER", "datamapd"),
		JWTSecret:    os.Getenv("DATAMAPD_JWT_SECRET"),
		TokenTTL:     getEnvDurationOrDefault("DATAMAPD_TOKEN_TTL", 24*time.Hour),
		DatabaseFile: getEnvOrDefault("DATAMAPD_DATABASE_FILE", "datamapd.db"),
		PepperFile:   getEnvOrDefault("DATAMAPD_PEPPER_FILE", "pepper"),
		CORSOrigin:   getEnvOrDefault("DATAMAPD_CORS_ORIGIN", "http://localhost:5173"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
