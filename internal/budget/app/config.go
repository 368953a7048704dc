package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer string // Issuer claim for session tokens (default: budgetd)

	// Token signing secrets. The primary comes from BUDGET_TOKEN_SECRET or,
	// preferably, a file mounted from a secret store via
	// BUDGET_TOKEN_SECRET_FILE. Previous secrets (comma separated, or a
	// file with one per line) stay valid for verification so rotation
	// doesn't log everyone out at once.
	TokenSecret         string
	TokenSecretFile     string
	PreviousSecrets     []string
	PreviousSecretsFile string
	SessionTTL          time.Duration // Session token lifetime (default: 24h)

	DatabaseFile string // Path to SQLite database file (default: ./budget.db)

	CORSAllowedOrigins []string // Origins the dashboard is served from
	MaxRequestBody     int64    // Request body cap in bytes (default: 1MiB)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3031)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ErrNoTokenSecret means neither a secret value nor a secret file was
// configured. The service refuses to start rather than fall back to any
// built-in default.
var ErrNoTokenSecret = errors.New("app: no token signing secret configured")

func LoadConfig() Config {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:              getEnvOrDefault("BUDGET_ISSUER", "budgetd"),
		TokenSecret:         os.Getenv("BUDGET_TOKEN_SECRET"),
		TokenSecretFile:     os.Getenv("BUDGET_TOKEN_SECRET_FILE"),
		PreviousSecretsFile: os.Getenv("BUDGET_TOKEN_PREVIOUS_SECRETS_FILE"),
		SessionTTL:          getEnvDurationOrDefault("BUDGET_SESSION_TTL", 24*time.Hour),
		DatabaseFile:        getEnvOrDefault("BUDGET_DATABASE_FILE", "budget.db"),
		MaxRequestBody:      getEnvInt64OrDefault("MAX_REQUEST_BODY_SIZE", 1<<20),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3031),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if prev := os.Getenv("BUDGET_TOKEN_PREVIOUS_SECRETS"); prev != "" {
		cfg.PreviousSecrets = splitNonEmpty(prev, ",")
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitNonEmpty(origins, ",")
	}

	return cfg
}

// TokenSecrets resolves the signing keychain material: primary secret
// first, then any retired secrets still accepted for verification. File
// sources win over inline env values.
func (c Config) TokenSecrets() ([][]byte, error) {
	primary := c.TokenSecret
	if c.TokenSecretFile != "" {
		data, err := os.ReadFile(c.TokenSecretFile)
		if err != nil {
			return nil, err
		}
		primary = strings.TrimSpace(string(data))
	}
	if primary == "" {
		return nil, ErrNoTokenSecret
	}

	secrets := [][]byte{[]byte(primary)}

	previous := c.PreviousSecrets
	if c.PreviousSecretsFile != "" {
		data, err := os.ReadFile(c.PreviousSecretsFile)
		if err != nil {
			return nil, err
		}
		previous = splitNonEmpty(string(data), "\n")
	}
	for _, s := range previous {
		secrets = append(secrets, []byte(s))
	}

	return secrets, nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
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
