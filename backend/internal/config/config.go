package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration read from the environment
type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret []byte
	TokenTTL  time.Duration

	AWSRegion    string
	AWSBucket    string
	CDNBaseURL   string
	SESFromEmail string
	EmailEnabled bool
	AppBaseURL   string

	// AllowedOrigins feeds CORS and the websocket origin check; empty
	// allows any origin
	AllowedOrigins []string

	AssistantAPIKey  string
	AssistantModel   string
	AssistantBaseURL string

	OTelEnabled  bool
	OTelEndpoint string

	LogLevel string
	LogFile  string
}

// Load reads .env files (when present) and then the process environment.
// Missing JWT_SECRET is an error outside development.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing .env is normal in containers
		_ = godotenv.Load(f)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8787"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: databaseURL(),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AWSBucket:    os.Getenv("AWS_BUCKET"),
		CDNBaseURL:   os.Getenv("CDN_BASE_URL"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", "noreply@courtside.app"),
		EmailEnabled: getBool("EMAIL_ENABLED", false),
		AppBaseURL:   getEnv("APP_BASE_URL", "https://courtside.app"),

		AllowedOrigins: getList("CORS_ORIGINS"),

		AssistantAPIKey:  os.Getenv("ASSISTANT_API_KEY"),
		AssistantModel:   getEnv("ASSISTANT_MODEL", "claude-3-5-haiku-latest"),
		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", "https://api.anthropic.com"),

		OTelEnabled:  getBool("OTEL_ENABLED", false),
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "courtside.log"),
	}

	if len(cfg.JWTSecret) == 0 {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET environment variable not set")
		}
		cfg.JWTSecret = []byte("courtside-dev-secret")
	}

	return cfg, nil
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RedisAddr is host:port for the redis client
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "courtside"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getList splits a comma-separated variable, dropping blanks
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}
