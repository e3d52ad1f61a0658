package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration loaded once at boot. It is
// read-only after
// Load returns.
type Config struct {
	// Server
	Port string
	Host string
	Env  string

	// Database
	DatabaseURL string

	// Redis (KV store)
	RedisURL string

	// Agent JWT
	AgentJWTSecret string
	AgentJWTTTL    time.Duration

	// Token lifecycle
	TokenTTL    time.Duration
	TokenPepper string

	// Rate limiter
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Risk override operator credential
	RiskOverrideSecretHash string

	// CORS
	AllowedOrigins []string

	// Migrations
	AutoMigrate bool

	// Logging
	LogLevel string
}

// Load reads configuration from the environment, first loading a .env
// file if one is present (in every environment; variables already set
// are not overridden). It panics on a missing required value so the
// process fails fast at boot instead of degrading at request time.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	env := getEnv("ENV", "development")

	tokenTTLSeconds := parseInt(getEnv("TOKEN_TTL_SECONDS", "120"), 120)
	if tokenTTLSeconds < 60 || tokenTTLSeconds > 86400 {
		panic(fmt.Sprintf("TOKEN_TTL_SECONDS must be in [60, 86400], got %d", tokenTTLSeconds))
	}

	pepper := getEnv("TOKEN_PEPPER", "")
	if pepper == "" {
		if env == "production" {
			panic("TOKEN_PEPPER is required in production")
		}
		pepper = "development-only-pepper-do-not-use-in-production"
	}

	return &Config{
		Port: getEnv("PORT", "8080"),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  env,

		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),

		AgentJWTSecret: getEnv("AGENT_JWT_SECRET", "development-only-agent-secret"),
		AgentJWTTTL:    parseDuration(getEnv("AGENT_JWT_TTL", "15m"), 15*time.Minute),

		TokenTTL:    time.Duration(tokenTTLSeconds) * time.Second,
		TokenPepper: pepper,

		RateLimitWindow: time.Duration(parseInt(getEnv("RATE_LIMIT_WINDOW_MS", "60000"), 60000)) * time.Millisecond,
		RateLimitMax:    parseInt(getEnv("RATE_LIMIT_MAX", "10"), 10),

		RiskOverrideSecretHash: getEnv("RISK_OVERRIDE_SECRET_HASH", ""),

		AllowedOrigins: parseStringSlice(getEnv("CORS_ALLOWED_ORIGINS", "")),

		AutoMigrate: parseBool(getEnv("AUTO_MIGRATE", "false"), false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		panic(fmt.Sprintf("%s is required", key))
	}
	return value
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseBool(s string, defaultValue bool) bool {
	value, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if start < i {
				result = append(result, s[start:i])
			}
			start = i + 1
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
