// Package logger configures the process-wide zerolog logger and enforces
// a sensitive-field drop list: token, accountId,
// token_hash, salt, password, authorization, cookie are never emitted.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)

// sensitiveFields are dropped at serialization, not masked.
var sensitiveFields = map[string]bool{
	"token":         true,
	"accountId":     true,
	"account_id":    true,
	"token_hash":    true,
	"salt":          true,
	"password":      true,
	"authorization": true,
	"cookie":        true,
}

// Config configures the global logger.
type Config struct {
	Level       string // debug, info, warn, error, fatal
	Environment string // development, production, test
}

// Init initializes the global zerolog logger. In development it writes a
// human-readable console stream; otherwise it writes line-delimited JSON
// with an event_type field (SYSTEM/SECURITY/BUSINESS/ERROR).
func Init(cfg Config) error {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Environment == "development" || cfg.Environment == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	return nil
}

// Fields filters out keys that must never be logged (token, accountId,
// token_hash, salt, password, authorization, cookie). Every call site that
// logs a map of request/domain data should pass it through Fields first
// instead of calling zerolog's Interface()/Fields() directly.
func Fields(fields map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if sensitiveFields[k] {
			continue
		}
		clean[k] = v
	}
	return clean
}
