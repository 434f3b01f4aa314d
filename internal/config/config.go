package config

import (
	"os"
	"strings"
	"time"

	"tally/domain/core"
	"tally/internal"
	"tally/internal/errors"
)

// Source kinds
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Source SourceConfig
	Engine EngineConfig
	Log    LogConfig
}

// SourceConfig selects where events are read from
type SourceConfig struct {
	Kind         string
	EventsFile   string
	SheetName    string
	DataPath     string
	DatabaseURL  string
	QueryTimeout time.Duration
}

// EngineConfig holds the aggregation settings
type EngineConfig struct {
	TimeReference core.TimeReference
	// Now pins the reference moment; zero means the system clock
	Now time.Time
}

// LogConfig holds logging settings
type LogConfig struct {
	Level internal.LogLevel
}

// Driver returns the database/sql driver name for the source kind
func (c SourceConfig) Driver() string {
	if c.Kind == SourceSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Location resolves the configured time reference
func (c EngineConfig) Location() *time.Location {
	return c.TimeReference.Location()
}

// Clock returns a fixed clock when Now is pinned, the system clock otherwise
func (c EngineConfig) Clock() core.Clock {
	if c.Now.IsZero() {
		return core.SystemClock{}
	}
	return core.FixedClock(c.Now)
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	sourceConfig, err := loadSourceConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load source configuration")
	}
	config.Source = *sourceConfig

	engineConfig, err := loadEngineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}
	config.Engine = *engineConfig

	config.Log = LogConfig{Level: internal.ParseLogLevel(os.Getenv("LOG_LEVEL"))}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSourceConfig() (*SourceConfig, error) {
	kind := strings.ToLower(getEnvOrDefault("TALLY_SOURCE", SourceFile))
	switch kind {
	case SourceFile, SourcePostgres, SourceSQLite:
	default:
		return nil, errors.ConfigInvalid("TALLY_SOURCE must be one of file, postgres, sqlite; got " + kind)
	}

	return &SourceConfig{
		Kind:         kind,
		EventsFile:   getEnvOrDefault("TALLY_EVENTS_FILE", ""),
		SheetName:    getEnvOrDefault("TALLY_SHEET", "Sheet1"),
		DataPath:     getEnvOrDefault("TALLY_JSON_PATH", ""),
		DatabaseURL:  getEnvOrDefault("DATABASE_URL", ""),
		QueryTimeout: getEnvDurationOrDefault("TALLY_QUERY_TIMEOUT", 30*time.Second),
	}, nil
}

func loadEngineConfig() (*EngineConfig, error) {
	reference := core.TimeReference(getEnvOrDefault("TALLY_TIMEZONE", string(core.TimeLocal)))
	switch strings.ToLower(string(reference)) {
	case string(core.TimeLocal), string(core.TimeUTC):
	default:
		if _, err := time.LoadLocation(string(reference)); err != nil {
			return nil, errors.ConfigInvalid("TALLY_TIMEZONE is not a known time zone: " + string(reference))
		}
	}

	engine := &EngineConfig{TimeReference: reference}
	if value := os.Getenv("TALLY_NOW"); value != "" {
		now, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, errors.ConfigInvalid("TALLY_NOW must be an RFC3339 timestamp: " + value)
		}
		engine.Now = now
	}
	return engine, nil
}

func validateConfig(config *Config) error {
	switch config.Source.Kind {
	case SourceFile:
		if config.Source.EventsFile == "" {
			return errors.ConfigInvalid("TALLY_EVENTS_FILE is required for the file source")
		}
	case SourcePostgres, SourceSQLite:
		if config.Source.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the " + config.Source.Kind + " source")
		}
	}
	if config.Source.QueryTimeout <= 0 {
		return errors.ConfigInvalid("TALLY_QUERY_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
