package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/gridbase-inc/import-engine/pkg/apperrors"
	"github.com/gridbase-inc/import-engine/pkg/models"
)

// History backend identifiers.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the import engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets
// (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Mapping history configuration
	History HistoryConfig `yaml:"history"`

	// Record matching configuration
	Matching MatchingConfig `yaml:"matching"`

	// Database configuration (PostgreSQL, used when history.backend is
	// "postgres")
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (used when history.backend is "redis")
	Redis RedisConfig `yaml:"redis"`
}

// HistoryConfig holds the mapping-history store settings. The numeric
// defaults are product-tuned constants; changing them changes which
// suggestions users see.
type HistoryConfig struct {
	// Backend selects where the history blob lives: file, redis or
	// postgres.
	Backend string `yaml:"backend" env:"HISTORY_BACKEND" env-default:"file"`
	// BlobPath is the directory for the file backend.
	BlobPath string `yaml:"blob_path" env:"HISTORY_BLOB_PATH" env-default:"./data"`
	// MaxEntries caps the history log; oldest entries are evicted.
	MaxEntries int `yaml:"max_entries" env:"HISTORY_MAX_ENTRIES" env-default:"100"`
	// RetentionDays is the default cleanup window.
	RetentionDays int `yaml:"retention_days" env:"HISTORY_RETENTION_DAYS" env-default:"30"`
	// SimilarityThreshold is the minimum column-set overlap for history
	// reuse.
	SimilarityThreshold float64 `yaml:"similarity_threshold" env:"HISTORY_SIMILARITY_THRESHOLD" env-default:"0.5"`
	// SuggestionConfidence is assigned to history-derived suggestions.
	SuggestionConfidence float64 `yaml:"suggestion_confidence" env:"HISTORY_SUGGESTION_CONFIDENCE" env-default:"0.95"`
}

// MatchingConfig holds the record-matching defaults.
type MatchingConfig struct {
	ExactWeight   float64 `yaml:"exact_weight" env:"MATCHING_EXACT_WEIGHT" env-default:"0.4"`
	FuzzyWeight   float64 `yaml:"fuzzy_weight" env:"MATCHING_FUZZY_WEIGHT" env-default:"0.3"`
	SoundexWeight float64 `yaml:"soundex_weight" env:"MATCHING_SOUNDEX_WEIGHT" env-default:"0.15"`
	TimeWeight    float64 `yaml:"time_weight" env:"MATCHING_TIME_WEIGHT" env-default:"0.1"`
	PatternWeight float64 `yaml:"pattern_weight" env:"MATCHING_PATTERN_WEIGHT" env-default:"0.05"`

	// ScoreThreshold filters match results before they reach the
	// wizard; pairs at or below it are discarded.
	ScoreThreshold float64 `yaml:"score_threshold" env:"MATCHING_SCORE_THRESHOLD" env-default:"0.3"`

	// NameMatchFloor is the minimum header-name similarity for the
	// fallback column matcher to offer a pair.
	NameMatchFloor float64 `yaml:"name_match_floor" env:"MATCHING_NAME_MATCH_FLOOR" env-default:"0.5"`
}

// Weights returns the configured strategy blend.
func (m *MatchingConfig) Weights() models.StrategyWeights {
	return models.StrategyWeights{
		Exact:   m.ExactWeight,
		Fuzzy:   m.FuzzyWeight,
		Soundex: m.SoundexWeight,
		Time:    m.TimeWeight,
		Pattern: m.PatternWeight,
	}
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"gridbase"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"import_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error; everything then
// comes from the environment and defaults. The version parameter is
// injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.History.Backend {
	case BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("%w: %q (expected file, redis or postgres)", apperrors.ErrInvalidBackend, c.History.Backend)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history max_entries must be positive, got %d", c.History.MaxEntries)
	}
	return nil
}
