// Package config provides configuration loading for remedy.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/word2vec"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of a remedy engine.
type Config struct {
	Store    StoreConfig    `koanf:"store"`
	GloVe    GloVeConfig    `koanf:"glove"`
	Word2Vec Word2VecConfig `koanf:"word2vec"`
	Ranking  RankingConfig  `koanf:"ranking"`
	Retrain  RetrainConfig  `koanf:"retrain"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// StoreConfig locates the corpus store.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// GloVeConfig locates the static embedding table.
type GloVeConfig struct {
	Path      string `koanf:"path"`
	Dim       int    `koanf:"dim"`        // 0 takes the width from the file
	CacheSize int    `koanf:"cache_size"` // sentence vectors kept in memory, 0 disables
}

// Word2VecConfig controls the incremental model.
type Word2VecConfig struct {
	Path         string  `koanf:"path"` // empty keeps the model in memory only
	Refresh      bool    `koanf:"refresh"`
	UpdatePolicy string  `koanf:"update_policy"`
	Dim          int     `koanf:"dim"`
	Window       int     `koanf:"window"`
	Negative     int     `koanf:"negative"`
	Epochs       int     `koanf:"epochs"`
	MinCount     int     `koanf:"min_count"`
	Alpha        float32 `koanf:"alpha"`
	MinAlpha     float32 `koanf:"min_alpha"`
	Seed         uint64  `koanf:"seed"`
}

// RankingConfig controls the ranker.
type RankingConfig struct {
	Strategy string `koanf:"strategy"`
	TopK     int    `koanf:"top_k"`
	PoolSize int    `koanf:"pool_size"` // 0 uses half the CPUs
}

// RetrainConfig controls corpus-wide rebuilds.
type RetrainConfig struct {
	BatchSize      int           `koanf:"batch_size"`
	ReportInterval int           `koanf:"report_interval"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryDelay     time.Duration `koanf:"retry_delay"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	params := word2vec.DefaultParams()
	return &Config{
		Store: StoreConfig{
			Path: "remedy.db",
		},
		GloVe: GloVeConfig{
			Path:      "glove.6B.50d.txt",
			CacheSize: 4096,
		},
		Word2Vec: Word2VecConfig{
			Path:         "word2vec.bin",
			UpdatePolicy: word2vec.UpdateOnNewTokens.String(),
			Dim:          params.Dim,
			Window:       params.Window,
			Negative:     params.Negative,
			Epochs:       params.Epochs,
			MinCount:     params.MinCount,
			Alpha:        params.Alpha,
			MinAlpha:     params.MinAlpha,
			Seed:         params.Seed,
		},
		Ranking: RankingConfig{
			Strategy: core.StrategyBoW.String(),
			TopK:     5,
		},
		Retrain: RetrainConfig{
			BatchSize:      100,
			ReportInterval: 100,
			MaxRetries:     3,
			RetryDelay:     100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Params returns the word2vec hyperparameters.
func (c *Word2VecConfig) Params() word2vec.Params {
	return word2vec.Params{
		Dim:      c.Dim,
		Window:   c.Window,
		Negative: c.Negative,
		Epochs:   c.Epochs,
		MinCount: c.MinCount,
		Alpha:    c.Alpha,
		MinAlpha: c.MinAlpha,
		Seed:     c.Seed,
	}
}

// Policy parses UpdatePolicy.
func (c *Word2VecConfig) Policy() (word2vec.UpdatePolicy, error) {
	return word2vec.ParseUpdatePolicy(c.UpdatePolicy)
}

// DefaultStrategy parses Ranking.Strategy.
func (c *RankingConfig) DefaultStrategy() (core.StrategyID, error) {
	return core.ParseStrategy(c.Strategy)
}

// SlogLevel parses Level. Unknown names are an error.
func (c *LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is required unless store.in_memory is set", ErrInvalidConfig)
	}
	if c.GloVe.Path == "" {
		return fmt.Errorf("%w: glove.path is required", ErrInvalidConfig)
	}
	if c.GloVe.Dim < 0 {
		return fmt.Errorf("%w: glove.dim must not be negative", ErrInvalidConfig)
	}
	if c.GloVe.CacheSize < 0 {
		return fmt.Errorf("%w: glove.cache_size must not be negative", ErrInvalidConfig)
	}
	if err := c.Word2Vec.Params().Validate(); err != nil {
		return fmt.Errorf("%w: word2vec: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Word2Vec.Policy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Ranking.DefaultStrategy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Ranking.TopK < 1 {
		return fmt.Errorf("%w: ranking.top_k must be at least 1", ErrInvalidConfig)
	}
	if c.Ranking.PoolSize < 0 {
		return fmt.Errorf("%w: ranking.pool_size must not be negative", ErrInvalidConfig)
	}
	if c.Retrain.BatchSize < 1 {
		return fmt.Errorf("%w: retrain.batch_size must be at least 1", ErrInvalidConfig)
	}
	if c.Retrain.MaxRetries < 1 {
		return fmt.Errorf("%w: retrain.max_retries must be at least 1", ErrInvalidConfig)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	return nil
}
