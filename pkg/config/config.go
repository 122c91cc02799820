// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config captures where the snapshot lives and how the engine behaves.
type Config struct {
	Store         string
	DataDir       string
	SQLitePath    string
	RedisURL      string
	RedisPrefix   string
	LogLevel      slog.Level
	MinSimilarity float64
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Store:       strings.ToLower(os.Getenv("VOTERROLL_STORE")),
		DataDir:     os.Getenv("VOTERROLL_DATA_DIR"),
		SQLitePath:  os.Getenv("VOTERROLL_SQLITE_PATH"),
		RedisURL:    os.Getenv("VOTERROLL_REDIS_URL"),
		RedisPrefix: os.Getenv("VOTERROLL_REDIS_PREFIX"),
	}

	if cfg.Store == "" {
		cfg.Store = StoreFile
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "voterroll.db")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "voterroll"
	}

	if level := os.Getenv("VOTERROLL_LOG_LEVEL"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("VOTERROLL_LOG_LEVEL: %w", err)
		}
	}

	if v := os.Getenv("VOTERROLL_MIN_SIMILARITY"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("VOTERROLL_MIN_SIMILARITY: %w", err)
		}
		cfg.MinSimilarity = threshold
	}

	return cfg, cfg.Validate()
}

// Validate rejects unknown backends and out-of-range thresholds.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file, sqlite or redis)", c.Store)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("min similarity %v out of range [0, 1]", c.MinSimilarity)
	}
	return nil
}
