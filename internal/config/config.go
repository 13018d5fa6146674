// Package config loads lunamem configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration surface of the memory core.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path" mapstructure:"db_path"`

	// PinnedCacheTTLSeconds bounds staleness of pinned reads.
	PinnedCacheTTLSeconds int `yaml:"pinned_cache_ttl_seconds" mapstructure:"pinned_cache_ttl_seconds"`

	// PinnedLimit is the per-turn pinned read limit.
	PinnedLimit int `yaml:"pinned_limit" mapstructure:"pinned_limit"`

	// NonPinnedCap is the max number of non-pinned facts kept.
	NonPinnedCap int `yaml:"non_pinned_cap" mapstructure:"non_pinned_cap"`

	// ChunkChars is the chunk size bound in characters.
	ChunkChars int `yaml:"chunk_chars" mapstructure:"chunk_chars"`

	// RetrieveK is the max number of retrieval results.
	RetrieveK int `yaml:"retrieve_k" mapstructure:"retrieve_k"`

	// MinScore filters retrieval results at or below this score.
	MinScore float64 `yaml:"min_score" mapstructure:"min_score"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:                filepath.Join(home, ".local", "share", "lunamem", "lunamem.db"),
		PinnedCacheTTLSeconds: 15,
		PinnedLimit:           50,
		NonPinnedCap:          500,
		ChunkChars:            1200,
		RetrieveK:             5,
		MinScore:              0.0,
	}
}

// Load reads config.yaml from the standard search paths, applies LUNAMEM_
// environment overrides, and validates the result.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Register every key so environment overrides apply on Unmarshal.
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("pinned_cache_ttl_seconds", cfg.PinnedCacheTTLSeconds)
	v.SetDefault("pinned_limit", cfg.PinnedLimit)
	v.SetDefault("non_pinned_cap", cfg.NonPinnedCap)
	v.SetDefault("chunk_chars", cfg.ChunkChars)
	v.SetDefault("retrieve_k", cfg.RetrieveK)
	v.SetDefault("min_score", cfg.MinScore)

	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "lunamem"))
	}
	home, _ := os.UserHomeDir()
	v.AddConfigPath(filepath.Join(home, ".config", "lunamem"))

	v.SetEnvPrefix("LUNAMEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file; defaults and env only.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for startup errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db_path is required")
	}
	if c.PinnedCacheTTLSeconds < 0 {
		return fmt.Errorf("config: pinned_cache_ttl_seconds must not be negative")
	}
	if c.PinnedLimit < 1 {
		return fmt.Errorf("config: pinned_limit must be positive")
	}
	if c.NonPinnedCap < 1 {
		return fmt.Errorf("config: non_pinned_cap must be positive")
	}
	if c.ChunkChars < 1 {
		return fmt.Errorf("config: chunk_chars must be positive")
	}
	if c.RetrieveK < 1 {
		return fmt.Errorf("config: retrieve_k must be positive")
	}
	if c.MinScore < 0 {
		return fmt.Errorf("config: min_score must not be negative")
	}
	return nil
}
