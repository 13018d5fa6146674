package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15, cfg.PinnedCacheTTLSeconds)
	assert.Equal(t, 500, cfg.NonPinnedCap)
	assert.Equal(t, 1200, cfg.ChunkChars)
	assert.Equal(t, 5, cfg.RetrieveK)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = " " }},
		{"negative ttl", func(c *Config) { c.PinnedCacheTTLSeconds = -1 }},
		{"zero pinned limit", func(c *Config) { c.PinnedLimit = 0 }},
		{"zero cap", func(c *Config) { c.NonPinnedCap = 0 }},
		{"zero chunk bound", func(c *Config) { c.ChunkChars = 0 }},
		{"zero k", func(c *Config) { c.RetrieveK = 0 }},
		{"negative min score", func(c *Config) { c.MinScore = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("LUNAMEM_DB_PATH", "/tmp/lunamem-test.db")
	t.Setenv("LUNAMEM_RETRIEVE_K", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lunamem-test.db", cfg.DBPath)
	assert.Equal(t, 9, cfg.RetrieveK)
}
