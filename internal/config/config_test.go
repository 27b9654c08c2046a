package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "./data/transcheck.db", cfg.DBPath)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, "openai", cfg.Review.Provider)
	assert.Equal(t, 8, cfg.Review.BatchSize)
	assert.Equal(t, 0.90, cfg.Checks.UntranslatedThreshold)
	assert.Equal(t, "grouping", cfg.Checks.GroupingWithoutDecimal)
	assert.Equal(t, int64(10<<20), cfg.Checks.MaxUploadBytes)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: ":9090"
retention_days: 7
review:
  provider: ollama
  base_url: http://localhost:11434
  model: llama3
checks:
  untranslated_threshold: 0.85
  grouping_without_decimal: decimal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, "ollama", cfg.Review.Provider)
	assert.Equal(t, "llama3", cfg.Review.Model)
	assert.Equal(t, 0.85, cfg.Checks.UntranslatedThreshold)
	assert.Equal(t, "decimal", cfg.Checks.GroupingWithoutDecimal)
	// untouched keys keep defaults
	assert.Equal(t, 2.0, cfg.Checks.RatioMaxFactor)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TRANSCHECK_LISTEN_ADDR", ":7000")
	t.Setenv("TRANSCHECK_REVIEW_API_KEY", "sk-test")
	t.Setenv("TRANSCHECK_RETENTION_DAYS", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "sk-test", cfg.Review.APIKey)
	assert.Equal(t, 3, cfg.RetentionDays)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad provider", "review:\n  provider: bedrock\n"},
		{"bad grouping", "checks:\n  grouping_without_decimal: maybe\n"},
		{"bad threshold", "checks:\n  untranslated_threshold: 1.5\n"},
		{"inverted ratio band", "checks:\n  ratio_min_factor: 3.0\n  ratio_max_factor: 2.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
