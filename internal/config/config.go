package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	ListenAddr    string       `yaml:"listen_addr"`
	DataDir       string       `yaml:"data_dir"`
	DBPath        string       `yaml:"db_path"`
	LogLevel      string       `yaml:"log_level"`
	RetentionDays int          `yaml:"retention_days"`
	Review        ReviewConfig `yaml:"review"`
	Checks        ChecksConfig `yaml:"checks"`
}

// ReviewConfig configures the external review provider.
type ReviewConfig struct {
	Provider    string `yaml:"provider"` // openai, openrouter, ollama
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	BatchSize   int    `yaml:"batch_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChecksConfig tunes the deterministic checks. The grouping option decides
// how a three-digit group with no decimal separator is read: "grouping"
// treats 1.250 as 1250, "decimal" treats it as 1.25.
type ChecksConfig struct {
	UntranslatedThreshold  float64 `yaml:"untranslated_threshold"`
	RatioMinFactor         float64 `yaml:"ratio_min_factor"`
	RatioMaxFactor         float64 `yaml:"ratio_max_factor"`
	RatioFallbackMin       float64 `yaml:"ratio_fallback_min"`
	RatioFallbackMax       float64 `yaml:"ratio_fallback_max"`
	NameScoreThreshold     float64 `yaml:"name_score_threshold"`
	GroupingWithoutDecimal string  `yaml:"grouping_without_decimal"`
	MaxUploadBytes         int64   `yaml:"max_upload_bytes"`
}

// Load reads configuration from a YAML file and applies defaults. A missing
// file is not an error: defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("TRANSCHECK_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./data/transcheck.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 30
	}
	if cfg.Review.Provider == "" {
		cfg.Review.Provider = "openai"
	}
	if cfg.Review.Model == "" {
		cfg.Review.Model = "gpt-4o-mini"
	}
	if cfg.Review.BatchSize == 0 {
		cfg.Review.BatchSize = 8
	}
	if cfg.Review.TimeoutSecs == 0 {
		cfg.Review.TimeoutSecs = 30
	}
	if cfg.Checks.UntranslatedThreshold == 0 {
		cfg.Checks.UntranslatedThreshold = 0.90
	}
	if cfg.Checks.RatioMinFactor == 0 {
		cfg.Checks.RatioMinFactor = 0.5
	}
	if cfg.Checks.RatioMaxFactor == 0 {
		cfg.Checks.RatioMaxFactor = 2.0
	}
	if cfg.Checks.RatioFallbackMin == 0 {
		cfg.Checks.RatioFallbackMin = 0.5
	}
	if cfg.Checks.RatioFallbackMax == 0 {
		cfg.Checks.RatioFallbackMax = 2.0
	}
	if cfg.Checks.NameScoreThreshold == 0 {
		cfg.Checks.NameScoreThreshold = 80
	}
	if cfg.Checks.GroupingWithoutDecimal == "" {
		cfg.Checks.GroupingWithoutDecimal = "grouping"
	}
	if cfg.Checks.MaxUploadBytes == 0 {
		cfg.Checks.MaxUploadBytes = 10 << 20
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("TRANSCHECK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TRANSCHECK_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TRANSCHECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TRANSCHECK_REVIEW_API_KEY"); v != "" {
		cfg.Review.APIKey = v
	}
	if v := os.Getenv("TRANSCHECK_REVIEW_MODEL"); v != "" {
		cfg.Review.Model = v
	}
	if v := os.Getenv("TRANSCHECK_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetentionDays = n
		}
	}
}

func validate(cfg *Config) error {
	switch cfg.Review.Provider {
	case "openai", "openrouter", "ollama":
	default:
		return fmt.Errorf("unknown review provider %q", cfg.Review.Provider)
	}
	switch cfg.Checks.GroupingWithoutDecimal {
	case "grouping", "decimal":
	default:
		return fmt.Errorf("checks.grouping_without_decimal must be grouping or decimal, got %q", cfg.Checks.GroupingWithoutDecimal)
	}
	if cfg.Checks.UntranslatedThreshold <= 0 || cfg.Checks.UntranslatedThreshold > 1 {
		return fmt.Errorf("checks.untranslated_threshold must be in (0, 1], got %v", cfg.Checks.UntranslatedThreshold)
	}
	if cfg.Checks.RatioMinFactor >= cfg.Checks.RatioMaxFactor {
		return fmt.Errorf("checks.ratio_min_factor must be below ratio_max_factor")
	}
	if cfg.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative")
	}
	return nil
}
