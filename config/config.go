package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds the full scan tool configuration
type Config struct {
	DetectorConfig DetectorConfig `json:"detector"`
	InputConfig    InputConfig    `json:"input"`
	LoggingConfig  LoggingConfig  `json:"logging"`
}

// DetectorConfig holds pattern detection tuning
type DetectorConfig struct {
	SwingLookback int `json:"swing_lookback"` // Symmetric swing window
	TopN          int `json:"top_n"`          // Max ranked signals to emit
	VolumePeriod  int `json:"volume_period"`  // Rolling volume average period
}

// InputConfig holds candle file input settings
type InputConfig struct {
	Path   string `json:"path"`   // Candle history file
	Format string `json:"format"` // json, csv, or parquet; empty = by extension
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level      string `json:"level"`       // DEBUG, INFO, WARN, ERROR
	JSONFormat bool   `json:"json_format"` // JSON output instead of console
}

// Load reads the base config from a JSON file when present, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := loadFromFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.DetectorConfig.SwingLookback = getEnvIntOrDefault("PATTERN_SWING_LOOKBACK", cfg.DetectorConfig.SwingLookback)
	cfg.DetectorConfig.TopN = getEnvIntOrDefault("PATTERN_TOP_N", cfg.DetectorConfig.TopN)
	cfg.DetectorConfig.VolumePeriod = getEnvIntOrDefault("PATTERN_VOLUME_PERIOD", cfg.DetectorConfig.VolumePeriod)

	cfg.InputConfig.Path = getEnvOrDefault("PATTERN_INPUT", cfg.InputConfig.Path)
	cfg.InputConfig.Format = getEnvOrDefault("PATTERN_INPUT_FORMAT", cfg.InputConfig.Format)

	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", cfg.LoggingConfig.Level)
	if v := os.Getenv("LOG_JSON"); v != "" {
		cfg.LoggingConfig.JSONFormat = v == "true"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DetectorConfig.SwingLookback <= 0 {
		cfg.DetectorConfig.SwingLookback = 10
	}
	if cfg.DetectorConfig.TopN <= 0 {
		cfg.DetectorConfig.TopN = 10
	}
	if cfg.DetectorConfig.VolumePeriod <= 0 {
		cfg.DetectorConfig.VolumePeriod = 20
	}
	if cfg.LoggingConfig.Level == "" {
		cfg.LoggingConfig.Level = "INFO"
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
