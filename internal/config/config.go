package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	History   HistoryConfig   `yaml:"history"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Score     ScoreConfig     `yaml:"score"`
	Batch     BatchConfig     `yaml:"batch"`
	Diversity DiversityConfig `yaml:"diversity"`
}

// DatabaseConfig configures SQLite storage for run history.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HistoryConfig controls whether runs are saved by default.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// ScoreConfig holds defaults for the score command.
type ScoreConfig struct {
	Defaults ProbabilityDefaults `yaml:"defaults"`
}

// ProbabilityDefaults are the default engagement probabilities used when a
// flag is not given on the command line.
type ProbabilityDefaults struct {
	Likes         float64 `yaml:"likes"`
	Replies       float64 `yaml:"replies"`
	Reposts       float64 `yaml:"reposts"`
	Quotes        float64 `yaml:"quotes"`
	Follow        float64 `yaml:"follow"`
	VideoViews    float64 `yaml:"video_views"`
	ProfileClicks float64 `yaml:"profile_clicks"`
	Shares        float64 `yaml:"shares"`
	DMShares      float64 `yaml:"dm_shares"`
	Dwell         float64 `yaml:"dwell"`
	NotInterested float64 `yaml:"not_interested"`
	Block         float64 `yaml:"block"`
	Mute          float64 `yaml:"mute"`
	Report        float64 `yaml:"report"`
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	SameAuthor bool `yaml:"same_author"`
}

// DiversityConfig configures the diversity report.
type DiversityConfig struct {
	Posts int `yaml:"posts"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./reachscore.db"},
		History:  HistoryConfig{Enabled: false},
		Server:   ServerConfig{Port: 8080},
		Log:      LogConfig{Level: "info", Format: "text"},
		Score: ScoreConfig{
			Defaults: ProbabilityDefaults{
				Likes:         0.3,
				Replies:       0.15,
				Reposts:       0.08,
				Quotes:        0.04,
				Follow:        0.02,
				VideoViews:    0,
				ProfileClicks: 0.12,
				Shares:        0.05,
				DMShares:      0.02,
				Dwell:         0.25,
				NotInterested: 0.02,
				Block:         0.01,
				Mute:          0.01,
				Report:        0,
			},
		},
		Batch:     BatchConfig{SameAuthor: true},
		Diversity: DiversityConfig{Posts: 10},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (valid: text, json)", c.Log.Format)
	}
	if c.Diversity.Posts < 0 {
		return fmt.Errorf("invalid diversity posts %d", c.Diversity.Posts)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("REACHSCORE_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REACHSCORE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REACHSCORE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REACHSCORE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse REACHSCORE_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("REACHSCORE_HISTORY"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse REACHSCORE_HISTORY %q: %w", v, err)
		}
		cfg.History.Enabled = enabled
	}
	return nil
}
