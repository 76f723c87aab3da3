package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/TimelordUK/wcstats/internal/metrics"
	"github.com/TimelordUK/wcstats/internal/replay"
)

// Config holds all application configuration
type Config struct {
	Logs     LogsConfig     `toml:"logs"`
	Analysis AnalysisConfig `toml:"analysis"`
	Cache    CacheConfig    `toml:"cache"`
	Theme    ThemeConfig    `toml:"theme"`
	Log      LogConfig      `toml:"log"`
}

// LogsConfig locates the recorder's session logs
type LogsConfig struct {
	Dir string `toml:"dir"`
}

// AnalysisConfig selects analysis behaviour
type AnalysisConfig struct {
	SentenceStrategy string `toml:"sentence_strategy"`
	Similarity       string `toml:"similarity"`
	EmptyDeletion    string `toml:"empty_deletion"`
	SeedFromFile     bool   `toml:"seed_from_file"`
	SeedWindow       string `toml:"seed_window"`
	Workers          int    `toml:"workers"`
	FailFast         bool   `toml:"fail_fast"`
}

// CacheConfig controls the analyzed session cache
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// ThemeConfig defines report colors
type ThemeConfig struct {
	Title    string `toml:"title"`
	Heading  string `toml:"heading"`
	Label    string `toml:"label"`
	Positive string `toml:"positive"`
	Negative string `toml:"negative"`
	Muted    string `toml:"muted"`
	Syntax   string `toml:"syntax"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Logs: LogsConfig{
			Dir: DefaultLogDir(),
		},
		Analysis: AnalysisConfig{
			SentenceStrategy: "punctuation",
			Similarity:       "jaccard",
			EmptyDeletion:    "backspace",
			SeedFromFile:     true,
			SeedWindow:       "1h",
			Workers:          4,
			FailFast:         false,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    DefaultCachePath(),
		},
		Theme: ThemeConfig{
			Title:    "212", // Pink
			Heading:  "75",  // Light blue
			Label:    "250", // Light gray
			Positive: "114", // Green
			Negative: "167", // Soft red
			Muted:    "240", // Dark gray
			Syntax:   "monokai",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads config from the default path, falling back to defaults
func Load() (*Config, error) {
	return LoadFile(getConfigPath())
}

// LoadFile loads config from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save saves config to the default path
func Save(cfg *Config) error {
	return SaveFile(cfg, getConfigPath())
}

// SaveFile saves config to path
func SaveFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the enumerated and duration settings
func (c *Config) Validate() error {
	if _, err := c.SentenceStrategy(); err != nil {
		return err
	}
	if _, err := c.SimilarityStrategy(); err != nil {
		return err
	}
	if _, err := c.EmptyDeletion(); err != nil {
		return err
	}
	if _, err := c.SeedWindow(); err != nil {
		return err
	}
	return nil
}

// SentenceStrategy returns the parsed analysis.sentence_strategy
func (c *Config) SentenceStrategy() (metrics.SentenceStrategy, error) {
	return metrics.ParseSentenceStrategy(c.Analysis.SentenceStrategy)
}

// SimilarityStrategy returns the parsed analysis.similarity
func (c *Config) SimilarityStrategy() (metrics.SimilarityStrategy, error) {
	return metrics.ParseSimilarityStrategy(c.Analysis.Similarity)
}

// EmptyDeletion returns the parsed analysis.empty_deletion
func (c *Config) EmptyDeletion() (replay.EmptyDeletion, error) {
	return replay.ParseEmptyDeletion(c.Analysis.EmptyDeletion)
}

// SeedWindow returns the parsed analysis.seed_window
func (c *Config) SeedWindow() (time.Duration, error) {
	if c.Analysis.SeedWindow == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Analysis.SeedWindow)
	if err != nil {
		return 0, fmt.Errorf("invalid seed_window %q: %w", c.Analysis.SeedWindow, err)
	}
	return d, nil
}

// DefaultLogDir returns where the recorder keeps session logs
func DefaultLogDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "writecontrol", "current")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "writecontrol", "current")
}

// DefaultCachePath returns the analysis cache database path
func DefaultCachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "wcstats", "sessions.db")
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wcstats", "sessions.db")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wcstats", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "wcstats", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
