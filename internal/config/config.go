// Package config loads and validates the cubeforge run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cubeforge/internal/cube"
)

// Config represents the full run configuration.
type Config struct {
	// Cube generation settings
	Cube CubeConfig `toml:"cube"`

	// Recency decay settings
	Decay DecayConfig `toml:"decay"`

	// Source cube fetching settings
	Fetch FetchConfig `toml:"fetch"`

	// Local persistence settings
	Storage StorageConfig `toml:"storage"`
}

// CubeConfig describes the cube to generate.
type CubeConfig struct {
	Name          string   `toml:"name"`           // Generated cube name
	CardCount     int      `toml:"card_count"`     // Nominal target size
	Category      string   `toml:"category"`       // Target category (e.g. "Vintage")
	Tolerance     float64  `toml:"tolerance"`      // Fractional size tolerance (default 0.1)
	CubeIDs       []string `toml:"cube_ids"`       // Source cube identifiers
	CardBlacklist []string `toml:"card_blacklist"` // Inline blacklist entries
	BlacklistFile string   `toml:"blacklist_file"` // Optional newline-delimited blacklist file
	Overwrite     bool     `toml:"overwrite"`      // Replace an existing artifact
	Seed          *int64   `toml:"seed"`           // Optional reproducibility seed
}

// DecayConfig selects and tunes the recency decay strategy.
type DecayConfig struct {
	Strategy string `toml:"strategy"`  // "exponential" or "hyperbolic"
	HalfLife string `toml:"half_life"` // Exponential half-life (e.g. "8760h")
	Scale    string `toml:"scale"`     // Hyperbolic scale (e.g. "2160h")
}

// FetchConfig controls the source cube fetcher.
type FetchConfig struct {
	Concurrency      int    `toml:"concurrency"`        // Parallel fetches (default 4)
	UpdateWindowDays int    `toml:"update_window_days"` // Skip sources staler than this (default 365)
	UserAgent        string `toml:"user_agent"`
}

// StorageConfig locates the local database.
type StorageConfig struct {
	Path string `toml:"path"` // SQLite database path
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Cube: CubeConfig{
			Name:      "generated-cube",
			CardCount: 360,
			Category:  string(cube.CategoryVintage),
			Tolerance: 0.1,
		},
		Decay: DecayConfig{
			Strategy: "exponential",
			HalfLife: "8760h",
		},
		Fetch: FetchConfig{
			Concurrency:      4,
			UpdateWindowDays: 365,
			UserAgent:        "cubeforge/1.0",
		},
		Storage: StorageConfig{
			Path: defaultDBPath(),
		},
	}
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "cubeforge.db"
	}
	return filepath.Join(homeDir, ".cubeforge", "cubeforge.db")
}

// Load reads the configuration from the given path, or returns the
// default configuration if the file does not exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Cube.Name == "" {
		return fmt.Errorf("cube name cannot be empty")
	}
	if c.Cube.CardCount <= 0 {
		return fmt.Errorf("card count must be positive: %d", c.Cube.CardCount)
	}
	if c.Cube.Tolerance < 0 || c.Cube.Tolerance >= 1 {
		return fmt.Errorf("tolerance must be in [0, 1): %g", c.Cube.Tolerance)
	}
	if _, err := cube.ParseCategory(c.Cube.Category); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	if len(c.Cube.CubeIDs) == 0 {
		return fmt.Errorf("at least one cube id is required")
	}

	switch c.Decay.Strategy {
	case "exponential":
		if _, err := time.ParseDuration(c.Decay.HalfLife); err != nil {
			return fmt.Errorf("invalid decay half-life %q: %w", c.Decay.HalfLife, err)
		}
	case "hyperbolic":
		if _, err := time.ParseDuration(c.Decay.Scale); err != nil {
			return fmt.Errorf("invalid decay scale %q: %w", c.Decay.Scale, err)
		}
	default:
		return fmt.Errorf("unknown decay strategy %q", c.Decay.Strategy)
	}

	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch concurrency must be at least 1: %d", c.Fetch.Concurrency)
	}
	if c.Fetch.UpdateWindowDays < 0 {
		return fmt.Errorf("update window cannot be negative: %d", c.Fetch.UpdateWindowDays)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path cannot be empty")
	}

	return nil
}

// BlacklistEntries merges the inline blacklist with the entries of the
// optional blacklist file (one card name per line, blank lines and
// #-comments ignored).
func (c *Config) BlacklistEntries() ([]string, error) {
	entries := append([]string(nil), c.Cube.CardBlacklist...)

	if c.Cube.BlacklistFile != "" {
		data, err := os.ReadFile(c.Cube.BlacklistFile)
		if err != nil {
			return nil, fmt.Errorf("read blacklist file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			entries = append(entries, line)
		}
	}

	return entries, nil
}

// GetDecayHalfLife returns the exponential half-life as a duration.
func (c *Config) GetDecayHalfLife() (time.Duration, error) {
	return time.ParseDuration(c.Decay.HalfLife)
}

// GetDecayScale returns the hyperbolic scale as a duration.
func (c *Config) GetDecayScale() (time.Duration, error) {
	return time.ParseDuration(c.Decay.Scale)
}
