// Package config loads the application configuration from defaults, an
// optional YAML file, a .env file and WALLETDASH_* environment variables,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the application reads
const EnvPrefix = "WALLETDASH_"

// minChartSize leaves room for the 20px ring margin on each side
const minChartSize = 40

// DefaultConfigFile is read from the working directory when present
const DefaultConfigFile = "walletdash.yaml"

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr      string        `yaml:"listen_addr"`
	Debug           bool          `yaml:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// Directories. An empty TemplatesDirectory uses the embedded templates.
	DataDirectory      string `yaml:"data_directory"`
	TemplatesDirectory string `yaml:"templates_directory"`

	// Passphrase unlocks an encrypted data directory. Environment only.
	Passphrase string `yaml:"-"`

	// RecentLimit caps the dashboard transaction list, newest first.
	// Zero shows every transaction.
	RecentLimit int `yaml:"recent_limit"`

	Chart ChartConfig `yaml:"chart"`
}

// ChartConfig holds donut chart settings
type ChartConfig struct {
	Size       float64 `yaml:"size"`
	LineWidth  float64 `yaml:"line_width"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:      ":8080",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		DataDirectory:   filepath.Join(wd, "data"),
		RecentLimit:     5,
		Chart: ChartConfig{
			Size:       220,
			LineWidth:  32,
			PixelRatio: 1,
		},
	}
}

// Load reads configuration using the process environment and ./.env.
// path may be empty, in which case WALLETDASH_CONFIG or walletdash.yaml
// is used when it exists.
func Load(path string) (*Config, error) {
	return LoadWith(path, ".env", os.Getenv)
}

// LoadWith is Load with an explicit .env path and environment lookup.
// Variables from getenv take precedence over the .env file.
func LoadWith(path, envFile string, getenv func(string) string) (*Config, error) {
	dotenv := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = vars
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if p := lookup(EnvPrefix + "CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultConfigFile
		}
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file over the current values. A missing file is
// only an error when it was asked for explicitly.
func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides values from WALLETDASH_* variables
func (c *Config) applyEnv(lookup func(string) string) error {
	if addr := lookup(EnvPrefix + "LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if debug := lookup(EnvPrefix + "DEBUG"); debug != "" {
		c.Debug = parseBool(debug)
	}
	if level := lookup(EnvPrefix + "LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if j := lookup(EnvPrefix + "LOG_JSON"); j != "" {
		c.LogJSON = parseBool(j)
	}
	if dataDir := lookup(EnvPrefix + "DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if templatesDir := lookup(EnvPrefix + "TEMPLATES_DIR"); templatesDir != "" {
		c.TemplatesDirectory = templatesDir
	}
	c.Passphrase = lookup(EnvPrefix + "PASSPHRASE")

	if v := lookup(EnvPrefix + "SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err)
		}
		c.ShutdownTimeout = d
	}

	if v := lookup(EnvPrefix + "RECENT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sRECENT_LIMIT: %w", EnvPrefix, err)
		}
		c.RecentLimit = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"CHART_SIZE", &c.Chart.Size},
		{"CHART_LINE_WIDTH", &c.Chart.LineWidth},
		{"CHART_PIXEL_RATIO", &c.Chart.PixelRatio},
	}
	for _, f := range floats {
		v := lookup(EnvPrefix + f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.key, err)
		}
		*f.dst = n
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if !finite(c.Chart.Size) || !(c.Chart.Size > minChartSize) {
		return fmt.Errorf("chart size %v is too small", c.Chart.Size)
	}
	if !finite(c.Chart.LineWidth) || !(c.Chart.LineWidth > 0) {
		return fmt.Errorf("chart line width must be positive")
	}
	if !finite(c.Chart.PixelRatio) || !(c.Chart.PixelRatio > 0) {
		return fmt.Errorf("chart pixel ratio must be positive")
	}
	if c.RecentLimit < 0 {
		return fmt.Errorf("recent transaction limit must not be negative")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
