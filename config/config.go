// Package config loads the roll CLI's configuration from a YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the defaults the roll CLI and REPL start from. Every
// field can be overridden per invocation by flags.
type Config struct {
	// Mode is the default roll mode: "normal", "average", "critical",
	// or "maximum".
	Mode string `yaml:"mode" env:"ROLL_MODE"`
	// Number is how many times each expression is rolled.
	Number int `yaml:"number" env:"ROLL_NUMBER"`
	// Wrap is the output line width; 0 disables wrapping.
	Wrap int `yaml:"wrap" env:"ROLL_WRAP"`
	// Verbose selects the detailed per-die output by default.
	Verbose bool `yaml:"verbose" env:"ROLL_VERBOSE"`
	// Seed, when nonzero, seeds the random source for repeatable rolls.
	Seed int64 `yaml:"seed" env:"ROLL_SEED"`
	// HistoryFile is where the REPL stores its input history.
	HistoryFile string `yaml:"history_file" env:"ROLL_HISTORY_FILE"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Mode:        "normal",
		Number:      1,
		Wrap:        80,
		HistoryFile: filepath.Join(os.TempDir(), ".dicelang_history"),
	}
}

// Load reads configuration from path, falling back to default locations
// when path is empty ($ROLL_CONFIG, ./roll.yaml, then
// ~/.config/dicelang/roll.yaml). A missing file is not an error; the
// defaults are used. Environment variables override file values.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Defaults()

	resolved := resolvePath(path, getenv)
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no run could make sense of.
func (c *Config) Validate() error {
	switch c.Mode {
	case "normal", "average", "critical", "maximum":
	default:
		return fmt.Errorf("invalid mode %q: want normal, average, critical, or maximum", c.Mode)
	}
	if c.Number < 1 {
		return fmt.Errorf("invalid number %d: must be at least 1", c.Number)
	}
	if c.Wrap < 0 {
		return fmt.Errorf("invalid wrap %d: must be 0 or positive", c.Wrap)
	}
	return nil
}

// resolvePath finds the config file to use, returning "" when none
// exists.
func resolvePath(path string, getenv func(string) string) string {
	if path != "" {
		return path
	}
	if p := getenv("ROLL_CONFIG"); p != "" {
		return p
	}
	candidates := []string{"roll.yaml"}
	if home := getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "dicelang", "roll.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
