// Package config loads optional per-directory settings for the jot CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the settings file looked up inside the notes directory.
	FileName = ".jot.yaml"
	// EnvDir overrides the notes directory.
	EnvDir = "JOT_DIR"
)

// Config holds the settings a notes directory may carry.
type Config struct {
	Extension    string   `yaml:"extension,omitempty"`
	LogFile      string   `yaml:"log_file,omitempty"`
	TimeLayout   string   `yaml:"time_layout,omitempty"`
	StrictCreate bool     `yaml:"strict_create,omitempty"`
	ReadOnly     bool     `yaml:"read_only,omitempty"`
	Debounce     Duration `yaml:"debounce,omitempty"`
	EventBuffer  int      `yaml:"event_buffer,omitempty"`
}

// Duration is a time.Duration written as "50ms" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Load reads <dir>/.jot.yaml. A missing file yields the zero Config.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to <dir>/.jot.yaml.
func Save(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// LoadEnv loads variables from the given .env files (".env" when none are
// given) without overriding the process environment. Missing files are fine.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env: %w", err)
	}
	return nil
}

// DirFromEnv returns the notes directory named by JOT_DIR, if set.
func DirFromEnv() string {
	return os.Getenv(EnvDir)
}
