// Package config handles loading and saving user configuration for kana.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/kana/internal/kana"
	"gopkg.in/yaml.v3"
)

// Quiz modes.
const (
	ModeInfinite = "infinite"
	ModeSession  = "session"
)

// Feedback styles.
const (
	FeedbackLive   = "live"   // diff redrawn on every keystroke
	FeedbackSubmit = "submit" // diff shown after Enter
)

// Config holds all user configuration for kana.
type Config struct {
	Quiz QuizConfig `yaml:"quiz"`
	Data DataConfig `yaml:"data"`
	Log  LogConfig  `yaml:"log"`
}

// QuizConfig controls what is asked and how answers are scored.
type QuizConfig struct {
	Mode          string        `yaml:"mode"`
	SessionLength int           `yaml:"session_length"`
	Scripts       []kana.Script `yaml:"scripts"`
	Groups        []string      `yaml:"groups,omitempty"` // empty means all groups
	Feedback      string        `yaml:"feedback"`
}

// DataConfig points at data files. Empty paths mean built-in data.
type DataConfig struct {
	Dictionary string   `yaml:"dictionary,omitempty"`
	Words      []string `yaml:"words,omitempty"`
	Store      string   `yaml:"store,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Quiz: QuizConfig{
			Mode:          ModeInfinite,
			SessionLength: 20,
			Scripts:       []kana.Script{kana.Hiragana, kana.Katakana},
			Feedback:      FeedbackLive,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Quiz.Mode {
	case ModeInfinite, ModeSession:
	default:
		errs = append(errs, fmt.Errorf("quiz.mode: unknown mode %q", c.Quiz.Mode))
	}
	if c.Quiz.Mode == ModeSession && c.Quiz.SessionLength <= 0 {
		errs = append(errs, fmt.Errorf("quiz.session_length: must be positive in session mode, got %d", c.Quiz.SessionLength))
	}
	for _, s := range c.Quiz.Scripts {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("quiz.scripts: unknown script %q", s))
		}
	}
	switch c.Quiz.Feedback {
	case FeedbackLive, FeedbackSubmit:
	default:
		errs = append(errs, fmt.Errorf("quiz.feedback: unknown style %q", c.Quiz.Feedback))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Load reads a config file. Fields missing from the file keep their
// default values. A missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kana"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the path of config.yaml in the config directory.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// StorePath returns the configured SQLite path, defaulting to kana.db in
// the config directory.
func (c *Config) StorePath() (string, error) {
	if c.Data.Store != "" {
		return c.Data.Store, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kana.db"), nil
}
