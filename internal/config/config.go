package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle     = "plugview"
	DefaultFrameRate = 60
	MaxFrameRate     = 240
	DefaultLogLevel  = "info"
	DefaultMaxSizeMB = 10
	DefaultMaxFiles  = 3
)

// LoggingConfig configures the diagnostic log file.
type LoggingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Level     string `yaml:"level"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// EditorConfig configures the embedded editor window.
type EditorConfig struct {
	Title     string `yaml:"title"`
	FrameRate int    `yaml:"frame_rate"`
}

// Config is the effective plugview configuration.
type Config struct {
	// Display overrides $DISPLAY for X11 connections. Empty uses the environment.
	Display string        `yaml:"display,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	Editor  EditorConfig  `yaml:"editor"`
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Enabled:   true,
			Level:     DefaultLogLevel,
			MaxSizeMB: DefaultMaxSizeMB,
			MaxFiles:  DefaultMaxFiles,
		},
		Editor: EditorConfig{
			Title:     DefaultTitle,
			FrameRate: DefaultFrameRate,
		},
	}
}

// DefaultLogPath returns ~/tmp/plugview.log.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		home = "."
	}
	return filepath.Join(home, "tmp", "plugview.log")
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return DefaultConfig().Logging
	}
	cfg := c.Logging
	if cfg.File == "" {
		cfg.File = DefaultLogPath()
	} else if strings.HasPrefix(cfg.File, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.File = filepath.Join(home, cfg.File[2:])
		}
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	return cfg
}

// FrameInterval converts editor.frame_rate to a tick period.
func (c *Config) FrameInterval() time.Duration {
	rate := DefaultFrameRate
	if c != nil && c.Editor.FrameRate > 0 {
		rate = c.Editor.FrameRate
	}
	return time.Second / time.Duration(rate)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	if strings.TrimSpace(c.Editor.Title) == "" {
		return &ValidationError{Path: "editor.title", Err: fmt.Errorf("title must not be empty")}
	}
	if c.Editor.FrameRate < 1 || c.Editor.FrameRate > MaxFrameRate {
		return &ValidationError{Path: "editor.frame_rate", Err: fmt.Errorf("frame_rate must be between 1 and %d", MaxFrameRate)}
	}
	return nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToPath validates the config and writes it to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) SaveToPath(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
