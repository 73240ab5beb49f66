package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrEmptyPath is returned when a config path is not set.
var ErrEmptyPath = errors.New("config path is empty")

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Monitor MonitorConfig `toml:"monitor"`
	Strip   StripConfig   `toml:"strip"`
}

// MonitorConfig maps the capture settings. Absent keys stay nil.
type MonitorConfig struct {
	Channel   *int    `toml:"channel"`
	Interval  *int    `toml:"interval"`
	Timeframe *int    `toml:"timeframe"`
	Region    *string `toml:"region"`
}

// StripConfig maps the display settings.
type StripConfig struct {
	Height *int `toml:"height"`
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "actlight", "config.toml")
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, ErrEmptyPath
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the values present in the file onto s.
func (f FileConfig) Apply(s Settings) Settings {
	if f.Monitor.Channel != nil {
		s.Channel = *f.Monitor.Channel
	}
	if f.Monitor.Interval != nil {
		s.IntervalMs = *f.Monitor.Interval
	}
	if f.Monitor.Timeframe != nil {
		s.HistorySec = *f.Monitor.Timeframe
	}
	if f.Monitor.Region != nil {
		s.Region = *f.Monitor.Region
	}
	if f.Strip.Height != nil {
		s.Height = *f.Strip.Height
	}
	return s
}

// FromSettings builds a file config holding every value of s.
func FromSettings(s Settings) FileConfig {
	return FileConfig{
		Monitor: MonitorConfig{
			Channel:   &s.Channel,
			Interval:  &s.IntervalMs,
			Timeframe: &s.HistorySec,
			Region:    &s.Region,
		},
		Strip: StripConfig{Height: &s.Height},
	}
}

// SaveConfig writes s to path, creating the parent directory.
func SaveConfig(path string, s Settings) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("# actlight configuration. CLI flags override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(FromSettings(s)); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
