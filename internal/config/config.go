// Package config provides vinyldeckd's configuration file.
//
// Configuration is stored under os.UserConfigDir()/vinyldeck/config.yaml:
//
//	~/Library/Application Support/vinyldeck/config.yaml   (macOS)
//	~/.config/vinyldeck/config.yaml                       (Linux)
//	%AppData%/vinyldeck/config.yaml                       (Windows)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	appDir     = "vinyldeck"
	configFile = "config.yaml"
)

// DeckConfig describes one named deck's importer.
type DeckConfig struct {
	ImporterPath string `yaml:"importer_path" json:"importer_path"`
}

// Config is the root of vinyldeckd's on-disk configuration.
type Config struct {
	// Decks maps a deck name (as used by the CLI's <deck> argument) to
	// its importer configuration.
	Decks map[string]DeckConfig `yaml:"decks" json:"decks"`

	// TrackRate is a sample rate in Hz, loaded and saved with the file.
	// Nothing in vinyldeckd reads it: decks always run at the
	// compile-time deck.TrackRate.
	TrackRate int `yaml:"track_rate,omitempty" json:"track_rate,omitempty"`

	// MonitorAddr is the bind address for the monitor websocket
	// server, e.g. ":8089".
	MonitorAddr string `yaml:"monitor_addr" json:"monitor_addr"`

	// LibraryDir holds the catalog's badger directory and crate files.
	LibraryDir string `yaml:"library_dir" json:"library_dir"`
}

// Default returns a Config usable without any file on disk.
func Default() *Config {
	return &Config{
		Decks:       map[string]DeckConfig{},
		MonitorAddr: ":8089",
		LibraryDir:  "library",
	}
}

// Path returns the default config file path under os.UserConfigDir().
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, configFile), nil
}

// Load reads and validates the config file at the default location. A
// missing file is not an error: Load returns Default() instead.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config file at path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its parent directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
