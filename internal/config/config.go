// Package config loads todomvc settings. Sources are layered: built-in
// defaults, then the user file, then the project file (or an explicit
// file), then TODOMVC_* environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/todomvc/internal/ui"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"TODOMVC_STORAGE_DRIVER"`
	// Path defaults per driver: todos.json or todos.db in the working dir.
	Path string `yaml:"path" env:"TODOMVC_STORAGE_PATH"`
}

type UIConfig struct {
	Theme string `yaml:"theme" env:"TODOMVC_THEME"` // classic, neon or mono
	Group bool   `yaml:"group" env:"TODOMVC_GROUP"`
	Color string `yaml:"color" env:"TODOMVC_COLOR"` // auto, always or never
}

type ServerConfig struct {
	Addr  string `yaml:"addr" env:"TODOMVC_ADDR"`
	Token string `yaml:"token" env:"TODOMVC_SERVER_TOKEN"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"TODOMVC_LOG_LEVEL"`
	File  string `yaml:"file" env:"TODOMVC_LOG_FILE"` // used while the TUI owns the terminal
}

func Default() Config {
	return Config{
		Storage: StorageConfig{Driver: DriverJSON},
		UI:      UIConfig{Theme: "classic", Color: "auto"},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", File: "todomvc.log"},
	}
}

const (
	userConfigDir    = ".config/todomvc"
	projectConfigDir = ".todomvc"
	configFileName   = "config.yaml"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

// Load builds the configuration. A non-empty path replaces the user and
// project files and must exist. The result is not validated: callers apply
// their flags first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	} else {
		for _, candidate := range candidatePaths() {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if err := mergeFile(&cfg, candidate); err != nil {
				return Config{}, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func candidatePaths() []string {
	var paths []string
	if home, err := osUserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, userConfigDir, configFileName))
	}
	if wd, err := osGetwd(); err == nil {
		paths = append(paths, filepath.Join(wd, projectConfigDir, configFileName))
	}
	return paths
}

// mergeFile decodes path over cfg; keys absent from the file keep their value.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

var ErrInvalid = errors.New("invalid config")

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalid, c.Storage.Driver)
	}
	if !slices.Contains(ui.ThemeNames(), strings.ToLower(c.UI.Theme)) {
		return fmt.Errorf("%w: ui.theme must be one of %s, got %q", ErrInvalid, strings.Join(ui.ThemeNames(), ", "), c.UI.Theme)
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: ui.color must be auto, always or never, got %q", ErrInvalid, c.UI.Color)
	}
	return nil
}
