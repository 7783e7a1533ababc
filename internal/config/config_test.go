package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) (home, wd string) {
	t.Helper()
	home, wd = t.TempDir(), t.TempDir()
	oldHome, oldWd := osUserHomeDir, osGetwd
	osUserHomeDir = func() (string, error) { return home, nil }
	osGetwd = func() (string, error) { return wd, nil }
	t.Cleanup(func() { osUserHomeDir, osGetwd = oldHome, oldWd })
	return home, wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadLayers(t *testing.T) {
	home, wd := isolate(t)
	writeFile(t, filepath.Join(home, userConfigDir, configFileName), `
storage:
  driver: sqlite
  path: /tmp/user.db
ui:
  theme: neon
`)
	writeFile(t, filepath.Join(wd, projectConfigDir, configFileName), `
storage:
  path: project.db
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "project.db", cfg.Storage.Path)
	assert.Equal(t, "neon", cfg.UI.Theme)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TODOMVC_STORAGE_DRIVER", "memory")
	t.Setenv("TODOMVC_ADDR", "127.0.0.1:9000")
	t.Setenv("TODOMVC_GROUP", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.UI.Group)
	assert.Equal(t, "classic", cfg.UI.Theme)
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "todomvc.yaml")
	writeFile(t, path, "storage:\n  driver: postgres\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"theme is case insensitive", func(c *Config) { c.UI.Theme = "Mono" }, ""},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "unknown storage driver"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
		{"unknown color", func(c *Config) { c.UI.Color = "sometimes" }, "ui.color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
