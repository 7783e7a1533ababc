package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todomvc/internal/config"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store/jsonstore"
	"github.com/idilsaglam/todomvc/internal/store/memstore"
	"github.com/idilsaglam/todomvc/internal/store/sqlitestore"
	"github.com/idilsaglam/todomvc/internal/ui"
	"github.com/idilsaglam/todomvc/pkg/logging"
)

// globalFlags tune output and storage for every subcommand.
type globalFlags struct {
	configPath string
	storage    string
	data       string
	theme      string
	group      bool
	logLevel   string
	color      string
}

type app struct {
	flags    globalFlags
	cfg      config.Config
	logLevel logging.LogLevel

	out    io.Writer
	errOut io.Writer
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out, a.errOut = cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		ui.Fail(a.errOut, err.Error())
		return exitErr(1)
	}
	// flags may repair an invalid file or env value, so validate after them
	a.applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		ui.Fail(a.errOut, err.Error())
		return exitErr(2)
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		ui.Fail(a.errOut, err.Error())
		return exitErr(2)
	}
	a.cfg, a.logLevel = cfg, level

	logging.Init(level, a.errOut)
	ui.SetColorMode(cfg.UI.Color)
	if err := ui.SetTheme(cfg.UI.Theme); err != nil {
		ui.Fail(a.errOut, err.Error())
		return exitErr(2)
	}
	return nil
}

// applyFlags lets explicitly set flags win over every config source.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Driver = a.flags.storage
	}
	if flags.Changed("data") {
		cfg.Storage.Path = a.flags.data
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = a.flags.theme
	}
	if flags.Changed("group") {
		cfg.UI.Group = a.flags.group
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if flags.Changed("color") {
		cfg.UI.Color = a.flags.color
	}
}

func (a *app) openStore() (model.Store, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverSQLite:
		path := a.cfg.Storage.Path
		if path == "" {
			path = sqlitestore.DefaultFileName
		}
		return sqlitestore.Open(path)
	default:
		path := a.cfg.Storage.Path
		if path == "" {
			p, err := jsonstore.DataPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return jsonstore.New(path), nil
	}
}

// withModel opens the configured store for the duration of fn.
func (a *app) withModel(cmd *cobra.Command, fn func(ctx context.Context, m *model.Model) int) error {
	store, err := a.openStore()
	if err != nil {
		ui.Fail(a.errOut, fmt.Sprintf("open %s store: %v", a.cfg.Storage.Driver, err))
		return exitErr(1)
	}
	m := model.New(store)
	defer func() {
		if err := m.Close(); err != nil {
			logging.Warn("CLI", "closing store: %v", err)
		}
	}()
	return exitErr(fn(cmd.Context(), m))
}
