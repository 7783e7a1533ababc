// Package cli is the todomvc command line. Every subcommand drives the
// controller through a view: one-shot commands use the console view, `tui`
// the interactive one and `serve` the HTTP transport.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todomvc/internal/ui"
)

// exitError carries a process exit code (1 error, 2 usage) out of RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func exitErr(code int) error {
	if code == 0 {
		return nil
	}
	return &exitError{code: code}
}

func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// cobra's own errors: unknown command, bad flags, wrong arg count
	ui.Fail(w, err.Error())
	return 2
}

// NewRootCmd builds the full command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "todomvc",
		Short: "Keep track of todos from the terminal or over HTTP",
		Long: `todomvc keeps a list of todos you can filter by All, Active and
Completed. Use the one-shot subcommands for scripting, "todomvc tui" for an
interactive list, or "todomvc serve" to expose the same operations as JSON.

Configuration:
  Settings are read from ~/.config/todomvc/config.yaml, then
  ./.todomvc/config.yaml, then TODOMVC_* environment variables.
  Flags override all of them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "todomvc version %s\n" .Version}}`)

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configPath, "config", "", "config file (replaces the user and project files)")
	f.StringVar(&a.flags.storage, "storage", "", "storage driver: json, sqlite or memory")
	f.StringVar(&a.flags.data, "data", "", "path of the data file")
	f.StringVar(&a.flags.theme, "theme", "", "color theme: classic, neon or mono")
	f.BoolVar(&a.flags.group, "group", false, "group output by pending/done")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&a.flags.color, "color", "", "color output: auto, always or never")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newDoneCmd(a),
		newRemoveCmd(a),
		newEditCmd(a),
		newClearCmd(a),
		newToggleAllCmd(a),
		newResetCmd(a),
		newTUICmd(a),
		newServeCmd(a),
		newAuthCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(version)
	return exitCode(root.ErrOrStderr(), root.ExecuteContext(ctx))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of todomvc",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todomvc version %s\n", cmd.Root().Version)
		},
	}
}
