package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "ls [all|active|completed]",
		Short:     "List todos, optionally filtered",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"all", "active", "completed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			route := ""
			if len(args) == 1 {
				r, ok := parseFilter(args[0])
				if !ok {
					ui.Fail(a.errOut, "ls: unknown filter: "+args[0])
					return exitErr(2)
				}
				route = r
			}
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doList(ctx, m, route)
			})
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Add a new todo (title can be multiple words)",
		Example: `  todomvc add "Buy milk"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doAdd(ctx, m, title)
			})
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle the completed state of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := a.parseID("done", args[0])
			if !ok {
				return exitErr(2)
			}
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doToggle(ctx, m, id)
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := a.parseID("rm", args[0])
			if !ok {
				return exitErr(2)
			}
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doRemove(ctx, m, id)
			})
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> [title...]",
		Short: "Rename a todo; an empty title removes it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := a.parseID("edit", args[0])
			if !ok {
				return exitErr(2)
			}
			title := strings.Join(args[1:], " ")
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doEdit(ctx, m, id, title)
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(cmd, a.doClearCompleted)
		},
	}
}

func newToggleAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Mark every todo completed, or all active if they already are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withModel(cmd, a.doToggleAll)
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every todo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ui.Fail(a.errOut, "reset: pass --yes to delete every todo")
				return exitErr(2)
			}
			return a.withModel(cmd, a.doReset)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every todo")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [all|active|completed]",
		Short: "Browse and edit todos interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route := ""
			if len(args) == 1 {
				r, ok := parseFilter(args[0])
				if !ok {
					ui.Fail(a.errOut, "tui: unknown filter: "+args[0])
					return exitErr(2)
				}
				route = r
			}
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doTUI(ctx, m, route)
			})
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		useAuth bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo list as JSON over HTTP",
		Long: `Starts an HTTP server exposing every todo operation. Each response
lists the render commands the operation produced, in order.

  GET    /todos?route=active
  POST   /todos                {"title": "..."}
  PATCH  /todos/{id}           {"title": "...", "completed": true}
  DELETE /todos/{id}
  DELETE /todos?completed=true
  POST   /todos/toggle-all     {"completed": true}
  GET    /todos/{id}/edit
  POST   /todos/{id}/cancel
  GET    /metrics
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			return a.withModel(cmd, func(ctx context.Context, m *model.Model) int {
				return a.doServe(ctx, m, useAuth)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&useAuth, "auth", false, "require the token saved by `todomvc auth login`")
	return cmd
}

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token guarding `todomvc serve`",
	}

	var (
		token   string
		expires string
	)
	login := &cobra.Command{
		Use:   "login",
		Short: "Save a token (read from stdin unless --token is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitErr(a.doAuthLogin(cmd.InOrStdin(), token, expires))
		},
	}
	login.Flags().StringVar(&token, "token", "", "token value")
	login.Flags().StringVar(&expires, "expires-in", "", "token lifetime, e.g. 720h")

	cmd.AddCommand(
		login,
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the saved token",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return exitErr(a.doAuthLogout()) },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from and when it expires",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return exitErr(a.doAuthStatus()) },
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the token payload when it is a JWT",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return exitErr(a.doAuthWhoAmI()) },
		},
	)
	return cmd
}

// parseFilter maps a filter name to its route.
func parseFilter(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "all", "":
		return "", true
	case "active", "completed":
		return strings.ToLower(s), true
	}
	return "", false
}

func (a *app) parseID(op, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		ui.Fail(a.errOut, op+": not a number: "+s)
		return 0, false
	}
	return n, true
}
