package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/idilsaglam/todomvc/internal/auth"
	"github.com/idilsaglam/todomvc/internal/controller"
	"github.com/idilsaglam/todomvc/internal/metrics"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/server"
	"github.com/idilsaglam/todomvc/internal/ui"
	"github.com/idilsaglam/todomvc/internal/view"
	"github.com/idilsaglam/todomvc/internal/view/console"
	"github.com/idilsaglam/todomvc/internal/view/tui"
	"github.com/idilsaglam/todomvc/pkg/logging"
)

// -------------- subcommand impls ----------------

// session wires a console view to a controller showing route.
func (a *app) session(ctx context.Context, m *model.Model, route string) (*console.View, error) {
	v := console.New(a.out, a.cfg.UI.Group)
	c := controller.New(m, v)
	if err := c.SetView(ctx, "#/"+route); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *app) fail(op string, err error) int {
	ui.Fail(a.errOut, op+": "+err.Error())
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintln(a.errOut, ui.Dim("Hint: run `todomvc ls` to see valid ids"))
		return 2
	}
	return 1
}

func (a *app) doList(ctx context.Context, m *model.Model, route string) int {
	v, err := a.session(ctx, m, route)
	if err != nil {
		return a.fail("load", err)
	}
	v.Flush()
	return 0
}

func (a *app) doAdd(ctx context.Context, m *model.Model, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail(a.errOut, "add: empty title")
		return 2
	}
	v, err := a.session(ctx, m, "")
	if err != nil {
		return a.fail("load", err)
	}
	if err := v.Trigger(ctx, view.EventNewTodo, view.Payload{Title: title}); err != nil {
		return a.fail("add", err)
	}
	v.FlushNotices()
	return 0
}

func (a *app) doToggle(ctx context.Context, m *model.Model, id int) int {
	v, err := a.session(ctx, m, "")
	if err != nil {
		return a.fail("load", err)
	}
	t, ok := v.Entry(id)
	if !ok {
		return a.fail("done", fmt.Errorf("todo %d: %w", id, model.ErrNotFound))
	}
	if err := v.Trigger(ctx, view.EventItemToggle, view.Payload{ID: id, Completed: !t.Completed}); err != nil {
		return a.fail("done", err)
	}
	v.FlushNotices()
	return 0
}

func (a *app) doRemove(ctx context.Context, m *model.Model, id int) int {
	v, err := a.session(ctx, m, "")
	if err != nil {
		return a.fail("load", err)
	}
	if err := v.Trigger(ctx, view.EventItemRemove, view.Payload{ID: id}); err != nil {
		return a.fail("rm", err)
	}
	v.FlushNotices()
	return 0
}

func (a *app) doEdit(ctx context.Context, m *model.Model, id int, title string) int {
	v, err := a.session(ctx, m, "")
	if err != nil {
		return a.fail("load", err)
	}
	if err := v.Trigger(ctx, view.EventItemEdit, view.Payload{ID: id}); err != nil {
		return a.fail("edit", err)
	}
	if _, editing := v.Editing(); !editing {
		return a.fail("edit", fmt.Errorf("todo %d: %w", id, model.ErrNotFound))
	}
	if err := v.Trigger(ctx, view.EventItemEditDone, view.Payload{ID: id, Title: title}); err != nil {
		return a.fail("edit", err)
	}
	v.FlushNotices()
	return 0
}

func (a *app) doClearCompleted(ctx context.Context, m *model.Model) int {
	v, err := a.session(ctx, m, "")
	if err != nil {
		return a.fail("load", err)
	}
	if err := v.Trigger(ctx, view.EventRemoveCompleted, view.Payload{}); err != nil {
		return a.fail("clear", err)
	}
	v.FlushNotices()
	ui.OK(a.out, "cleared completed")
	return 0
}

func (a *app) doToggleAll(ctx context.Context, m *model.Model) int {
	v, err := a.session(ctx, m, "")
	if err != nil {
		return a.fail("load", err)
	}
	if err := v.Trigger(ctx, view.EventToggleAll, view.Payload{Completed: !v.AllCompleted()}); err != nil {
		return a.fail("toggle-all", err)
	}
	v.FlushNotices()
	return 0
}

func (a *app) doReset(ctx context.Context, m *model.Model) int {
	if err := m.RemoveAll(ctx); err != nil {
		return a.fail("reset", err)
	}
	ui.OK(a.out, "removed every todo")
	return 0
}

func (a *app) doTUI(ctx context.Context, m *model.Model, route string) int {
	// the terminal belongs to Bubble Tea from here on
	closer, err := logging.InitForTUI(a.logLevel, a.cfg.Log.File)
	if err != nil {
		return a.fail("log", err)
	}
	defer closer.Close()

	v := tui.New()
	c := controller.New(m, v)
	if err := c.SetView(ctx, "#/"+route); err != nil {
		return a.fail("load", err)
	}
	if err := v.Run(ctx, c.SetView); err != nil {
		return a.fail("tui", err)
	}
	return 0
}

func (a *app) doServe(ctx context.Context, m *model.Model, useAuth bool) int {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opts := []server.Option{server.WithMetrics(metrics.New(reg), reg)}

	token := a.cfg.Server.Token
	if useAuth && token == "" {
		var code int
		if token, code = a.savedToken(); code != 0 {
			return code
		}
	}
	if token != "" {
		opts = append(opts, server.WithToken(token))
	}

	srv := server.New(m, opts...)
	ui.OK(a.out, "serving on "+a.cfg.Server.Addr)
	if err := srv.ListenAndServe(ctx, a.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return a.fail("serve", err)
	}
	return 0
}

// savedToken returns the token from `auth login` or the env override,
// refusing missing and expired ones.
func (a *app) savedToken() (string, int) {
	ti, err := auth.GetToken()
	if err != nil {
		return "", a.fail("auth", err)
	}
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		ui.Fail(a.errOut, "no token found. Set "+auth.EnvToken+" or run `todomvc auth login`")
		return "", 2
	}
	if ti.Expired(now()) {
		ui.Fail(a.errOut, "token expired at "+ti.ExpiresAt.UTC().Format(time.RFC3339))
		fmt.Fprintln(a.errOut, ui.Dim("Hint: run `todomvc auth login` again"))
		return "", 2
	}
	return ti.Token, 0
}
