// Package controller mediates between a Model and a View. It binds to the
// view's UI events, calls the model, and sends render commands back.
//
// Every mutation ends with a filter pass: the counters are re-rendered and
// the entries of the active route are shown again.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/view"
	"github.com/idilsaglam/todomvc/pkg/logging"
)

const subsystem = "Controller"

// Model is the data-access side the controller drives.
type Model interface {
	Read(ctx context.Context, q model.Query) ([]model.Todo, error)
	Create(ctx context.Context, title string) (model.Todo, error)
	Update(ctx context.Context, id int, req model.UpdateRequest) (model.Todo, error)
	Remove(ctx context.Context, id int) error
	Count(ctx context.Context) (model.Counts, error)
}

type Controller struct {
	model Model
	view  view.View
	route view.Route

	observe func(view.Event, error)
}

type Option func(*Controller)

// WithEventObserver is called after each handled view event.
func WithEventObserver(fn func(event view.Event, err error)) Option {
	return func(c *Controller) { c.observe = fn }
}

// New binds the controller to every event the view emits.
func New(m Model, v view.View, opts ...Option) *Controller {
	c := &Controller{model: m, view: v, route: view.RouteAll}
	for _, o := range opts {
		o(c)
	}

	c.bind(view.EventNewTodo, func(ctx context.Context, p view.Payload) error {
		return c.AddItem(ctx, p.Title)
	})
	c.bind(view.EventItemEdit, func(ctx context.Context, p view.Payload) error {
		return c.EditItem(ctx, p.ID)
	})
	c.bind(view.EventItemEditDone, func(ctx context.Context, p view.Payload) error {
		return c.EditItemSave(ctx, p.ID, p.Title)
	})
	c.bind(view.EventItemEditCancel, func(ctx context.Context, p view.Payload) error {
		return c.EditItemCancel(ctx, p.ID)
	})
	c.bind(view.EventItemRemove, func(ctx context.Context, p view.Payload) error {
		return c.RemoveItem(ctx, p.ID)
	})
	c.bind(view.EventItemToggle, func(ctx context.Context, p view.Payload) error {
		return c.ToggleComplete(ctx, p.ID, p.Completed, false)
	})
	c.bind(view.EventRemoveCompleted, func(ctx context.Context, _ view.Payload) error {
		return c.RemoveCompletedItems(ctx)
	})
	c.bind(view.EventToggleAll, func(ctx context.Context, p view.Payload) error {
		return c.ToggleAll(ctx, p.Completed)
	})
	return c
}

func (c *Controller) bind(event view.Event, h view.Handler) {
	c.view.Bind(event, func(ctx context.Context, p view.Payload) error {
		logging.Debug(subsystem, "%s %+v", event, p)
		err := h(ctx, p)
		if err != nil {
			logging.Error(subsystem, err, "handling %s", event)
		}
		if c.observe != nil {
			c.observe(event, err)
		}
		return err
	})
}

// ParseRoute extracts the route from a location hash such as "#/active".
// Unknown routes fall back to RouteAll.
func ParseRoute(hash string) view.Route {
	parts := strings.Split(hash, "/")
	if len(parts) < 2 {
		return view.RouteAll
	}
	switch r := view.Route(parts[1]); r {
	case view.RouteActive, view.RouteCompleted:
		return r
	}
	return view.RouteAll
}

// Route is the currently active filter.
func (c *Controller) Route() view.Route { return c.route }

// SetView loads and initialises the view for the given location hash.
// setFilter is rendered even when the filter pass fails.
func (c *Controller) SetView(ctx context.Context, hash string) error {
	c.route = ParseRoute(hash)
	err := c.filter(ctx)
	c.view.Render(view.CmdSetFilter, c.route)
	return err
}

// ShowAll renders every todo.
func (c *Controller) ShowAll(ctx context.Context) error {
	return c.show(ctx, model.Query{})
}

// ShowActive renders todos that are not completed.
func (c *Controller) ShowActive(ctx context.Context) error {
	return c.show(ctx, model.ByCompleted(false))
}

// ShowCompleted renders completed todos.
func (c *Controller) ShowCompleted(ctx context.Context) error {
	return c.show(ctx, model.ByCompleted(true))
}

func (c *Controller) show(ctx context.Context, q model.Query) error {
	todos, err := c.model.Read(ctx, q)
	if err != nil {
		return err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	c.view.Render(view.CmdShowEntries, todos)
	return nil
}

// AddItem creates a todo from title. Blank titles are ignored.
func (c *Controller) AddItem(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if _, err := c.model.Create(ctx, title); err != nil {
		return err
	}
	c.view.Render(view.CmdClearNewTodo, nil)
	return c.filter(ctx)
}

// EditItem puts the todo into edit mode.
func (c *Controller) EditItem(ctx context.Context, id int) error {
	todo, err := c.find(ctx, id)
	if err != nil {
		return err
	}
	c.view.Render(view.CmdEditItem, view.ItemTitle{ID: id, Title: todo.Title})
	return nil
}

// EditItemSave persists an edited title. An empty title removes the todo.
func (c *Controller) EditItemSave(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return c.RemoveItem(ctx, id)
	}
	if _, err := c.model.Update(ctx, id, model.SetTitle(title)); err != nil {
		return err
	}
	c.view.Render(view.CmdEditItemDone, view.ItemTitle{ID: id, Title: title})
	return nil
}

// EditItemCancel leaves edit mode and restores the stored title.
func (c *Controller) EditItemCancel(ctx context.Context, id int) error {
	todo, err := c.find(ctx, id)
	if err != nil {
		return err
	}
	c.view.Render(view.CmdEditItemDone, view.ItemTitle{ID: id, Title: todo.Title})
	return nil
}

// RemoveItem deletes a todo from the model and the view.
func (c *Controller) RemoveItem(ctx context.Context, id int) error {
	if err := c.model.Remove(ctx, id); err != nil {
		return err
	}
	c.view.Render(view.CmdRemoveItem, id)
	return c.filter(ctx)
}

// RemoveCompletedItems deletes every completed todo.
func (c *Controller) RemoveCompletedItems(ctx context.Context) error {
	todos, err := c.model.Read(ctx, model.ByCompleted(true))
	if err != nil {
		return err
	}
	for _, t := range todos {
		if err := c.RemoveItem(ctx, t.ID); err != nil {
			return err
		}
	}
	return c.filter(ctx)
}

// ToggleComplete sets the completed state of one todo. A silent toggle
// skips the filter pass so batch callers can run it once at the end.
func (c *Controller) ToggleComplete(ctx context.Context, id int, completed, silent bool) error {
	if _, err := c.model.Update(ctx, id, model.SetCompleted(completed)); err != nil {
		return err
	}
	c.view.Render(view.CmdElementComplete, view.ItemState{ID: id, Completed: completed})
	if silent {
		return nil
	}
	return c.filter(ctx)
}

// ToggleAll marks every todo completed or active.
func (c *Controller) ToggleAll(ctx context.Context, completed bool) error {
	todos, err := c.model.Read(ctx, model.ByCompleted(!completed))
	if err != nil {
		return err
	}
	for _, t := range todos {
		if err := c.ToggleComplete(ctx, t.ID, completed, true); err != nil {
			return err
		}
	}
	return c.filter(ctx)
}

func (c *Controller) find(ctx context.Context, id int) (model.Todo, error) {
	todos, err := c.model.Read(ctx, model.ByID(id))
	if err != nil {
		return model.Todo{}, err
	}
	if len(todos) == 0 {
		return model.Todo{}, fmt.Errorf("todo %d: %w", id, model.ErrNotFound)
	}
	return todos[0], nil
}

func (c *Controller) updateCount(ctx context.Context) error {
	counts, err := c.model.Count(ctx)
	if err != nil {
		return err
	}
	c.view.Render(view.CmdUpdateElementCount, counts.Active)
	c.view.Render(view.CmdClearCompletedButton, view.ClearCompleted{
		Completed: counts.Completed,
		Visible:   counts.Completed > 0,
	})
	c.view.Render(view.CmdToggleAll, view.Checked{Checked: counts.Completed == counts.Total})
	c.view.Render(view.CmdContentBlockVisibility, view.Visibility{Visible: counts.Total > 0})
	return nil
}

func (c *Controller) filter(ctx context.Context) error {
	if err := c.updateCount(ctx); err != nil {
		return err
	}
	switch c.route {
	case view.RouteActive:
		return c.ShowActive(ctx)
	case view.RouteCompleted:
		return c.ShowCompleted(ctx)
	default:
		return c.ShowAll(ctx)
	}
}
