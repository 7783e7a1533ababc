// Package view defines the contract between the controller and anything
// that presents todos: the events a view emits and the render commands it
// accepts.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Event is a UI event emitted by a view.
type Event string

const (
	EventNewTodo         Event = "newTodo"
	EventItemEdit        Event = "itemEdit"
	EventItemEditDone    Event = "itemEditDone"
	EventItemEditCancel  Event = "itemEditCancel"
	EventItemRemove      Event = "itemRemove"
	EventItemToggle      Event = "itemToggle"
	EventRemoveCompleted Event = "removeCompleted"
	EventToggleAll       Event = "toggleAll"
)

// Command is a render instruction sent to a view. The comment on each
// constant names the params type passed along with it.
type Command string

const (
	CmdShowEntries            Command = "showEntries"            // []model.Todo
	CmdRemoveItem             Command = "removeItem"             // int id
	CmdUpdateElementCount     Command = "updateElementCount"     // int active
	CmdClearCompletedButton   Command = "clearCompletedButton"   // ClearCompleted
	CmdContentBlockVisibility Command = "contentBlockVisibility" // Visibility
	CmdToggleAll              Command = "toggleAll"              // Checked
	CmdSetFilter              Command = "setFilter"              // Route
	CmdClearNewTodo           Command = "clearNewTodo"           // nil
	CmdElementComplete        Command = "elementComplete"        // ItemState
	CmdEditItem               Command = "editItem"               // ItemTitle
	CmdEditItemDone           Command = "editItemDone"           // ItemTitle
)

// Route is the active filter, taken from the location hash.
type Route string

const (
	RouteAll       Route = ""
	RouteActive    Route = "active"
	RouteCompleted Route = "completed"
)

// Hash returns the location hash that selects r.
func (r Route) Hash() string { return "#/" + string(r) }

type Visibility struct {
	Visible bool `json:"visible"`
}

type Checked struct {
	Checked bool `json:"checked"`
}

type ClearCompleted struct {
	Completed int  `json:"completed"`
	Visible   bool `json:"visible"`
}

type ItemState struct {
	ID        int  `json:"id"`
	Completed bool `json:"completed"`
}

type ItemTitle struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Payload carries event data. Each event reads only the fields it needs:
// newTodo the Title, itemToggle the ID and Completed, and so on.
type Payload struct {
	ID        int    `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	Completed bool   `json:"completed"`
}

// Handler reacts to an event.
type Handler func(ctx context.Context, p Payload) error

// View is implemented by every presentation layer.
type View interface {
	Render(cmd Command, params any)
	Bind(event Event, handler Handler)
}

var ErrUnbound = errors.New("no handler bound")

// Registry maps events to handlers. Embed it to get Bind and Trigger.
// The zero value is ready to use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Event]Handler
}

func (r *Registry) Bind(event Event, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[Event]Handler)
	}
	r.handlers[event] = handler
}

// Trigger runs the handler bound to event.
func (r *Registry) Trigger(ctx context.Context, event Event, p Payload) error {
	r.mu.RLock()
	h, ok := r.handlers[event]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnbound, event)
	}
	return h(ctx, p)
}
