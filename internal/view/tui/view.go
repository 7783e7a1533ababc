// Package tui is an interactive View built on Bubble Tea. Key presses are
// turned into view events; render commands from the controller update the
// state the list is drawn from.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/view"
)

// Navigator switches routes, e.g. Controller.SetView.
type Navigator func(ctx context.Context, hash string) error

type View struct {
	view.Registry

	entries    []model.Todo
	filter     view.Route
	active     int
	completed  int
	allChecked bool
	visible    bool

	// edit is set by editItem and cleared by editItemDone.
	edit       *view.ItemTitle
	clearInput bool
	status     string
}

func New() *View { return &View{} }

func (v *View) Render(cmd view.Command, params any) {
	switch cmd {
	case view.CmdShowEntries:
		v.entries, _ = params.([]model.Todo)
	case view.CmdSetFilter:
		v.filter, _ = params.(view.Route)
	case view.CmdUpdateElementCount:
		v.active, _ = params.(int)
	case view.CmdClearCompletedButton:
		p, _ := params.(view.ClearCompleted)
		v.completed = p.Completed
	case view.CmdToggleAll:
		p, _ := params.(view.Checked)
		v.allChecked = p.Checked
	case view.CmdContentBlockVisibility:
		p, _ := params.(view.Visibility)
		v.visible = p.Visible
	case view.CmdClearNewTodo:
		v.clearInput = true
	case view.CmdRemoveItem:
		id, _ := params.(int)
		v.update(id, func(i int) { v.entries = append(v.entries[:i:i], v.entries[i+1:]...) })
		v.status = fmt.Sprintf("removed #%d", id)
	case view.CmdElementComplete:
		p, _ := params.(view.ItemState)
		v.update(p.ID, func(i int) { v.entries[i].Completed = p.Completed })
		v.status = fmt.Sprintf("#%d toggled", p.ID)
	case view.CmdEditItem:
		p, _ := params.(view.ItemTitle)
		v.edit = &p
	case view.CmdEditItemDone:
		// no filter pass follows an edit, so patch the shown title here
		p, _ := params.(view.ItemTitle)
		v.update(p.ID, func(i int) { v.entries[i].Title = p.Title })
		v.edit = nil
	}
}

// update runs fn on the index of the shown entry with the given id.
func (v *View) update(id int, fn func(i int)) {
	for i := range v.entries {
		if v.entries[i].ID == id {
			fn(i)
			return
		}
	}
}

// Run blocks until the user quits.
func (v *View) Run(ctx context.Context, navigate Navigator) error {
	p := tea.NewProgram(newModel(ctx, v, navigate), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
