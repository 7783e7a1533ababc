// Package console is a View for one-shot CLI commands. Render commands
// update an in-memory picture of the page; Flush prints it.
package console

import (
	"fmt"
	"io"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/ui"
	"github.com/idilsaglam/todomvc/internal/view"
)

const maxTitleWidth = 80

type View struct {
	view.Registry

	out   io.Writer
	group bool

	entries    []model.Todo
	filter     view.Route
	active     int
	completed  int
	allChecked bool
	visible    bool
	editing    *view.ItemTitle
	notices    []string
}

func New(out io.Writer, group bool) *View {
	return &View{out: out, group: group}
}

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
		v.notices = append(v.notices, "added")
	case view.CmdRemoveItem:
		v.notices = append(v.notices, fmt.Sprintf("removed #%v", params))
	case view.CmdElementComplete:
		p, _ := params.(view.ItemState)
		state := "active"
		if p.Completed {
			state = "completed"
		}
		v.notices = append(v.notices, fmt.Sprintf("#%d marked %s", p.ID, state))
	case view.CmdEditItem:
		p, _ := params.(view.ItemTitle)
		v.editing = &p
	case view.CmdEditItemDone:
		p, _ := params.(view.ItemTitle)
		v.editing = nil
		v.notices = append(v.notices, fmt.Sprintf("#%d is %q", p.ID, p.Title))
	}
}

// Entry returns the shown todo with the given id.
func (v *View) Entry(id int) (model.Todo, bool) {
	for _, t := range v.entries {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// AllCompleted mirrors the toggle-all checkbox.
func (v *View) AllCompleted() bool { return v.allChecked }

// Editing returns the item in edit mode, if any.
func (v *View) Editing() (view.ItemTitle, bool) {
	if v.editing == nil {
		return view.ItemTitle{}, false
	}
	return *v.editing, true
}

// FlushNotices prints the one-line confirmations collected so far.
func (v *View) FlushNotices() {
	for _, n := range v.notices {
		ui.OK(v.out, n)
	}
	v.notices = nil
}

// Flush prints the todo panel.
func (v *View) Flush() {
	t := ui.Current()
	total := v.active + v.completed
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), v.completed,
		ui.C(t.Pending, t.SymUnchecked), v.active,
		ui.C(t.Accent, "Total"), total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(v.completed, total, 28)))
	lines = append(lines, "")
	if v.group {
		lines = append(lines, v.groupLines()...)
	} else {
		lines = append(lines, flatLines(v.entries)...)
	}
	lines = append(lines, "")
	lines = append(lines, v.filterLine())
	if !v.visible {
		lines = append(lines, ui.C(t.Muted, "Tip: add with `todomvc add \"Buy milk\"`"))
	}
	ui.Panel(v.out, lines)
}

func (v *View) filterLine() string {
	t := ui.Current()
	out := ""
	for i, f := range []struct {
		route view.Route
		label string
	}{
		{view.RouteAll, "All"},
		{view.RouteActive, "Active"},
		{view.RouteCompleted, "Completed"},
	} {
		if i > 0 {
			out += ui.C(t.Muted, " | ")
		}
		if f.route == v.filter {
			out += ui.C(t.Accent, "["+f.label+"]")
		} else {
			out += ui.C(t.Muted, f.label)
		}
	}
	return out
}

// -------------- rendering helpers --------------

func flatLines(todos []model.Todo) []string {
	t := ui.Current()
	if len(todos) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(todos))
	for _, it := range todos {
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Dim(fmt.Sprintf("#%-3d", it.ID)), ui.C(color, box), ui.Truncate(it.Title, maxTitleWidth)))
	}
	return out
}

func (v *View) groupLines() []string {
	t := ui.Current()
	var pend, done []model.Todo
	for _, it := range v.entries {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
