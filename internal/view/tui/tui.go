package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/view"
)

// For mocking in tests
var clipboardWrite = clipboard.WriteAll

// listItem adapts a Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := it.todo.Title
	if it.todo.Completed {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(it.todo.Title)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type modelTUI struct {
	ctx      context.Context
	v        *View
	navigate Navigator

	list list.Model
	ti   textinput.Model // shared text input (used for add & edit)

	adding   bool
	editing  bool
	editID   int
	inputErr string

	width, height int
}

func newModel(ctx context.Context, v *View, navigate Navigator) modelTUI {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "all/active/completed")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings[:4] }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	m := modelTUI{
		ctx:      ctx,
		v:        v,
		navigate: navigate,
		list:     l,
		width:    80,
		height:   24,
	}
	m.list.SetSize(m.width-4, m.height-6)
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200
	m.sync()
	return m
}

// sync redraws the list from the view state.
func (m *modelTUI) sync() tea.Cmd {
	items := make([]list.Item, 0, len(m.v.entries))
	for _, t := range m.v.entries {
		items = append(items, listItem{todo: t})
	}
	cmd := m.list.SetItems(items)
	m.list.Title = m.header()
	if m.v.clearInput {
		m.ti.SetValue("")
		m.v.clearInput = false
	}
	return cmd
}

func (m *modelTUI) trigger(event view.Event, p view.Payload) tea.Cmd {
	if err := m.v.Trigger(m.ctx, event, p); err != nil {
		m.v.status = "error: " + err.Error()
	}
	return m.sync()
}

func (m *modelTUI) navigateTo(route view.Route) tea.Cmd {
	if err := m.navigate(m.ctx, route.Hash()); err != nil {
		m.v.status = "error: " + err.Error()
	}
	return m.sync()
}

func (m modelTUI) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.todo, ok
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		return m, nil
	}
	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.list.FilterState() != list.FilterApplied {
			return m, tea.Quit
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			return m, m.trigger(view.EventItemToggle, view.Payload{ID: t.ID, Completed: !t.Completed})
		}
		return m, nil
	case "d":
		if t, ok := m.selected(); ok {
			return m, m.trigger(view.EventItemRemove, view.Payload{ID: t.ID})
		}
		return m, nil
	case "a":
		m.adding = true
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New item title..."
		return m, m.ti.Focus()
	case "e":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.trigger(view.EventItemEdit, view.Payload{ID: t.ID})
		if m.v.edit == nil {
			return m, cmd
		}
		m.editing = true
		m.editID = m.v.edit.ID
		m.inputErr = ""
		m.ti.SetValue(m.v.edit.Title)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit item title..."
		return m, tea.Batch(cmd, m.ti.Focus())
	case "c":
		return m, m.trigger(view.EventRemoveCompleted, view.Payload{})
	case "t":
		return m, m.trigger(view.EventToggleAll, view.Payload{Completed: !m.v.allChecked})
	case "y":
		if t, ok := m.selected(); ok {
			if err := clipboardWrite(t.Title); err != nil {
				m.v.status = "clipboard: " + err.Error()
			} else {
				m.v.status = fmt.Sprintf("copied #%d", t.ID)
			}
		}
		return m, nil
	case "1":
		return m, m.navigateTo(view.RouteAll)
	case "2":
		return m, m.navigateTo(view.RouteActive)
	case "3":
		return m, m.navigateTo(view.RouteCompleted)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if m.adding {
				if title == "" {
					m.inputErr = "Title cannot be empty"
					return m, nil
				}
				m.adding = false
				m.ti.Blur()
				return m, m.trigger(view.EventNewTodo, view.Payload{Title: title})
			}
			// an empty title removes the todo
			m.editing = false
			m.ti.Blur()
			cmd := m.trigger(view.EventItemEditDone, view.Payload{ID: m.editID, Title: title})
			m.ti.SetValue("")
			return m, cmd
		case "esc":
			var cmd tea.Cmd
			if m.editing {
				cmd = m.trigger(view.EventItemEditCancel, view.Payload{ID: m.editID})
			}
			m.adding, m.editing = false, false
			m.ti.SetValue("")
			m.ti.Blur()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m modelTUI) View() string {
	listHeight := m.height - 6
	if m.adding || m.editing {
		listHeight -= 3
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add new item"
		if m.editing {
			title = "Edit item (empty title deletes)"
		}
		if m.inputErr != "" {
			title += " - " + errorStyle.Render(m.inputErr)
		}
		content = content + "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	content += "\n" + m.filterLine()
	if m.v.status != "" {
		content += "  " + mutedStyle.Render(m.v.status)
	}
	return panelString(content)
}

// ----- helpers for View -----

func (m modelTUI) header() string {
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), m.v.completed,
		pendingStyle.Render("•"), m.v.active,
		accentStyle.Render("Total"), m.v.active+m.v.completed,
	)
}

func (m modelTUI) filterLine() string {
	labels := []struct {
		route view.Route
		name  string
	}{
		{view.RouteAll, "1 All"},
		{view.RouteActive, "2 Active"},
		{view.RouteCompleted, "3 Completed"},
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.route == m.v.filter {
			parts = append(parts, accentStyle.Render("["+l.name+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(l.name))
		}
	}
	return strings.Join(parts, "  ")
}
