package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todomvc/internal/controller"
	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store/memstore"
	"github.com/idilsaglam/todomvc/internal/view"
)

func setUp(t *testing.T, todos ...model.Todo) (modelTUI, *model.Model) {
	t.Helper()
	ctx := context.Background()
	m := model.New(memstore.New(todos...))
	v := New()
	c := controller.New(m, v)
	require.NoError(t, c.SetView(ctx, ""))
	return newModel(ctx, v, c.SetView), m
}

func press(t *testing.T, m modelTUI, msg tea.KeyMsg) modelTUI {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(modelTUI)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func read(t *testing.T, m *model.Model) []model.Todo {
	t.Helper()
	todos, err := m.Read(context.Background(), model.Query{})
	require.NoError(t, err)
	return todos
}

func TestToggleAndDelete(t *testing.T) {
	ui, m := setUp(t, model.Todo{ID: 1, Title: "Buy milk"}, model.Todo{ID: 2, Title: "Walk dog"})

	ui = press(t, ui, runes("x"))
	assert.Equal(t, []model.Todo{
		{ID: 1, Title: "Buy milk", Completed: true},
		{ID: 2, Title: "Walk dog"},
	}, read(t, m))
	assert.Equal(t, 1, ui.v.completed)

	ui = press(t, ui, runes("d"))
	assert.Equal(t, []model.Todo{{ID: 2, Title: "Walk dog"}}, read(t, m))
	assert.Len(t, ui.list.Items(), 1)
}

func TestAddItem(t *testing.T) {
	ui, m := setUp(t)

	ui = press(t, ui, runes("a"))
	require.True(t, ui.adding)
	ui = press(t, ui, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Title cannot be empty", ui.inputErr)

	ui.ti.SetValue("Buy milk")
	ui = press(t, ui, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, ui.adding)
	assert.Empty(t, ui.ti.Value())
	assert.Equal(t, []model.Todo{{ID: 1, Title: "Buy milk"}}, read(t, m))
	assert.Len(t, ui.list.Items(), 1)
}

func TestEditAndCancel(t *testing.T) {
	ui, m := setUp(t, model.Todo{ID: 4, Title: "Buy milk"})

	ui = press(t, ui, runes("e"))
	require.True(t, ui.editing)
	assert.Equal(t, "Buy milk", ui.ti.Value())

	ui.ti.SetValue("Buy oat milk")
	ui = press(t, ui, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, ui.editing)
	assert.Equal(t, []model.Todo{{ID: 4, Title: "Buy oat milk"}}, read(t, m))
	require.Len(t, ui.list.Items(), 1)
	assert.Equal(t, "Buy oat milk", ui.list.Items()[0].(listItem).todo.Title)

	ui = press(t, ui, runes("e"))
	ui.ti.SetValue("discarded")
	ui = press(t, ui, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, ui.editing)
	assert.Nil(t, ui.v.edit)
	assert.Equal(t, []model.Todo{{ID: 4, Title: "Buy oat milk"}}, read(t, m))
}

func TestRoutesAndToggleAll(t *testing.T) {
	ui, _ := setUp(t, model.Todo{ID: 1, Title: "a"}, model.Todo{ID: 2, Title: "b", Completed: true})

	ui = press(t, ui, runes("2"))
	assert.Equal(t, view.RouteActive, ui.v.filter)
	assert.Len(t, ui.list.Items(), 1)

	ui = press(t, ui, runes("t"))
	assert.True(t, ui.v.allChecked)
	assert.Empty(t, ui.list.Items())

	ui = press(t, ui, runes("3"))
	assert.Len(t, ui.list.Items(), 2)

	ui = press(t, ui, runes("c"))
	assert.Empty(t, ui.list.Items())
	assert.False(t, ui.v.visible)
}

func TestYank(t *testing.T) {
	var copied string
	old := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = old })

	ui, _ := setUp(t, model.Todo{ID: 1, Title: "Buy milk"})
	ui = press(t, ui, runes("y"))

	assert.Equal(t, "Buy milk", copied)
	assert.Equal(t, "copied #1", ui.v.status)
}
