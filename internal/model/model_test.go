package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store/memstore"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	m := model.New(memstore.New())

	todo, err := m.Create(ctx, "  Buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 1, Title: "Buy milk", Completed: false}, todo)

	_, err = m.Create(ctx, "   ")
	assert.ErrorIs(t, err, model.ErrEmptyTitle)
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	m := model.New(memstore.New(
		model.Todo{ID: 1, Title: "a"},
		model.Todo{ID: 2, Title: "b", Completed: true},
		model.Todo{ID: 3, Title: "c"},
	))

	tests := []struct {
		name  string
		query model.Query
		ids   []int
	}{
		{"all", model.Query{}, []int{1, 2, 3}},
		{"by id", model.ByID(2), []int{2}},
		{"missing id", model.ByID(9), []int{}},
		{"active", model.ByCompleted(false), []int{1, 3}},
		{"completed", model.ByCompleted(true), []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, err := m.Read(ctx, tt.query)
			require.NoError(t, err)
			ids := []int{}
			for _, todo := range todos {
				ids = append(ids, todo.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	m := model.New(memstore.New(model.Todo{ID: 7, Title: "keep me"}))

	todo, err := m.Update(ctx, 7, model.SetCompleted(true))
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 7, Title: "keep me", Completed: true}, todo)

	todo, err = m.Update(ctx, 7, model.SetTitle("renamed"))
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 7, Title: "renamed", Completed: true}, todo)

	_, err = m.Update(ctx, 8, model.SetTitle("nope"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRemoveAndCount(t *testing.T) {
	ctx := context.Background()
	m := model.New(memstore.New(
		model.Todo{ID: 1, Title: "a", Completed: true},
		model.Todo{ID: 2, Title: "b"},
	))

	counts, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Counts{Active: 1, Completed: 1, Total: 2}, counts)

	require.NoError(t, m.Remove(ctx, 1))
	assert.ErrorIs(t, m.Remove(ctx, 1), model.ErrNotFound)

	counts, err = m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Counts{Active: 1, Total: 1}, counts)

	require.NoError(t, m.RemoveAll(ctx))
	counts, err = m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Counts{}, counts)
}
