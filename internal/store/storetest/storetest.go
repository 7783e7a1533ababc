// Package storetest holds the behavior every model.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todomvc/internal/model"
)

// Run exercises a fresh store returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) model.Store) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		s := open(t)
		todos, err := s.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("insert assigns increasing ids in order", func(t *testing.T) {
		s := open(t)
		a, err := s.Insert(ctx, model.Todo{Title: "a"})
		require.NoError(t, err)
		b, err := s.Insert(ctx, model.Todo{Title: "b", Completed: true})
		require.NoError(t, err)
		assert.Greater(t, b.ID, a.ID)

		todos, err := s.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Todo{a, b}, todos)
	})

	t.Run("save replaces", func(t *testing.T) {
		s := open(t)
		a, err := s.Insert(ctx, model.Todo{Title: "a"})
		require.NoError(t, err)
		a.Title, a.Completed = "renamed", true
		require.NoError(t, s.Save(ctx, a))

		todos, err := s.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Todo{a}, todos)
	})

	t.Run("save unknown", func(t *testing.T) {
		s := open(t)
		err := s.Save(ctx, model.Todo{ID: 99, Title: "ghost"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		a, _ := s.Insert(ctx, model.Todo{Title: "a"})
		b, _ := s.Insert(ctx, model.Todo{Title: "b"})
		require.NoError(t, s.Delete(ctx, a.ID))
		assert.ErrorIs(t, s.Delete(ctx, a.ID), model.ErrNotFound)

		todos, err := s.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Todo{b}, todos)
	})

	t.Run("deleted ids are not reused", func(t *testing.T) {
		s := open(t)
		a, err := s.Insert(ctx, model.Todo{Title: "a"})
		require.NoError(t, err)
		b, err := s.Insert(ctx, model.Todo{Title: "b"})
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, b.ID))

		c, err := s.Insert(ctx, model.Todo{Title: "c"})
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID)

		todos, err := s.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Todo{a, c}, todos)
	})

	t.Run("delete all", func(t *testing.T) {
		s := open(t)
		_, _ = s.Insert(ctx, model.Todo{Title: "a"})
		_, _ = s.Insert(ctx, model.Todo{Title: "b"})
		require.NoError(t, s.DeleteAll(ctx))

		todos, err := s.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})
}
