package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todomvc/internal/model"
	"github.com/idilsaglam/todomvc/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) model.Store {
		return New(filepath.Join(t.TempDir(), DefaultFileName))
	})
}

func TestPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)

	_, err := New(path).Insert(ctx, model.Todo{Title: "Buy milk"})
	require.NoError(t, err)

	todos, err := New(path).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{{ID: 1, Title: "Buy milk"}}, todos)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path).All(context.Background())
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestReadsBareArray(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":3,"title":"Buy milk","completed":false}]`), 0o644))

	s := New(path)
	todos, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{{ID: 3, Title: "Buy milk"}}, todos)

	added, err := s.Insert(ctx, model.Todo{Title: "Walk dog"})
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)
}

func TestLastIDSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)

	s := New(path)
	_, err := s.Insert(ctx, model.Todo{Title: "a"})
	require.NoError(t, err)
	b, err := s.Insert(ctx, model.Todo{Title: "b"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, b.ID))

	c, err := New(path).Insert(ctx, model.Todo{Title: "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)
}
