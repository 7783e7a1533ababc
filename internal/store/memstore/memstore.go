// Package memstore keeps todos in memory. Nothing survives the process.
package memstore

import (
	"context"
	"sync"

	"github.com/idilsaglam/todomvc/internal/model"
)

type Store struct {
	mu     sync.Mutex
	todos  []model.Todo
	lastID int
}

// New returns a store holding seed in order. Seed IDs are kept as given.
func New(seed ...model.Todo) *Store {
	s := &Store{todos: append([]model.Todo(nil), seed...)}
	for _, t := range seed {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s
}

func (s *Store) All(ctx context.Context) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...), nil
}

func (s *Store) Insert(ctx context.Context, t model.Todo) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	t.ID = s.lastID
	s.todos = append(s.todos, t)
	return t, nil
}

func (s *Store) Save(ctx context.Context, t model.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == t.ID {
			s.todos[i] = t
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.todos = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
