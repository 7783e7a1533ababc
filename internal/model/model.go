// Package model is the data-access side of the app: todos, queries and the
// Model that reads and mutates them through a Store.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNotFound   = errors.New("todo not found")
	ErrEmptyTitle = errors.New("empty title")
)

// Store persists todos in insertion order.
type Store interface {
	All(ctx context.Context) ([]Todo, error)
	// Insert assigns an ID and returns the stored todo.
	Insert(ctx context.Context, t Todo) (Todo, error)
	// Save replaces the todo with the same ID; ErrNotFound if there is none.
	Save(ctx context.Context, t Todo) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
	Close() error
}

// Model exposes read/create/update/remove/count over a Store.
type Model struct {
	mu    sync.Mutex // serializes read-modify-write updates
	store Store
}

func New(store Store) *Model {
	return &Model{store: store}
}

// Read returns the todos matching q in insertion order.
func (m *Model) Read(ctx context.Context, q Query) ([]Todo, error) {
	all, err := m.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return q.Filter(all), nil
}

// Create stores a new active todo with the trimmed title.
func (m *Model) Create(ctx context.Context, title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, ErrEmptyTitle
	}
	t, err := m.store.Insert(ctx, Todo{Title: title})
	if err != nil {
		return Todo{}, fmt.Errorf("create: %w", err)
	}
	return t, nil
}

// Update applies req to the todo with the given id.
func (m *Model) Update(ctx context.Context, id int, req UpdateRequest) (Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found, err := m.Read(ctx, ByID(id))
	if err != nil {
		return Todo{}, err
	}
	if len(found) == 0 {
		return Todo{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	t := req.Apply(found[0])
	if err := m.store.Save(ctx, t); err != nil {
		return Todo{}, fmt.Errorf("update %d: %w", id, err)
	}
	return t, nil
}

func (m *Model) Remove(ctx context.Context, id int) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove %d: %w", id, err)
	}
	return nil
}

// RemoveAll drops every todo.
func (m *Model) RemoveAll(ctx context.Context) error {
	if err := m.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("remove all: %w", err)
	}
	return nil
}

// Count returns active, completed and total counts.
func (m *Model) Count(ctx context.Context) (Counts, error) {
	all, err := m.store.All(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("count: %w", err)
	}
	return CountOf(all), nil
}

func (m *Model) Close() error { return m.store.Close() }
