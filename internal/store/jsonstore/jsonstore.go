package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/idilsaglam/todomvc/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// The mutex only guards this process; concurrent CLIs on one file race.

const DefaultFileName = "todos.json"

// DataPath resolves the default data file in the working directory.
func DataPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// file is the on-disk layout. LastID only grows, so deleted ids are
// never handed out again.
type file struct {
	LastID int          `json:"last_id"`
	Todos  []model.Todo `json:"todos"`
}

func (s *Store) All(ctx context.Context) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Todos, nil
}

func (s *Store) Insert(ctx context.Context, t model.Todo) (model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return model.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return model.Todo{}, err
	}
	f.LastID++
	t.ID = f.LastID
	f.Todos = append(f.Todos, t)
	if err := s.save(f); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

func (s *Store) Save(ctx context.Context, t model.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return err
	}
	for i := range f.Todos {
		if f.Todos[i].ID == t.ID {
			f.Todos[i] = t
			return s.save(f)
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
	f, err := s.load()
	if err != nil {
		return err
	}
	for i := range f.Todos {
		if f.Todos[i].ID == id {
			f.Todos = append(f.Todos[:i], f.Todos[i+1:]...)
			return s.save(f)
		}
	}
	return model.ErrNotFound
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return err
	}
	f.Todos = []model.Todo{}
	return s.save(f)
}

func (s *Store) Close() error { return nil }

func (s *Store) load() (file, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return file{Todos: []model.Todo{}}, nil
		}
		return file{}, fmt.Errorf("read file: %w", err)
	}
	var f file
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		// bare array written by older versions
		if err := json.Unmarshal(b, &f.Todos); err != nil {
			return file{}, fmt.Errorf("json unmarshal: %w", err)
		}
	} else if err := json.Unmarshal(b, &f); err != nil {
		return file{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if f.Todos == nil {
		f.Todos = []model.Todo{}
	}
	for _, t := range f.Todos {
		if t.ID > f.LastID {
			f.LastID = t.ID
		}
	}
	return f, nil
}

func (s *Store) save(f file) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
