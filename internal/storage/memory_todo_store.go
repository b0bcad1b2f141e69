package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryTodoStore implements TodoStore in process memory.
// Ids increase monotonically and are never reused after a delete.
type MemoryTodoStore struct {
	mu     sync.RWMutex
	todos  map[int64]Todo
	nextID int64
}

// NewMemoryTodoStore returns an empty MemoryTodoStore.
func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{todos: make(map[int64]Todo), nextID: 1}
}

func (s *MemoryTodoStore) Create(_ context.Context, text string) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Todo{ID: s.nextID, Text: text}
	s.todos[t.ID] = t
	s.nextID++
	return &t, nil
}

func (s *MemoryTodoStore) Get(_ context.Context, id int64) (*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *MemoryTodoStore) List(_ context.Context) ([]*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]*Todo, 0, len(s.todos))
	for _, t := range s.todos {
		t := t
		todos = append(todos, &t)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID > todos[j].ID })
	return todos, nil
}

func (s *MemoryTodoStore) Update(_ context.Context, id int64, update UpdateTodo) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	t = update.Apply(t)
	s.todos[id] = t
	return &t, nil
}

func (s *MemoryTodoStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrTodoNotFound
	}
	delete(s.todos, id)
	return nil
}
