// Package service implements the business logic layer between HTTP handlers
// and the storage package. All interfaces are designed for easy mocking
// in tests.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/myaxum/myaxum/internal/storage"
)

// TodoService defines the business logic interface for managing todos.
type TodoService interface {
	// List returns all todos, newest first.
	List(ctx context.Context) ([]*storage.Todo, error)

	// Get returns the todo with the given id, or a NotFoundError.
	Get(ctx context.Context, id int64) (*storage.Todo, error)

	// Create validates and persists a new todo.
	Create(ctx context.Context, text string) (*storage.Todo, error)

	// Update applies a partial update. Returns a NotFoundError if the todo does not exist.
	Update(ctx context.Context, id int64, update storage.UpdateTodo) (*storage.Todo, error)

	// Delete removes a todo. Returns a NotFoundError if the todo does not exist.
	Delete(ctx context.Context, id int64) error
}

type todoService struct {
	repo   storage.TodoStore
	events EventPublisher
	logger *slog.Logger
}

// NewTodoService returns a TodoService backed by repo. events may be nil.
func NewTodoService(repo storage.TodoStore, events EventPublisher, logger *slog.Logger) TodoService {
	return &todoService{repo: repo, events: events, logger: logger}
}

func (s *todoService) List(ctx context.Context) ([]*storage.Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) Get(ctx context.Context, id int64) (*storage.Todo, error) {
	todo, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}
	if todo == nil {
		return nil, notFound(id)
	}
	return todo, nil
}

func (s *todoService) Create(ctx context.Context, text string) (*storage.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "text is required"}
	}

	todo, err := s.repo.Create(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	s.logger.Info("todo created", "todo_id", todo.ID)
	s.publish(EventTodoCreated, todo.ID)
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, id int64, update storage.UpdateTodo) (*storage.Todo, error) {
	if update.Text != nil && strings.TrimSpace(*update.Text) == "" {
		return nil, &ValidationError{Field: "text", Message: "text must not be empty"}
	}

	todo, err := s.repo.Update(ctx, id, update)
	if errors.Is(err, storage.ErrTodoNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}

	s.logger.Info("todo updated", "todo_id", id)
	s.publish(EventTodoUpdated, id)
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrTodoNotFound) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}

	s.logger.Info("todo deleted", "todo_id", id)
	s.publish(EventTodoDeleted, id)
	return nil
}

func (s *todoService) publish(eventType string, id int64) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, map[string]string{"todo_id": strconv.FormatInt(id, 10)})
}

func notFound(id int64) error {
	return &NotFoundError{Resource: "todo", ID: strconv.FormatInt(id, 10)}
}
