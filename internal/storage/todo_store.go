package storage

import (
	"context"
	"errors"
)

// ErrTodoNotFound is returned by Update and Delete when the id does not exist.
var ErrTodoNotFound = errors.New("todo not found")

// Todo is a single todo item.
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UpdateTodo is a partial update; nil fields keep their current value.
type UpdateTodo struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// Apply returns a copy of t with the non-nil fields of u applied.
func (u UpdateTodo) Apply(t Todo) Todo {
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	return t
}

// TodoStore defines the interface for todo persistence.
type TodoStore interface {
	// Create stores a new, not completed todo and returns it with its id.
	Create(ctx context.Context, text string) (*Todo, error)
	// Get returns the todo with the given id, or nil if not found.
	Get(ctx context.Context, id int64) (*Todo, error)
	// List returns all todos, newest (highest id) first.
	List(ctx context.Context) ([]*Todo, error)
	// Update applies a partial update. Returns ErrTodoNotFound if id does not exist.
	Update(ctx context.Context, id int64, update UpdateTodo) (*Todo, error)
	// Delete removes a todo. Returns ErrTodoNotFound if id does not exist.
	Delete(ctx context.Context, id int64) error
}
