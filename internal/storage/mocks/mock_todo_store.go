package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/myaxum/myaxum/internal/storage"
)

// MockTodoStore is a mock implementation of storage.TodoStore.
type MockTodoStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockTodoStore) Create(ctx context.Context, text string) (*storage.Todo, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoStore) Get(ctx context.Context, id int64) (*storage.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoStore) List(ctx context.Context) ([]*storage.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoStore) Update(ctx context.Context, id int64, update storage.UpdateTodo) (*storage.Todo, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
