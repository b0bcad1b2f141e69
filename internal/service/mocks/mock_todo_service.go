package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/myaxum/myaxum/internal/storage"
)

// MockTodoService is a mock implementation of service.TodoService.
type MockTodoService struct {
	mock.Mock
}

//nolint:revive
func (m *MockTodoService) List(ctx context.Context) ([]*storage.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoService) Get(ctx context.Context, id int64) (*storage.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoService) Create(ctx context.Context, text string) (*storage.Todo, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoService) Update(ctx context.Context, id int64, update storage.UpdateTodo) (*storage.Todo, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Todo), args.Error(1)
}

//nolint:revive
func (m *MockTodoService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
