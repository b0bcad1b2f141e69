package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/myaxum/myaxum/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

//nolint:revive
func (m *MockUserService) Sample(ctx context.Context) service.User {
	args := m.Called(ctx)
	return args.Get(0).(service.User)
}

//nolint:revive
func (m *MockUserService) List(ctx context.Context) []service.User {
	args := m.Called(ctx)
	return args.Get(0).([]service.User)
}

//nolint:revive
func (m *MockUserService) Create(ctx context.Context, username string) (service.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(service.User), args.Error(1)
}

//nolint:revive
func (m *MockUserService) Login(ctx context.Context, info service.LoginInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}
