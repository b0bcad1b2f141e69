package service

import (
	"context"
	"log/slog"
	"strings"
)

// User is the public user representation returned by the API.
type User struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// LoginInfo is the login form submission.
type LoginInfo struct {
	LoginID  string
	Password string
}

// Fixed identities served by the sample endpoints.
const (
	SampleUserID  uint64 = 1338
	CreatedUserID uint64 = 1337
)

var directory = []User{
	{ID: 0, Username: "Taro"},
	{ID: 1, Username: "Jiro"},
	{ID: 2, Username: "Saburo"},
}

// UserService serves the sample user endpoints.
type UserService interface {
	// Sample returns the payload the client fetches at start-up.
	Sample(ctx context.Context) User
	// List returns the user directory.
	List(ctx context.Context) []User
	// Create echoes the username back with the fixed created-user id.
	Create(ctx context.Context, username string) (User, error)
	// Login accepts a login form submission.
	Login(ctx context.Context, info LoginInfo) error
}

type userService struct {
	logger *slog.Logger
}

// NewUserService returns the default UserService.
func NewUserService(logger *slog.Logger) UserService {
	return &userService{logger: logger}
}

func (s *userService) Sample(_ context.Context) User {
	return User{ID: SampleUserID, Username: "Taro"}
}

func (s *userService) List(_ context.Context) []User {
	users := make([]User, len(directory))
	copy(users, directory)
	return users
}

func (s *userService) Create(_ context.Context, username string) (User, error) {
	if strings.TrimSpace(username) == "" {
		return User{}, &ValidationError{Field: "username", Message: "username is required"}
	}
	return User{ID: CreatedUserID, Username: username}, nil
}

// Login never logs the password.
func (s *userService) Login(_ context.Context, info LoginInfo) error {
	if info.LoginID == "" {
		return &ValidationError{Field: "login_id", Message: "login_id is required"}
	}
	if info.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	s.logger.Info("login submitted", "login_id", info.LoginID)
	return nil
}
