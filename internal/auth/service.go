package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database/users"
	"github.com/mrlokans/bookreviews/internal/entities"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrConfirmationRequired = errors.New("password confirmation is required")
	ErrPasswordMismatch     = errors.New("passwords do not match")

	ErrUserExists   = users.ErrUserExists
	ErrUserNotFound = users.ErrUserNotFound
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
}

// Service handles registration and credential checks.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Register validates the form values and creates the account.
// Checks run in order: username, password, confirmation, then equality.
// A taken username is reported as ErrUserExists by the insert itself.
func (s *Service) Register(ctx context.Context, username, password, confirm string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if confirm == "" {
		return nil, ErrConfirmationRequired
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, passwordHash)
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}
	return user, nil
}
