package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "userportal/internal/errors"
	"userportal/internal/hash"
	"userportal/internal/model"
	"userportal/internal/repository"
)

var (
	// ErrUserNotFound is returned when no user matches the given email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword is returned when the password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService handles user-facing registration and authentication.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher *hash.Hasher
}

// NewUserService creates a user service.
func NewUserService(users repository.UserRepository, hasher *hash.Hasher) UserService {
	return &userService{users: users, hasher: hasher}
}

// Register hashes the password and inserts the record. The unique indexes on
// name and email are the authority on duplicates; a duplicated-key rejection
// is attributed to a field afterwards so the form can mark it.
func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, attributeConflict(ctx, s.users, name, email, 0, "User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// attributeConflict resolves which unique field rejected a write. Name is
// probed first; the excluding lookups keep an edited record from conflicting
// with itself.
func attributeConflict(ctx context.Context, users repository.UserRepository, name, email string, excludeID uint, emailMessage string) error {
	if _, err := users.FindByNameExcluding(ctx, name, excludeID); err == nil {
		return &apperrors.ConflictError{Field: "name", Message: "Name already exists"}
	} else if !repository.IsNotFound(err) {
		return fmt.Errorf("attribute conflict: %w", err)
	}
	// The index rejected the write, so if the name is free it was the email.
	return &apperrors.ConflictError{Field: "email", Message: emailMessage}
}
