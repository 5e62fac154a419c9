package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"userportal/internal/hash"
	"userportal/internal/model"
	"userportal/internal/repository"
)

// ErrAdminNotFound is returned when no admin matches the given email.
var ErrAdminNotFound = errors.New("admin not found")

// AdminService handles admin authentication and user record management.
type AdminService interface {
	Authenticate(ctx context.Context, email, password string) (*model.Admin, error)
	AddUser(ctx context.Context, name, email, password string) (*model.User, error)
	EditUser(ctx context.Context, id uint, name, email, password string) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
}

type adminService struct {
	admins repository.AdminRepository
	users  repository.UserRepository
	hasher *hash.Hasher
}

// NewAdminService creates an admin service.
func NewAdminService(admins repository.AdminRepository, users repository.UserRepository, hasher *hash.Hasher) AdminService {
	return &adminService{admins: admins, users: users, hasher: hasher}
}

// Authenticate verifies admin credentials and returns the matching admin.
func (s *adminService) Authenticate(ctx context.Context, email, password string) (*model.Admin, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !s.hasher.Verify(password, admin.PasswordHash) {
		return nil, ErrInvalidPassword
	}
	return admin, nil
}

// AddUser creates a user record on behalf of an admin.
func (s *adminService) AddUser(ctx context.Context, name, email, password string) (*model.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, attributeConflict(ctx, s.users, name, email, 0, "Email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// EditUser updates name and email, and the password hash only when a new
// password was supplied.
func (s *adminService) EditUser(ctx context.Context, id uint, name, email, password string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.Name = name
	user.Email = email
	if password != "" {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, attributeConflict(ctx, s.users, name, email, id, "Email already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user record. Deleting a missing id reports false
// without an error.
func (s *adminService) DeleteUser(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return deleted, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// SearchUsers lists users whose name loosely matches query: the query
// characters must appear in order with anything between them. A blank query
// lists everyone.
func (s *adminService) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.users.List(ctx)
	}
	return s.users.Search(ctx, repository.SearchPattern(q))
}
