package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"userportal/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByNameExcluding(ctx context.Context, name string, excludeID uint) (*model.User, error)
	FindByEmailExcluding(ctx context.Context, email string, excludeID uint) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Search(ctx context.Context, pattern string) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByNameExcluding looks up a user by name while ignoring the record with
// excludeID. Used to attribute edit conflicts without matching the record
// being edited.
func (r *userRepository) FindByNameExcluding(ctx context.Context, name string, excludeID uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("name = ? AND id <> ?", name, excludeID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmailExcluding(ctx context.Context, email string, excludeID uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ? AND id <> ?", email, excludeID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// DeleteByID removes a user and reports whether a row was deleted. A missing
// id is a no-op, not an error.
func (r *userRepository) DeleteByID(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches names against a regular expression pattern, case-insensitively.
func (r *userRepository) Search(ctx context.Context, pattern string) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) REGEXP ?", strings.ToLower(pattern)).
		Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchPattern compiles a query into the loose subsequence pattern used by
// Search: a wildcard is interleaved between every character, so "jn" matches
// "john". Query characters are passed through verbatim.
func SearchPattern(q string) string {
	return strings.Join(strings.Split(q, ""), ".*")
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
