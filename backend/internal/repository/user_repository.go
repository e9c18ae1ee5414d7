// Package repository reads and writes player rows for the profile and admin
// paths. Auth keeps its own queries.
package repository

import (
	"context"
	"errors"

	"github.com/courtside-app/courtside/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// GetUserByEmail matches case-insensitively
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateProfile writes the given columns and returns the stored row.
	// Empty updates just reload the row.
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*models.User, error)
	SetAdmin(ctx context.Context, userID string, admin bool) error

	GetPostCount(ctx context.Context, userID string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) first(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	switch err := r.db.WithContext(ctx).Where(where, arg).First(&u).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*models.User, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if len(updates) > 0 {
		if err := r.update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return r.GetUser(ctx, userID)
}

// SetAdmin goes through a map so that false is written rather than skipped
func (r *userRepository) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return r.update(ctx, userID, map[string]any{"is_admin": admin})
}

func (r *userRepository) update(ctx context.Context, userID string, columns map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetPostCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
