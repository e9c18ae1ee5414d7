// Package auth owns accounts: registration, password login and the HS256
// access tokens every other endpoint trusts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const defaultTokenTTL = 24 * time.Hour

type Service struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewService creates an auth service. A zero ttl means 24 hours.
func NewService(db *gorm.DB, jwtSecret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{db: db, jwtSecret: jwtSecret, tokenTTL: ttl, now: time.Now}
}

// AuthResponse is what register and login answer with
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a player account. Email and username are unique without
// regard to case; the email is stored lowercased.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	db := s.db.WithContext(ctx)
	if err := s.checkAvailable(db, req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        strings.ToLower(req.Email),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("Player registered", logger.WithUserID(user.ID), zap.String("username", user.Username))
	return s.issue(user)
}

// checkAvailable reports which of email or username is already taken
func (s *Service) checkAvailable(db *gorm.DB, email, username string) error {
	var taken []models.User
	err := db.Select("email", "username").
		Where("LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)", email, username).
		Limit(2).Find(&taken).Error
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	for _, u := range taken {
		if strings.EqualFold(u.Email, email) {
			return ErrUserExists
		}
	}
	if len(taken) > 0 {
		return ErrUsernameExists
	}
	return nil
}

// Login verifies the password and hands out a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	switch err := db.Where("LOWER(email) = LOWER(?)", req.Email).Take(&user).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	seen := s.now().UTC()
	if err := db.Model(&user).Update("last_active_at", seen).Error; err != nil {
		logger.Log.Warn("Failed to update last_active_at", logger.WithUserID(user.ID), zap.Error(err))
	}
	user.LastActiveAt = &seen
	return s.issue(&user)
}

func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user := new(models.User)
	switch err := s.db.WithContext(ctx).Take(user, "id = ?", userID).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ValidateToken checks raw and loads the player it was issued to. A token
// for a deleted account is invalid.
func (s *Service) ValidateToken(ctx context.Context, raw string) (*models.User, error) {
	userID, err := s.parse(raw)
	if err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return user, nil
}
