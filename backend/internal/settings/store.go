package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/courtside-app/courtside/backend/internal/cache"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MaxValueBytes = 4 * 1024
	cacheTTL      = 10 * time.Minute
)

// Well-known keys
const (
	KeyNotifyEmail = "notify_email"
)

var (
	ErrNotFound     = errors.New("setting not found")
	ErrInvalidKey   = errors.New("key must match ^[a-z0-9_.-]{1,64}$")
	ErrValueTooLong = errors.New("value exceeds 4KB")
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_.-]{1,64}$`)

// ValidKey reports whether key is an acceptable setting name
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Store keeps per-user settings in SQL with a read-through cache in front.
// A nil cache disables caching.
type Store struct {
	db    *gorm.DB
	cache cache.Store
}

func NewStore(db *gorm.DB, c cache.Store) *Store {
	return &Store{db: db, cache: c}
}

func cacheKey(userID string) string {
	return "settings:" + userID
}

// List returns every setting for userID as a map
func (s *Store) List(ctx context.Context, userID string) (map[string]string, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey(userID)); err == nil {
			var out map[string]string
			if err := json.Unmarshal([]byte(raw), &out); err == nil {
				return out, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			logger.Log.Warn("Settings cache read failed", logger.WithUserID(userID), zap.Error(err))
		}
	}

	var rows []models.Setting
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.SetEx(ctx, cacheKey(userID), string(raw), cacheTTL); err != nil {
				logger.Log.Warn("Settings cache write failed", logger.WithUserID(userID), zap.Error(err))
			}
		}
	}
	return out, nil
}

// Get returns one value
func (s *Store) Get(ctx context.Context, userID, key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}
	all, err := s.List(ctx, userID)
	if err != nil {
		return "", err
	}
	v, ok := all[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set upserts a value and drops the cached copy
func (s *Store) Set(ctx context.Context, userID, key, value string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	if len(value) > MaxValueBytes {
		return ErrValueTooLong
	}

	row := models.Setting{UserID: userID, Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	s.invalidate(ctx, userID)
	logger.Log.Debug("Setting saved", logger.WithUserID(userID), logger.WithSettingKey(key))
	return nil
}

// Delete removes a key. Deleting a missing key returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, userID, key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND key = ?", userID, key).Delete(&models.Setting{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete setting: %w", res.Error)
	}
	s.invalidate(ctx, userID)
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Bool reads key as a boolean, returning def when unset. Only the literal
// "false" disables a flag.
func (s *Store) Bool(ctx context.Context, userID, key string, def bool) bool {
	v, err := s.Get(ctx, userID, key)
	if err != nil {
		return def
	}
	return v != "false"
}

func (s *Store) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(userID)); err != nil {
		logger.Log.Warn("Settings cache invalidation failed", logger.WithUserID(userID), zap.Error(err))
	}
}
