package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/courtside-app/courtside/backend/internal/dto"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/models"
	"github.com/courtside-app/courtside/backend/internal/repository"
	"github.com/courtside-app/courtside/backend/internal/storage"
	"go.uber.org/zap"
)

const (
	MaxDisplayNameLength = 50
	MaxBioLength         = 500
	MaxLocationLength    = 100
)

var ErrUserNotFound = repository.ErrUserNotFound

// FieldError names the profile field that failed validation
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OnlineChecker reports realtime presence; the websocket hub satisfies it
type OnlineChecker interface {
	IsUserOnline(userID string) bool
}

// Service reads and updates player profiles
type Service struct {
	users    repository.UserRepository
	uploader storage.ImageUploader
	online   OnlineChecker
}

// NewService wires the profile service. uploader and online may be nil, in
// which case avatar upload is unavailable and everyone reads as offline.
func NewService(users repository.UserRepository, uploader storage.ImageUploader, online OnlineChecker) *Service {
	return &Service{users: users, uploader: uploader, online: online}
}

// CanUpload reports whether avatar upload is configured
func (s *Service) CanUpload() bool {
	return s.uploader != nil
}

func (s *Service) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.users.GetPostCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProfileResponse(user, count)
	resp.Online = s.online != nil && s.online.IsUserOnline(userID)
	return resp, nil
}

// Me returns the caller's own profile including private fields
func (s *Service) Me(ctx context.Context, userID string) (*dto.ProfileDetailResponse, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.users.GetPostCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToProfileDetailResponse(user, count), nil
}

func (s *Service) Update(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.ProfileDetailResponse, error) {
	updates, err := validateUpdate(req)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Profile updated", logger.WithUserID(userID), zap.Int("fields", len(updates)))

	count, err := s.users.GetPostCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToProfileDetailResponse(user, count), nil
}

// validateUpdate turns a partial update into column updates. Latitude and
// longitude must arrive together.
func validateUpdate(req dto.UpdateProfileRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, &FieldError{"display_name", "cannot be empty"}
		}
		if utf8.RuneCountInString(name) > MaxDisplayNameLength {
			return nil, &FieldError{"display_name", fmt.Sprintf("must be at most %d characters", MaxDisplayNameLength)}
		}
		updates["display_name"] = name
	}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if utf8.RuneCountInString(bio) > MaxBioLength {
			return nil, &FieldError{"bio", fmt.Sprintf("must be at most %d characters", MaxBioLength)}
		}
		updates["bio"] = bio
	}
	if req.Location != nil {
		loc := strings.TrimSpace(*req.Location)
		if utf8.RuneCountInString(loc) > MaxLocationLength {
			return nil, &FieldError{"location", fmt.Sprintf("must be at most %d characters", MaxLocationLength)}
		}
		updates["location"] = loc
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, &FieldError{"latitude", "latitude and longitude must be set together"}
	}
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 {
			return nil, &FieldError{"latitude", "must be between -90 and 90"}
		}
		if *req.Longitude < -180 || *req.Longitude > 180 {
			return nil, &FieldError{"longitude", "must be between -180 and 180"}
		}
		updates["latitude"] = *req.Latitude
		updates["longitude"] = *req.Longitude
	}

	if req.SkillLevel != nil {
		if *req.SkillLevel < models.MinSkillLevel || *req.SkillLevel > models.MaxSkillLevel {
			return nil, &FieldError{"skill_level", fmt.Sprintf("must be between %.1f and %.1f", models.MinSkillLevel, models.MaxSkillLevel)}
		}
		updates["skill_level"] = *req.SkillLevel
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, &FieldError{"role", "must be player or coach"}
		}
		updates["role"] = *req.Role
	}
	if req.Plays != nil {
		if !req.Plays.Valid() {
			return nil, &FieldError{"plays", "must be right or left"}
		}
		updates["plays"] = *req.Plays
	}

	return updates, nil
}

// UploadAvatar stores the image and points the profile at it. The previous
// avatar is removed when this server uploaded it.
func (s *Service) UploadAvatar(ctx context.Context, userID string, data []byte, ext, contentType string) (*dto.ProfileDetailResponse, error) {
	if s.uploader == nil {
		return nil, errors.New("avatar upload is not configured")
	}

	current, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.uploader.UploadImage(ctx, data, storage.KindAvatar, userID, ext, contentType)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, map[string]interface{}{"avatar_url": result.URL})
	if err != nil {
		return nil, err
	}

	if key, ok := s.uploader.KeyFromURL(current.AvatarURL); ok {
		if err := s.uploader.DeleteFile(ctx, key); err != nil {
			logger.Log.Warn("Failed to delete old avatar", logger.WithUserID(userID), zap.String("key", key), zap.Error(err))
		}
	}

	count, err := s.users.GetPostCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToProfileDetailResponse(user, count), nil
}

// UploadPostImage stores an image to be attached to a post
func (s *Service) UploadPostImage(ctx context.Context, userID string, data []byte, ext, contentType string) (string, error) {
	if s.uploader == nil {
		return "", errors.New("image upload is not configured")
	}
	result, err := s.uploader.UploadImage(ctx, data, storage.KindPostImage, userID, ext, contentType)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}
