package dto

import (
	"time"

	"github.com/courtside-app/courtside/backend/internal/models"
)

// ProfileResponse is the public player profile (safe for API responses)
type ProfileResponse struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name"`
	Bio         string            `json:"bio"`
	Location    string            `json:"location"`
	Latitude    *float64          `json:"latitude,omitempty"`
	Longitude   *float64          `json:"longitude,omitempty"`
	SkillLevel  float64           `json:"skill_level"`
	Role        models.PlayerRole `json:"role"`
	Plays       models.Handedness `json:"plays,omitempty"`
	AvatarURL   string            `json:"avatar_url"`
	PostCount   int64             `json:"post_count"`
	Online      bool              `json:"online"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ProfileDetailResponse includes private fields for the profile owner
type ProfileDetailResponse struct {
	ProfileResponse
	Email        string     `json:"email"`
	IsAdmin      bool       `json:"is_admin,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

// UpdateProfileRequest is a partial update; nil fields are left alone
type UpdateProfileRequest struct {
	DisplayName *string            `json:"display_name,omitempty"`
	Bio         *string            `json:"bio,omitempty"`
	Location    *string            `json:"location,omitempty"`
	Latitude    *float64           `json:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty"`
	SkillLevel  *float64           `json:"skill_level,omitempty"`
	Role        *models.PlayerRole `json:"role,omitempty"`
	Plays       *models.Handedness `json:"plays,omitempty"`
}

// ToProfileResponse converts models.User to ProfileResponse (excludes sensitive fields)
func ToProfileResponse(user *models.User, postCount int64) *ProfileResponse {
	if user == nil {
		return nil
	}

	return &ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		Location:    user.Location,
		Latitude:    user.Latitude,
		Longitude:   user.Longitude,
		SkillLevel:  user.SkillLevel,
		Role:        user.Role,
		Plays:       user.Plays,
		AvatarURL:   user.AvatarURL,
		PostCount:   postCount,
		CreatedAt:   user.CreatedAt,
	}
}

// ToProfileDetailResponse converts models.User to ProfileDetailResponse (includes private fields)
func ToProfileDetailResponse(user *models.User, postCount int64) *ProfileDetailResponse {
	if user == nil {
		return nil
	}

	return &ProfileDetailResponse{
		ProfileResponse: *ToProfileResponse(user, postCount),
		Email:           user.Email,
		IsAdmin:         user.IsAdmin,
		LastActiveAt:    user.LastActiveAt,
	}
}
