package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerRole distinguishes players from coaches
type PlayerRole string

const (
	RolePlayer PlayerRole = "player"
	RoleCoach  PlayerRole = "coach"
)

// Valid reports whether r is a known role
func (r PlayerRole) Valid() bool {
	return r == RolePlayer || r == RoleCoach
}

// Handedness is the hand a player plays with
type Handedness string

const (
	PlaysRight Handedness = "right"
	PlaysLeft  Handedness = "left"
)

func (h Handedness) Valid() bool {
	return h == PlaysRight || h == PlaysLeft
}

// NTRP skill level bounds
const (
	MinSkillLevel = 1.0
	MaxSkillLevel = 7.0
)

// User is a Courtside account together with its player profile
type User struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string `gorm:"not null" json:"display_name"`

	PasswordHash string `gorm:"type:text;not null" json:"-"`
	IsAdmin      bool   `gorm:"default:false" json:"is_admin,omitempty"`

	// Player profile
	Bio        string     `gorm:"type:text" json:"bio"`
	Location   string     `gorm:"type:text" json:"location"`
	Latitude   *float64   `gorm:"index:idx_users_lat_lng" json:"latitude,omitempty"`
	Longitude  *float64   `gorm:"index:idx_users_lat_lng" json:"longitude,omitempty"`
	SkillLevel float64    `gorm:"default:0" json:"skill_level"`
	Role       PlayerRole `gorm:"size:16;default:player" json:"role"`
	Plays      Handedness `gorm:"size:8" json:"plays,omitempty"`
	AvatarURL  string     `gorm:"type:text" json:"avatar_url"`

	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicUser strips the private fields before a user is shown to others
func (u User) PublicUser() User {
	u.Email = ""
	u.IsAdmin = false
	return u
}

// UserSummary is the author block embedded in posts, comments and messages
type UserSummary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url"`
	SkillLevel  float64 `json:"skill_level"`
}

// Summary returns the author block for u
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		SkillLevel:  u.SkillLevel,
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RolePlayer
	}
	return nil
}
