package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostType tags what a post is about
type PostType string

const (
	PostGeneral           PostType = "general"
	PostMatch             PostType = "match"
	PostLookingForPartner PostType = "looking_for_partner"
	PostTip               PostType = "tip"
)

// Valid reports whether t is a known post type
func (t PostType) Valid() bool {
	switch t {
	case PostGeneral, PostMatch, PostLookingForPartner, PostTip:
		return true
	}
	return false
}

const (
	MaxPostLength    = 2000
	MaxCommentLength = 1000
)

// Post is a feed entry
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"type:text" json:"image_url,omitempty"`
	PostType  PostType  `gorm:"size:32;not null;default:general" json:"post_type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.PostType == "" {
		p.PostType = PostGeneral
	}
	return nil
}

// Like is one user's like on one post
type Like struct {
	PostID    string    `gorm:"primaryKey;size:36" json:"post_id"`
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply to a post
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index" json:"post_id"`
	UserID    string    `gorm:"size:36;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
