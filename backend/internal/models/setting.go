package models

import "time"

// Setting is one per-user key/value pair
type Setting struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"-"`
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model the server persists, in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Like{},
		&Comment{},
		&Conversation{},
		&Message{},
		&Setting{},
	}
}
