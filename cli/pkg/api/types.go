package api

import "time"

// User is an account or player profile. Private fields are only filled for
// the caller's own account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email,omitempty"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	IsAdmin      bool       `json:"is_admin,omitempty"`
	Bio          string     `json:"bio"`
	Location     string     `json:"location"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	SkillLevel   float64    `json:"skill_level"`
	Role         string     `json:"role"`
	Plays        string     `json:"plays,omitempty"`
	AvatarURL    string     `json:"avatar_url"`
	PostCount    int64      `json:"post_count,omitempty"`
	Online       bool       `json:"online,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Author is the user block embedded in posts and comments
type Author struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url"`
	SkillLevel  float64 `json:"skill_level"`
}

// Post is a feed entry
type Post struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	PostType     string    `json:"post_type"`
	Author       Author    `json:"author"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	LikedByMe    bool      `json:"liked_by_me"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemID lets posts be accumulated by the pagination controller
func (p Post) ItemID() string { return p.ID }

// FeedResponse is one page of posts
type FeedResponse struct {
	Posts    []Post `json:"posts"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasMore  bool   `json:"has_more"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentsResponse struct {
	Comments []Comment `json:"comments"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasMore  bool      `json:"has_more"`
}

// LikeResponse reports the like state after a like or unlike
type LikeResponse struct {
	PostID    string `json:"post_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	PostType string `json:"post_type,omitempty"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse wraps a single user
type UserResponse struct {
	User User `json:"user"`
}

// UpdateProfileRequest only sends the fields that are set
type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	SkillLevel  *float64 `json:"skill_level,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Plays       *string  `json:"plays,omitempty"`
}

// Empty reports whether no field is set
func (r UpdateProfileRequest) Empty() bool {
	return r.DisplayName == nil && r.Bio == nil && r.Location == nil &&
		r.Latitude == nil && r.Longitude == nil && r.SkillLevel == nil &&
		r.Role == nil && r.Plays == nil
}

type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	RecipientID    string     `json:"recipient_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SendMessageResponse carries the stored message and how it was delivered
type SendMessageResponse struct {
	Message  Message `json:"message"`
	Delivery string  `json:"delivery"`
}

type Conversation struct {
	ID            string    `json:"id"`
	With          Author    `json:"with"`
	LastMessage   *Message  `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}

type ConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	HasMore       bool           `json:"has_more"`
}

type ThreadResponse struct {
	Messages []Message `json:"messages"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	HasMore  bool      `json:"has_more"`
}

// NearbyPlayer is a discovery result
type NearbyPlayer struct {
	User
	DistanceKm float64 `json:"distance_km"`
}

type DiscoverResponse struct {
	Players  []NearbyPlayer `json:"players"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
	RadiusKm float64        `json:"radius_km"`
}

// DiscoverQuery filters nearby players. Zero values are left out of the
// request so the server defaults apply.
type DiscoverQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	MinSkill float64
	MaxSkill float64
	Role     string
	Page     int
	PageSize int
}

type AssistantReply struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// Setting is a single key/value pair
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type CacheStats struct {
	Name     string  `json:"name"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	TTL      string  `json:"ttl"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
