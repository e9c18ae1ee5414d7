package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/courtside-app/courtside/backend/internal/metrics"
	"github.com/courtside-app/courtside/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotAuthor       = errors.New("only the author can delete a post")
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content is too long")
	ErrInvalidPostType = errors.New("invalid post type")
)

// PostView is a post as the API returns it
type PostView struct {
	models.Post
	Author       models.UserSummary `json:"author"`
	LikeCount    int64              `json:"like_count"`
	CommentCount int64              `json:"comment_count"`
	LikedByMe    bool               `json:"liked_by_me"`
}

// Page is one page of a feed
type Page struct {
	Posts    []PostView `json:"posts"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	HasMore  bool       `json:"has_more"`
}

// CommentView is a comment with its author block
type CommentView struct {
	models.Comment
	Author models.UserSummary `json:"author"`
}

// CommentPage is one page of comments, oldest first
type CommentPage struct {
	Comments []CommentView `json:"comments"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	HasMore  bool          `json:"has_more"`
}

// CreatePostInput is what a user submits to publish a post
type CreatePostInput struct {
	Content  string          `json:"content"`
	ImageURL string          `json:"image_url"`
	PostType models.PostType `json:"post_type"`
}

// Service reads and writes posts, likes and comments
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Feed returns page `page` of the global feed, newest first. Posts are
// ordered by (created_at, id) descending so equal timestamps page stably.
func (s *Service) Feed(ctx context.Context, viewerID string, page, pageSize int) (*Page, error) {
	return s.list(ctx, "global", viewerID, "", page, pageSize)
}

// UserPosts returns one author's posts in feed order
func (s *Service) UserPosts(ctx context.Context, viewerID, authorID string, page, pageSize int) (*Page, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}
	return s.list(ctx, "user", viewerID, authorID, page, pageSize)
}

func (s *Service) list(ctx context.Context, feedName, viewerID, authorID string, page, pageSize int) (*Page, error) {
	start := time.Now()
	defer func() {
		metrics.Get().FeedPageDuration.WithLabelValues(feedName).Observe(time.Since(start).Seconds())
	}()

	q := s.db.WithContext(ctx).Model(&models.Post{}).Preload("User")
	if authorID != "" {
		q = q.Where("user_id = ?", authorID)
	}

	// one extra row tells us whether another page exists
	var posts []models.Post
	err := q.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	hasMore := len(posts) > pageSize
	if hasMore {
		posts = posts[:pageSize]
	}

	views, err := s.decorate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}

	return &Page{Posts: views, Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}

// decorate attaches author, counters and the viewer's like flag
func (s *Service) decorate(ctx context.Context, viewerID string, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, err := s.countBy(ctx, &models.Like{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.countBy(ctx, &models.Comment{}, ids)
	if err != nil {
		return nil, err
	}

	liked := make(map[string]bool)
	if viewerID != "" {
		var likedIDs []string
		err := s.db.WithContext(ctx).Model(&models.Like{}).
			Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &likedIDs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load likes: %w", err)
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for i, p := range posts {
		views[i] = PostView{
			Post:         p,
			Author:       p.User.Summary(),
			LikeCount:    likes[p.ID],
			CommentCount: comments[p.ID],
			LikedByMe:    liked[p.ID],
		}
	}
	return views, nil
}

func (s *Service) countBy(ctx context.Context, model interface{}, postIDs []string) (map[string]int64, error) {
	var rows []struct {
		PostID string
		N      int64
	}
	err := s.db.WithContext(ctx).Model(model).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.PostID] = r.N
	}
	return out, nil
}

// CreatePost validates and stores a post by userID
func (s *Service) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*PostView, error) {
	content, err := validateText(in.Content, models.MaxPostLength)
	if err != nil {
		return nil, err
	}
	if in.PostType == "" {
		in.PostType = models.PostGeneral
	}
	if !in.PostType.Valid() {
		return nil, ErrInvalidPostType
	}

	post := models.Post{
		UserID:   userID,
		Content:  content,
		ImageURL: strings.TrimSpace(in.ImageURL),
		PostType: in.PostType,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	metrics.Get().PostsCreatedTotal.Inc()

	return s.GetPost(ctx, userID, post.ID)
}

// GetPost loads one post as seen by viewerID
func (s *Service) GetPost(ctx context.Context, viewerID, postID string) (*PostView, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("User").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	views, err := s.decorate(ctx, viewerID, []models.Post{post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeletePost removes a post with its likes and comments. Only the author
// may delete.
func (s *Service) DeletePost(ctx context.Context, userID, postID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Where("id = ?", postID).First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return ErrNotAuthor
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// Like records userID's like. Liking twice is not an error.
func (s *Service) Like(ctx context.Context, userID, postID string) (int64, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return 0, err
	}
	like := models.Like{PostID: postID, UserID: userID}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
	if err != nil {
		return 0, fmt.Errorf("failed to like post: %w", err)
	}
	return s.likeCount(ctx, postID)
}

// Unlike removes userID's like, if any
func (s *Service) Unlike(ctx context.Context, userID, postID string) (int64, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return 0, err
	}
	err := s.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to unlike post: %w", err)
	}
	return s.likeCount(ctx, postID)
}

func (s *Service) likeCount(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

// Comments returns a page of comments on postID, oldest first
func (s *Service) Comments(ctx context.Context, postID string, page, pageSize int) (*CommentPage, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	hasMore := len(comments) > pageSize
	if hasMore {
		comments = comments[:pageSize]
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Comment: c, Author: c.User.Summary()}
	}
	return &CommentPage{Comments: views, Page: page, PageSize: pageSize, HasMore: hasMore}, nil
}

// AddComment stores a comment by userID on postID
func (s *Service) AddComment(ctx context.Context, userID, postID, content string) (*CommentView, error) {
	body, err := validateText(content, models.MaxCommentLength)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := models.Comment{PostID: postID, UserID: userID, Content: body}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	if err := s.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return &CommentView{Comment: comment, Author: comment.User.Summary()}, nil
}

// PostAuthor returns the author ID of postID
func (s *Service) PostAuthor(ctx context.Context, postID string) (string, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Select("user_id").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPostNotFound
	}
	return post.UserID, err
}

func (s *Service) ensurePost(ctx context.Context, postID string) error {
	_, err := s.PostAuthor(ctx, postID)
	return err
}

func validateText(s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrContentRequired
	}
	if utf8.RuneCountInString(s) > max {
		return "", ErrContentTooLong
	}
	return s, nil
}
