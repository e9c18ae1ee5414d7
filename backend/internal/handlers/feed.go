package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/feed"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/telemetry"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetFeed returns one page of the global feed, newest first
func (h *Handlers) GetFeed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	page, pageSize, apiErr := util.ParsePagination(c)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}

	ctx, span := telemetry.TraceFeedPage(c.Request.Context(), "global", page, pageSize)
	defer span.End()

	result, err := h.feed.Feed(ctx, userID, page, pageSize)
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUserPosts returns one page of a single author's posts
func (h *Handlers) GetUserPosts(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	page, pageSize, apiErr := util.ParsePagination(c)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}

	ctx, span := telemetry.TraceFeedPage(c.Request.Context(), "user", page, pageSize)
	defer span.End()

	result, err := h.feed.UserPosts(ctx, userID, c.Param("id"), page, pageSize)
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreatePost publishes a post and announces it to connected players
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req feed.CreatePostInput
	if !bindJSON(c, &req) {
		return
	}

	ctx, span := telemetry.TraceCreatePost(c.Request.Context(), userID, string(req.PostType))
	defer span.End()

	post, err := h.feed.CreatePost(ctx, userID, req)
	if err != nil {
		respondError(c, "feed", err)
		return
	}

	logger.Log.Info("Post created", logger.WithUserID(userID), logger.WithPostID(post.ID),
		zap.String("post_type", string(post.PostType)))
	h.notifier.PostCreated(post)
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *Handlers) GetPost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	post, err := h.feed.GetPost(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost removes a post; only its author may
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	if err := h.feed.DeletePost(c.Request.Context(), userID, postID); err != nil {
		respondError(c, "feed", err)
		return
	}
	logger.Log.Info("Post deleted", logger.WithUserID(userID), logger.WithPostID(postID))
	c.JSON(http.StatusOK, gin.H{"deleted": true, "post_id": postID})
}

// LikePost is idempotent
func (h *Handlers) LikePost(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	postID := c.Param("id")

	count, err := h.feed.Like(ctx, user.ID, postID)
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	if authorID, err := h.feed.PostAuthor(ctx, postID); err == nil {
		h.notifier.PostLiked(authorID, user, postID, count)
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "liked": true, "like_count": count})
}

func (h *Handlers) UnlikePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	count, err := h.feed.Unlike(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "liked": false, "like_count": count})
}

// GetComments returns a page of comments, oldest first
func (h *Handlers) GetComments(c *gin.Context) {
	page, pageSize, apiErr := util.ParsePagination(c)
	if apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}
	result, err := h.feed.Comments(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	postID := c.Param("id")
	comment, err := h.feed.AddComment(ctx, userID, postID, req.Content)
	if err != nil {
		respondError(c, "feed", err)
		return
	}
	if authorID, err := h.feed.PostAuthor(ctx, postID); err == nil {
		h.notifier.CommentAdded(authorID, comment)
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
