package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/errors"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readImage pulls the "image" form file and validates it
func readImage(c *gin.Context) ([]byte, string, string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, util.MaxImageBytes+1<<20)

	file, err := c.FormFile("image")
	if err != nil {
		util.RespondValidation(c, "image", "an image file is required")
		return nil, "", "", false
	}
	data, ext, contentType, err := util.ReadImageUpload(file)
	if err != nil {
		util.RespondValidation(c, "image", err.Error())
		return nil, "", "", false
	}
	return data, ext, contentType, true
}

// UploadAvatar replaces the caller's avatar
func (h *Handlers) UploadAvatar(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	if !h.profiles.CanUpload() {
		util.RespondWithAPIError(c, errors.ServiceUnavailable("image upload"))
		return
	}
	data, ext, contentType, ok := readImage(c)
	if !ok {
		return
	}

	me, err := h.profiles.UploadAvatar(c.Request.Context(), userID, data, ext, contentType)
	if err != nil {
		respondError(c, "storage", err)
		return
	}
	logger.Log.Info("Avatar uploaded", logger.WithUserID(userID), zap.Int("bytes", len(data)))
	c.JSON(http.StatusOK, gin.H{"user": me})
}

// UploadPostImage stores an image and returns the URL to attach to a post
func (h *Handlers) UploadPostImage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	if !h.profiles.CanUpload() {
		util.RespondWithAPIError(c, errors.ServiceUnavailable("image upload"))
		return
	}
	data, ext, contentType, ok := readImage(c)
	if !ok {
		return
	}

	url, err := h.profiles.UploadPostImage(c.Request.Context(), userID, data, ext, contentType)
	if err != nil {
		respondError(c, "storage", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
