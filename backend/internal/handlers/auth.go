package handlers

import (
	"net/http"

	"github.com/courtside-app/courtside/backend/internal/auth"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// Register creates an account and returns a session token
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "auth", err)
		return
	}

	logger.Log.Info("User registered", logger.WithUserID(resp.User.ID))
	c.JSON(http.StatusCreated, resp)
}

// Login exchanges email and password for a session token
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, "auth", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
func (h *Handlers) Me(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
