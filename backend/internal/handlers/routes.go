package handlers

import (
	"github.com/courtside-app/courtside/backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RouteMiddleware carries the middleware the route table attaches. Only Auth
// is required.
type RouteMiddleware struct {
	Auth        gin.HandlerFunc
	AuthLimit   gin.HandlerFunc
	UploadLimit gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// RegisterRoutes mounts the API on api, normally the /api/v1 group
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, mw RouteMiddleware) {
	var cacheRead, cacheInvalidate gin.HandlerFunc
	if h.feedCache != nil {
		cacheRead = h.feedCache.Middleware()
		cacheInvalidate = h.feedCache.InvalidateOnWrite()
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", chain(mw.AuthLimit, h.Register)...)
		authGroup.POST("/login", chain(mw.AuthLimit, h.Login)...)
		authGroup.GET("/me", mw.Auth, h.Me)
	}

	// the websocket handshake authenticates from the query string
	if h.wsHandler != nil {
		api.GET("/ws", h.wsHandler.HandleWebSocket)
	}

	authed := api.Group("", mw.Auth)

	authed.GET("/feed", chain(cacheRead, h.GetFeed)...)

	users := authed.Group("/users")
	{
		users.GET("/me", h.GetMyProfile)
		users.PUT("/me", chain(cacheInvalidate, h.UpdateMyProfile)...)
		users.POST("/me/avatar", chain(mw.UploadLimit, cacheInvalidate, h.UploadAvatar)...)
		users.GET("/:id", h.GetProfile)
		users.GET("/:id/posts", chain(cacheRead, h.GetUserPosts)...)
		if h.wsHandler != nil {
			users.POST("/online-status", h.wsHandler.HandleOnlineStatus)
		}
	}

	posts := authed.Group("/posts", chain(cacheInvalidate)...)
	{
		posts.POST("", h.CreatePost)
		posts.POST("/image", chain(mw.UploadLimit, h.UploadPostImage)...)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/like", h.LikePost)
		posts.DELETE("/:id/like", h.UnlikePost)
		posts.GET("/:id/comments", h.GetComments)
		posts.POST("/:id/comments", h.CreateComment)
	}

	messages := authed.Group("/messages")
	{
		messages.POST("", h.SendMessage)
		messages.GET("/conversations", h.GetConversations)
		messages.GET("/with/:user_id", h.GetThread)
		messages.POST("/with/:user_id/read", h.MarkThreadRead)
	}

	authed.GET("/discover/players", h.DiscoverPlayers)
	authed.POST("/assistant/chat", h.AssistantChat)

	settingsGroup := authed.Group("/settings")
	{
		settingsGroup.GET("", h.ListSettings)
		settingsGroup.GET("/:key", h.GetSetting)
		settingsGroup.PUT("/:key", h.PutSetting)
		settingsGroup.DELETE("/:key", h.DeleteSetting)
	}

	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/cache/stats", h.GetCacheStats)
		if h.wsHandler != nil {
			admin.GET("/ws/stats", h.wsHandler.HandleStats)
		}
	}
}
