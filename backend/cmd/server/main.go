package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside-app/courtside/backend/internal/assistant"
	"github.com/courtside-app/courtside/backend/internal/auth"
	"github.com/courtside-app/courtside/backend/internal/cache"
	"github.com/courtside-app/courtside/backend/internal/config"
	"github.com/courtside-app/courtside/backend/internal/database"
	"github.com/courtside-app/courtside/backend/internal/discovery"
	"github.com/courtside-app/courtside/backend/internal/email"
	"github.com/courtside-app/courtside/backend/internal/feed"
	"github.com/courtside-app/courtside/backend/internal/handlers"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/courtside-app/courtside/backend/internal/messaging"
	"github.com/courtside-app/courtside/backend/internal/middleware"
	"github.com/courtside-app/courtside/backend/internal/notify"
	"github.com/courtside-app/courtside/backend/internal/profile"
	"github.com/courtside-app/courtside/backend/internal/repository"
	"github.com/courtside-app/courtside/backend/internal/settings"
	"github.com/courtside-app/courtside/backend/internal/storage"
	"github.com/courtside-app/courtside/backend/internal/telemetry"
	"github.com/courtside-app/courtside/backend/internal/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	serviceName     = "courtside-backend"
	shutdownTimeout = 30 * time.Second
	feedCacheTTL    = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not up yet
		panic(err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Close()

	logger.Log.Info("=== Courtside server starting ===", zap.String("environment", cfg.Environment))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	tracing, err := telemetry.Setup(rootCtx, telemetry.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTelEndpoint,
		Enabled:      cfg.OTelEnabled,
	})
	if err != nil {
		logger.WarnWithFields("Tracing disabled: failed to initialize OpenTelemetry", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(ctx)
	}()

	// Database
	if err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel == "debug"); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()
	db := database.DB

	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}
	if tracing.Enabled() {
		if err := db.Use(telemetry.GORMTracingPlugin()); err != nil {
			logger.WarnWithFields("Failed to install GORM tracing plugin", err)
		}
	}

	// Cache: Redis in production, in-process fallback elsewhere
	var store cache.Store
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		if cfg.IsProduction() {
			logger.FatalWithFields("Failed to connect to Redis", err)
		}
		logger.WarnWithFields("Redis unavailable, using in-memory cache", err)
		store = cache.NewMemory()
	} else {
		defer redisClient.Close()
		store = redisClient
	}

	// Object storage
	var uploader storage.ImageUploader
	if cfg.AWSBucket != "" {
		s3Uploader, err := storage.NewS3Uploader(rootCtx, cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
		if err != nil {
			logger.WarnWithFields("Failed to initialize S3 uploader, image uploads disabled", err)
		} else {
			if err := s3Uploader.CheckBucketAccess(rootCtx); err != nil {
				logger.WarnWithFields("S3 bucket access check failed", err)
			}
			uploader = s3Uploader
		}
	} else {
		logger.Log.Warn("AWS_BUCKET not set, image uploads disabled")
	}

	// Email
	var mailer notify.Mailer
	if cfg.EmailEnabled {
		emailService, err := email.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, "Courtside", cfg.AppBaseURL)
		if err != nil {
			logger.WarnWithFields("Failed to initialize SES, offline message emails disabled", err)
		} else {
			mailer = emailService
		}
	}

	// Services
	authService := auth.NewService(db, cfg.JWTSecret, cfg.TokenTTL)
	feedService := feed.NewService(db)
	messagingService := messaging.NewService(db)
	settingsStore := settings.NewStore(db, store)

	var provider assistant.Provider
	if cfg.AssistantAPIKey != "" {
		provider = assistant.NewAnthropic(cfg.AssistantBaseURL, cfg.AssistantAPIKey, cfg.AssistantModel, 30*time.Second)
	}
	assistantService := assistant.NewService(provider, assistant.NewUserLimiter(3*time.Second, 3))
	go assistantService.RunSweeper(rootCtx, 10*time.Minute)
	logger.Log.Info("Assistant configured", zap.String("provider", assistantService.Provider()))

	// Realtime
	wsHub := websocket.NewHub()
	go wsHub.Run()

	wsHandler := websocket.NewHandler(wsHub, authService, originHosts(cfg.AllowedOrigins))
	wsHandler.SetPartnerLister(messagingService)
	wsHandler.RegisterDefaultHandlers()

	presenceManager := websocket.NewPresenceManager(wsHub, messagingService, db, websocket.DefaultPresenceConfig())
	wsHandler.SetPresenceManager(presenceManager)
	presenceManager.Start()
	defer presenceManager.Stop()

	notifier := notify.NewService(wsHub, mailer, settingsStore)

	h := handlers.NewHandlers(handlers.Services{
		Auth:      authService,
		Feed:      feedService,
		Messages:  messagingService,
		Profiles:  profile.NewService(repository.NewUserRepository(db), uploader, wsHub),
		Discovery: discovery.NewService(db),
		Assistant: assistantService,
		Settings:  settingsStore,
		Notifier:  notifier,
	})
	h.SetWebSocketHandler(wsHandler)
	h.SetFeedCache(middleware.NewResponseCache(store, "feed", feedCacheTTL))

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if tracing.Enabled() {
		r.Use(middleware.TracingMiddleware(serviceName))
		r.Use(middleware.SpanEnrichmentMiddleware())
	}
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/ws", "/metrics"})))

	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := database.Health(); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if err := store.Ping(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
			"websocket": wsHub.GetStats(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", middleware.NewRateLimiter(store, middleware.DefaultRateLimitConfig()).Middleware())
	h.RegisterRoutes(api, handlers.RouteMiddleware{
		Auth:        middleware.AuthMiddleware(authService),
		AuthLimit:   middleware.NewRateLimiter(store, middleware.AuthRateLimitConfig()).Middleware(),
		UploadLimit: middleware.NewRateLimiter(store, middleware.UploadRateLimitConfig()).Middleware(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Courtside backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopBackground()
	if err := wsHandler.Shutdown(ctx); err != nil {
		logger.WarnWithFields("WebSocket shutdown warning", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID", "X-Cache", "Retry-After"}
	return c
}

// originHosts turns CORS origins into the host patterns the websocket
// handshake matches against
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
