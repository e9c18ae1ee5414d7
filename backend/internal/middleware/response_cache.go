package middleware

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/courtside-app/courtside/backend/internal/cache"
	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cacheHeader = "X-Cache"

// ResponseCache caches successful GET responses per user, path and query.
// Invalidate bumps a version number that is part of every key, so stale
// pages are never served and simply age out.
type ResponseCache struct {
	store cache.Store
	name  string
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is the hit/miss summary served on the admin endpoint
type CacheStats struct {
	Name     string  `json:"name"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	TTL      string  `json:"ttl"`
}

// NewResponseCache returns a cache named name. A nil store disables caching
// but keeps the middleware usable.
func NewResponseCache(store cache.Store, name string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{store: store, name: name, ttl: ttl}
}

func (rc *ResponseCache) versionKey() string {
	return "response:" + rc.name + ":version"
}

func (rc *ResponseCache) version(ctx context.Context) string {
	v, err := rc.store.Get(ctx, rc.versionKey())
	if err != nil {
		return "0"
	}
	return v
}

// Middleware must run after AuthMiddleware so responses are keyed per user
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || rc.store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("response:%s:v%s:%s:%s:%s",
			rc.name, rc.version(ctx), c.Request.URL.Path, c.Request.URL.RawQuery, c.GetString("user_id"))

		cached, err := rc.store.Get(ctx, key)
		if err == nil {
			rc.hits.Add(1)
			RecordCacheHit(rc.name)
			c.Header(cacheHeader, "HIT")
			c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(rc.ttl.Seconds())))
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}
		if !stderrors.Is(err, cache.ErrMiss) {
			logger.Log.Debug("Response cache read failed", zap.String("key", key), zap.Error(err))
		}

		rc.misses.Add(1)
		RecordCacheMiss(rc.name)
		c.Header(cacheHeader, "MISS")
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(rc.ttl.Seconds())))

		writer := &cachedResponseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 || writer.body.Len() == 0 {
			return
		}
		if err := rc.store.SetEx(ctx, key, writer.body.String(), rc.ttl); err != nil {
			logger.Log.Debug("Failed to write response to cache", zap.String("key", key), zap.Error(err))
		}
	}
}

// Invalidate makes every cached page stale
func (rc *ResponseCache) Invalidate(ctx context.Context) {
	if rc.store == nil {
		return
	}
	if _, err := rc.store.IncrWindow(ctx, rc.versionKey(), 0); err != nil {
		logger.Log.Warn("Failed to bump response cache version", zap.String("cache", rc.name), zap.Error(err))
	}
}

// InvalidateOnWrite bumps the version after a successful POST, PUT or DELETE
func (rc *ResponseCache) InvalidateOnWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			return
		}
		if status := c.Writer.Status(); status >= 200 && status < 400 {
			rc.Invalidate(c.Request.Context())
		}
	}
}

func (rc *ResponseCache) Stats() CacheStats {
	hits, misses := rc.hits.Load(), rc.misses.Load()
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return CacheStats{Name: rc.name, Hits: hits, Misses: misses, HitRatio: ratio, TTL: rc.ttl.String()}
}

// cachedResponseWriter captures the body as it is written
type cachedResponseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cachedResponseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cachedResponseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
