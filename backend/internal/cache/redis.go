package cache

import (
	"context"
	"time"

	"github.com/courtside-app/courtside/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is what Get returns for an absent key in either store
var ErrMiss = redis.Nil

// Store is the key-value surface the rate limiter and response cache use
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// IncrWindow increments key and returns the new count. The key expires
	// ttl after the increment that created it; zero ttl never expires.
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// incrWindow runs INCR and the first PEXPIRE as one step so a crash in
// between cannot leave a counter that never resets
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 and tonumber(ARGV[1]) > 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

const connectTimeout = 5 * time.Second

type RedisClient struct {
	client *redis.Client
}

var _ Store = (*RedisClient)(nil)

func redisOptions(addr, password string) *redis.Options {
	return &redis.Options{
		Addr:         addr,
		Password:     password,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisClient connects to addr and fails unless Redis answers a PING
func NewRedisClient(addr, password string) (*RedisClient, error) {
	client := redis.NewClient(redisOptions(addr, password))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Log.Info("Redis connected", zap.String("address", addr))
	return &RedisClient{client: client}, nil
}

func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

func (rc *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

func (rc *RedisClient) SetEx(ctx context.Context, key string, value string, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

func (rc *RedisClient) IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return incrWindow.Run(ctx, rc.client, []string{key}, ttl.Milliseconds()).Int64()
}

func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
