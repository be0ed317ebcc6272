package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-demo/meet/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.GetAddr()),
		zap.Int("db", cfg.DB),
	)

	return client, nil
}

// Close closes the Redis connection
func Close(client *redis.Client, logger *zap.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	} else {
		logger.Info("Redis connection closed")
	}
}

// Cache provides common caching operations
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCache(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Set stores a value with expiration
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

// Delete removes a key
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Keys for the meet service
const (
	KeyRoomDetail    = "room:detail:%s"    // room:detail:{roomID}
	KeyRateLimitUser = "ratelimit:user:%s" // ratelimit:user:{userID}
	KeyRateLimitIP   = "ratelimit:ip:%s"   // ratelimit:ip:{ip}
)
