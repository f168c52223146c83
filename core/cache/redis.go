package cache

import (
	"context"
	"fmt"
	"time"

	"volunteer-events-api/core/config"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// ICache is the cache contract services depend on.
type ICache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	IncrementLoginAttempt(ctx context.Context, key string) error
	IsLoginBlocked(ctx context.Context, key string) (bool, error)

	AddToTokenBlacklist(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	Publish(ctx context.Context, channel string, message string) error
	Subscribe(ctx context.Context, channel string) <-chan string
}

type Cache struct {
	client *redis.Client
}

var instance *Cache

func GetCache() ICache {
	return instance
}

func InitCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)

	instance = &Cache{client: client}
	return instance, nil
}

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *Cache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// IncrementLoginAttempt counts a failed login. The first failure starts the
// block window; callers pass the fully prefixed key.
func (c *Cache) IncrementLoginAttempt(ctx context.Context, key string) error {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return c.client.Expire(ctx, key, constants.BlockDuration).Err()
	}
	return nil
}

func (c *Cache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	val, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val >= constants.MaxLoginAttempts, nil
}

func (c *Cache) AddToTokenBlacklist(ctx context.Context, token string) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", constants.BlockDuration*96).Err()
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	val, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return val > 0, nil
}

func (c *Cache) Publish(ctx context.Context, channel string, message string) error {
	return c.client.Publish(ctx, channel, message).Err()
}

// Subscribe returns a channel of message payloads. The channel closes when
// ctx is cancelled.
func (c *Cache) Subscribe(ctx context.Context, channel string) <-chan string {
	sub := c.client.Subscribe(ctx, channel)
	out := make(chan string)

	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				out <- msg.Payload
			}
		}
	}()

	return out
}
