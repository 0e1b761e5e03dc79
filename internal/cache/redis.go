package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kavinnandha/patient-care/internal/config"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

type Cache struct {
	Db *redis.Client
}

func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.Initserver"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}

// BlacklistToken помечает токен отозванным на срок ttl. Запись живет не дольше
// естественного истечения токена, поэтому денилист не растет бесконечно.
func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	const op = "cache.BlacklistToken"
	if ttl <= 0 {
		// токен уже истёк, хранить запись незачем
		return nil
	}
	if err := c.Db.Set(ctx, blacklistPrefix+token, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsTokenBlacklisted сообщает, был ли токен отозван через logout.
func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	const op = "cache.IsTokenBlacklisted"
	count, err := c.Db.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count > 0, nil
}
