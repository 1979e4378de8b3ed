package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	cfg    config
}

var _ Cache = (*redisCache)(nil)

// NewRedis returns a Cache backed by Redis. The caller owns the
// redis.Client lifecycle.
func NewRedis(client *redis.Client, opts ...Option) Cache {
	return &redisCache{
		client: client,
		cfg:    applyOptions(opts),
	}
}

func (c *redisCache) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.cfg.queryTimeout)
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	qctx, cancel := c.queryCtx(ctx)
	defer cancel()
	data, err := c.client.Get(qctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	qctx, cancel := c.queryCtx(ctx)
	defer cancel()
	return c.client.Set(qctx, key, value, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) (bool, error) {
	qctx, cancel := c.queryCtx(ctx)
	defer cancel()
	deleted, err := c.client.Del(qctx, key).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
