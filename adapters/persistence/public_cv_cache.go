package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

const publicCVKeyPrefix = "public_cv:"

type redisPublicCVCache struct {
	client *redis.Client
}

// NewRedisPublicCVCache stores redacted CVs as JSON keyed by share token.
func NewRedisPublicCVCache(client *redis.Client) service.PublicCVCache {
	return &redisPublicCVCache{client: client}
}

func (c *redisPublicCVCache) key(token string) string {
	return publicCVKeyPrefix + token
}

func (c *redisPublicCVCache) Get(ctx context.Context, token string) (*disclosure.PublicCV, bool, error) {
	data, err := c.client.Get(ctx, c.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperror.NewInternal("failed to read public cv cache", err)
	}

	var cv disclosure.PublicCV
	if err := json.Unmarshal(data, &cv); err != nil {
		return nil, false, apperror.NewInternal("failed to decode cached public cv", err)
	}
	return &cv, true, nil
}

func (c *redisPublicCVCache) Set(ctx context.Context, token string, cv *disclosure.PublicCV, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(cv)
	if err != nil {
		return apperror.NewInternal("failed to encode public cv", err)
	}
	if err := c.client.Set(ctx, c.key(token), data, ttl).Err(); err != nil {
		return apperror.NewInternal("failed to write public cv cache", err)
	}
	return nil
}

func (c *redisPublicCVCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, c.key(token)).Err(); err != nil {
		return apperror.NewInternal("failed to evict public cv cache", err)
	}
	return nil
}
