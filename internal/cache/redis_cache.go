package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clients_backend/internal/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "_clients_"

// RedisCache stores JSON-encoded clients in Redis with a TTL.
type RedisCache struct {
	cli *redis.Client
	ttl time.Duration
}

func NewRedisCache(cli *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{cli: cli, ttl: ttl}
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return cli, nil
}

func (s *RedisCache) Get(ctx context.Context, key string) (*models.Client, error) {
	raw, err := s.cli.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var client models.Client
	if err := json.Unmarshal(raw, &client); err != nil {
		return nil, fmt.Errorf("invalid cached client %s: %w", key, err)
	}
	return &client, nil
}

func (s *RedisCache) Put(ctx context.Context, key string, client *models.Client) error {
	raw, err := json.Marshal(client)
	if err != nil {
		return err
	}
	return s.cli.Set(ctx, redisKeyPrefix+key, raw, s.ttl).Err()
}

func (s *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKeyPrefix + k
	}
	return s.cli.Del(ctx, prefixed...).Err()
}
