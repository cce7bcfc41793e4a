package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain Redis strings, optionally expiring.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisStore connects to url and pings the server once.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{Client: client, TTL: ttl}, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.Client.Set(ctx, key, value, s.TTL).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return b, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.Client.Close() }
