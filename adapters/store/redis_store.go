package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// RedisStore is a TokenStore backed by Redis, for deployments where several
// console seats share one operator session.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) ports.TokenStore {
	return &RedisStore{
		client: client,
		prefix: "console:",
	}
}

// Set overwrites both tokens in a single MSET so readers never observe only
// one updated.
func (s *RedisStore) Set(ctx context.Context, access, refresh string) error {
	err := s.client.MSet(ctx,
		s.prefix+"accessToken", access,
		s.prefix+"refreshToken", refresh,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	return nil
}

// Access returns the stored access token.
func (s *RedisStore) Access(ctx context.Context) (string, error) {
	return s.get(ctx, s.prefix+"accessToken")
}

// Refresh returns the stored refresh token.
func (s *RedisStore) Refresh(ctx context.Context) (string, error) {
	return s.get(ctx, s.prefix+"refreshToken")
}

// Clear removes both tokens.
func (s *RedisStore) Clear(ctx context.Context) error {
	err := s.client.Del(ctx, s.prefix+"accessToken", s.prefix+"refreshToken").Err()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", core.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrStoreFailed, err)
	}
	return value, nil
}
