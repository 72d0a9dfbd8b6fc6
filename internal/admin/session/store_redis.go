package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"hackreg/pkg/platform/sentinel"
)

// Redis key prefix for admin sessions.
const sessionKeyPrefix = "admin:session:"

// RedisStore shares admin sessions across instances. Expiry is delegated to
// the key TTL, so an expired session is indistinguishable from an unknown
// one; both verify as not found.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, session Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	key := sessionKeyPrefix + session.Token
	// Store "1" as a simple marker; the key existence is what matters.
	return s.client.Set(ctx, key, "1", ttl).Err()
}

func (s *RedisStore) Verify(ctx context.Context, token string) error {
	key := sessionKeyPrefix + token
	_, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return sentinel.ErrNotFound
	}
	return err
}
