package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in redis so they survive restarts and are shared
// across server instances. Expiry is enforced by the key TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(id), userID, TTL).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("resolve session: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session value %q: %w", val, err)
	}
	return userID, true, nil
}
