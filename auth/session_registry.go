package auth

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// sessionKeyPattern is the literal key layout persisted in Redis.
const sessionKeyPattern = "session:%s"

// RedisSessionRegistry stores the current access token per user id in an
// expiring key. Put overwrites unconditionally, enforcing a single active
// session per user; last writer wins with no compare-and-swap. The registry
// is advisory: the verification middleware never reads it.
type RedisSessionRegistry struct {
	client *redis.Client
	logger Logger
}

// NewRedisSessionRegistry creates a registry backed by the given client
func NewRedisSessionRegistry(client *redis.Client) *RedisSessionRegistry {
	return &RedisSessionRegistry{
		client: client,
		logger: defLogger{},
	}
}

func (r *RedisSessionRegistry) WithLogger(l Logger) *RedisSessionRegistry {
	if l != nil {
		r.logger = l
	}
	return r
}

// Put records token as the live session for userID, replacing any prior entry
func (r *RedisSessionRegistry) Put(ctx context.Context, userID, token string, ttl time.Duration) error {
	key := sessionKey(userID)
	if err := r.client.Set(ctx, key, token, ttl).Err(); err != nil {
		r.logger.Error("failed to store session", "error", err, "user_id", userID)
		return wrapStoreError(err, "failed to store session")
	}
	return nil
}

// Get returns the live access token for userID, or ErrSessionNotFound
func (r *RedisSessionRegistry) Get(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		r.logger.Error("failed to read session", "error", err, "user_id", userID)
		return "", wrapStoreError(err, "failed to read session")
	}
	return token, nil
}

// Delete removes the session entry for userID. Deleting an absent key is not
// an error; logout stays idempotent.
func (r *RedisSessionRegistry) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		r.logger.Error("failed to delete session", "error", err, "user_id", userID)
		return wrapStoreError(err, "failed to delete session")
	}
	return nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf(sessionKeyPattern, userID)
}

var _ SessionRegistry = (*RedisSessionRegistry)(nil)
