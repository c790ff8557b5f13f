package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis instance; expiry is delegated to
// Redis key TTLs, so sessions survive a server restart.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects a Redis-backed session store at addr. A non-positive
// ttl falls back to DefaultTTL.
func NewRedis(addr string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping verifies the connection; call it once at startup so a bad address
// fails fast instead of at the first login.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) Create(ctx context.Context, user string) (string, error) {
	token := uuid.NewString()
	if err := r.client.Set(ctx, sessionKey(token), user, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: create: %w", err)
	}
	return token, nil
}

func (r *Redis) User(ctx context.Context, token string) (string, error) {
	user, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("session: lookup: %w", err)
	}
	return user, nil
}

func (r *Redis) Destroy(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("emenu:session:%s", token)
}
