package sessionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dupereview/internal/config"
)

const redisKeyPrefix = "dupereview:session:"

// Redis stores sessions as plain string keys on a Redis server.
type Redis struct {
	client *redis.Client
}

// OpenRedis builds a client from the session configuration. The connection is
// established lazily; call Ping to verify it.
func OpenRedis(cfg *config.Config) *Redis {
	return NewRedis(redis.NewClient(&redis.Options{
		Addr:     cfg.Session.RedisAddr,
		Password: cfg.Session.RedisPassword,
		DB:       cfg.Session.RedisDB,
	}))
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ensureContext(ctx), redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", key, err)
	}
	return value, nil
}

// Put replaces the value stored under key with no expiry.
func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ensureContext(ctx), redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("write session %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ensureContext(ctx), redisKey(key)).Err(); err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ensureContext(ctx)).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
