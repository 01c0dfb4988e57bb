package cache

import (
	"context"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "copilot:cache:"

// RedisStore keeps cache entries in Redis, for deployments where several
// instances should share one cache. Keys are written without expiry to
// match the sqlite backend's no-TTL semantics.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the given address (host:port).
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewRedisStoreFromClient wraps an existing client (tests use miniature or
// stub clients).
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the cached payload; connection or key errors are a miss.
func (s *RedisStore) Get(ctx context.Context, fingerprint string) ([]byte, bool) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+fingerprint).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Put stores the payload without expiry; errors are swallowed.
func (s *RedisStore) Put(ctx context.Context, fingerprint string, payload []byte) {
	_ = s.client.Set(ctx, redisKeyPrefix+fingerprint, payload, 0).Err()
}
