package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisDialTimeout = 2 * time.Second

// RedisStore is a Backend kept in Redis. Keys of one base URL are tracked in
// a set so Clear can remove them without scanning the keyspace.
type RedisStore struct {
	Client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Backend = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at rawURL (redis://host:port/db).
func NewRedisStore(rawURL, baseURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errors.New("redis address is empty")
	}
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opt.DialTimeout = redisDialTimeout
	opt.MaxRetries = 1
	return NewRedisStoreWithClient(redis.NewClient(opt), baseURL, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, baseURL string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		Client: client,
		prefix: "jmf:" + shortHash(baseURL, 6) + ":",
		ttl:    orDefault(ttl),
	}
}

func (s *RedisStore) keysSet() string {
	return s.prefix + "keys"
}

func (s *RedisStore) itemKey(key string) string {
	return s.prefix + shortHash(key, 10)
}

// Get returns the payload stored under key. Errors count as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if Disabled() {
		return nil, false
	}
	data, err := s.Client.Get(ctx, s.itemKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.DebugContext(ctx, "redis cache read failed", "error", err)
		}
		return nil, false
	}
	return data, true
}

// Put stores value under key with the store's TTL.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) {
	if Disabled() {
		return
	}
	item := s.itemKey(key)
	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, item, value, s.ttl)
	pipe.SAdd(ctx, s.keysSet(), item)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.DebugContext(ctx, "redis cache write failed", "error", err)
	}
}

// Clear removes every entry written for this store's base URL.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.Client.SMembers(ctx, s.keysSet()).Result()
	if err != nil {
		return fmt.Errorf("failed to list cached keys: %w", err)
	}
	keys = append(keys, s.keysSet())
	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to remove cached keys: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}
