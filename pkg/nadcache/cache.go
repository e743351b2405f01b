// Package nadcache caches NAD (network access device) names so enrichment
// does not re-fetch the same switch for every client behind it.
package nadcache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates the NAD ID was not found in the cache.
var ErrCacheMiss = errors.New("nad cache miss")

const (
	redisKeyPrefix = "agni:nad:"

	// Switch names change rarely; a long TTL keeps repeated runs cheap.
	redisTTL = 24 * time.Hour
)

// Store maps NAD IDs to device names.
type Store interface {
	Get(ctx context.Context, nadID string) (string, error)
	Put(ctx context.Context, nadID, name string) error
}

// MemoryStore is a process-local Store. Safe for concurrent workers.
type MemoryStore struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: make(map[string]string)}
}

// Get returns the cached name or ErrCacheMiss.
func (s *MemoryStore) Get(_ context.Context, nadID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[nadID]
	if !ok {
		return "", ErrCacheMiss
	}
	return name, nil
}

// Put stores a name.
func (s *MemoryStore) Put(_ context.Context, nadID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[nadID] = name
	return nil
}

// RedisStore shares NAD names across runs via Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing Redis client (for testing).
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the cached name or ErrCacheMiss.
func (s *RedisStore) Get(ctx context.Context, nadID string) (string, error) {
	name, err := s.client.Get(ctx, redisKeyPrefix+nadID).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// Put stores a name with the default TTL.
func (s *RedisStore) Put(ctx context.Context, nadID, name string) error {
	return s.client.Set(ctx, redisKeyPrefix+nadID, name, redisTTL).Err()
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
