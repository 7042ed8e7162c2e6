package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tahlil-one/tahlil/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis compatible cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to cache: %v", err)
	} else {
		log.Printf("Successfully connected to cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Delete removes a value from the cache by key
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}

const LastSyncKey = "daily_analysis:last_sync"

// SyncStore keeps the time of the last successful sheet sync.
type SyncStore struct {
	rdb *redis.Client
	key string
}

func NewSyncStore(rdb *redis.Client) *SyncStore {
	return &SyncStore{rdb: rdb, key: LastSyncKey}
}

func (s *SyncStore) MarkSynced(ctx context.Context, at time.Time) error {
	return s.rdb.Set(ctx, s.key, at.UTC().Format(time.RFC3339), 0).Err()
}

// LastSynced returns nil when no sync has been recorded.
func (s *SyncStore) LastSynced(ctx context.Context) (*time.Time, error) {
	raw, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.key, err)
	}
	return &t, nil
}

// KV exposes Set, Get and Delete as an interface value for services that take one.
type KV struct{}

func (KV) Set(key string, value interface{}, expiration time.Duration) error {
	return Set(key, value, expiration)
}

func (KV) Get(key string) (string, error) {
	return Get(key)
}

func (KV) Delete(key string) error {
	return Delete(key)
}
