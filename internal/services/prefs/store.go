package prefs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"github.com/qscuio/q-cf-bot/internal/config"
	"github.com/sirupsen/logrus"
)

// Store is the key-value capability preferences are persisted through.
// Get returns "" with a nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// NewStore builds the configured storage backend. A storage type of
// "none" (or empty) returns a nil Store; the Service degrades reads to
// defaults and rejects writes in that case.
func NewStore(cfg *config.StorageConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Type {
	case "redis":
		return NewRedisStore(&cfg.Redis, logger)
	case "memory":
		return NewMemoryStore(&cfg.Memory), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// RedisStore persists preferences in Redis.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStore(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, logger: logger}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, err
}

func (r *RedisStore) Put(ctx context.Context, key, value string) error {
	// Preferences never expire.
	return r.client.Set(ctx, key, value, 0).Err()
}

// MemoryStore keeps preferences in process memory. Suitable for single
// instance deployments and tests.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(cfg *config.MemoryConfig) *MemoryStore {
	expiration := cfg.DefaultExpiration
	if expiration == 0 {
		expiration = cache.NoExpiration
	}
	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{cache: cache.New(expiration, cleanup)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if val, found := m.cache.Get(key); found {
		return val.(string), nil
	}
	return "", nil
}

func (m *MemoryStore) Put(ctx context.Context, key, value string) error {
	m.cache.SetDefault(key, value)
	return nil
}
