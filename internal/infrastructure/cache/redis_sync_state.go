// Package cache holds Redis-backed coordination state shared across
// instances: sync locks and last-run cursors for the vendor Q&A feed.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sellerdesk/backend/internal/infrastructure/config"
)

// RedisSyncStateStore stores Q&A sync coordination state in Redis. Locks use
// SETNX so two instances syncing the same account cannot overlap; the
// deterministic question ids make a lost race harmless, the lock just avoids
// burning vendor rate limit on duplicate work.
type RedisSyncStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSyncStateStore creates a store from connection settings
func NewRedisSyncStateStore(cfg *config.RedisConfig) (*RedisSyncStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSyncStateStoreWithClient(client, ""), nil
}

// NewRedisSyncStateStoreWithClient creates a store with an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisSyncStateStoreWithClient(client *redis.Client, keyPrefix string) *RedisSyncStateStore {
	if keyPrefix == "" {
		keyPrefix = "qna:sync:"
	}
	return &RedisSyncStateStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// AcquireLock claims the sync lock for one account. Returns false when
// another instance holds it.
func (s *RedisSyncStateStore) AcquireLock(ctx context.Context, tenantID, accountID uuid.UUID, ttl time.Duration) (bool, error) {
	key := s.lockKey(tenantID, accountID)
	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock releases the sync lock for one account
func (s *RedisSyncStateStore) ReleaseLock(ctx context.Context, tenantID, accountID uuid.UUID) error {
	if err := s.client.Del(ctx, s.lockKey(tenantID, accountID)).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// SetLastSyncAt records when the account's feed was last pulled
func (s *RedisSyncStateStore) SetLastSyncAt(ctx context.Context, tenantID, accountID uuid.UUID, at time.Time) error {
	key := s.cursorKey(tenantID, accountID)
	if err := s.client.Set(ctx, key, at.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("failed to store sync cursor: %w", err)
	}
	return nil
}

// LastSyncAt returns when the account's feed was last pulled; the zero time
// means it has never been synced.
func (s *RedisSyncStateStore) LastSyncAt(ctx context.Context, tenantID, accountID uuid.UUID) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.cursorKey(tenantID, accountID)).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read sync cursor: %w", err)
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse sync cursor: %w", err)
	}
	return at, nil
}

// Close closes the Redis client
func (s *RedisSyncStateStore) Close() error {
	return s.client.Close()
}

func (s *RedisSyncStateStore) lockKey(tenantID, accountID uuid.UUID) string {
	return fmt.Sprintf("%slock:%s:%s", s.keyPrefix, tenantID, accountID)
}

func (s *RedisSyncStateStore) cursorKey(tenantID, accountID uuid.UUID) string {
	return fmt.Sprintf("%scursor:%s:%s", s.keyPrefix, tenantID, accountID)
}
