package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rex-crm-client/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// Store stores JSON-encoded values in Redis.
type Store struct {
	client CacheClient
}

func NewStore(client CacheClient) *Store {
	return &Store{client: client}
}

// Set stores value under key with the given expiration.
func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to marshal value for key %s: %v", key, err)
		return NewCacheError("marshal", err, false)
	}

	start := time.Now()
	err = s.client.Set(ctx, key, data, expiration).Err()
	observe("set", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to set key %s: %v", key, err)
		return NewCacheError("set", err, true)
	}
	return nil
}

// Get decodes the value stored under key into dest. A missing key yields ErrMiss.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observe("get", start, nil)
		return ErrMiss
	}
	observe("get", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to get key %s: %v", key, err)
		return NewCacheError("get", err, true)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.GlobalLogger.Errorf("failed to unmarshal value for key %s: %v", key, err)
		return NewCacheError("unmarshal", err, false)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.client.Del(ctx, key).Err()
	observe("delete", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to delete key %s: %v", key, err)
		return NewCacheError("delete", err, true)
	}
	return nil
}

// index records key in the index set so it can be invalidated in bulk.
func (s *Store) index(ctx context.Context, indexKey, key string) error {
	start := time.Now()
	err := s.client.SAdd(ctx, indexKey, key).Err()
	observe("sadd", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to index key %s: %v", key, err)
		return NewCacheError("sadd", err, true)
	}
	return nil
}

// invalidate deletes every key recorded in the index set and returns how many were removed.
func (s *Store) invalidate(ctx context.Context, indexKey string) (int64, error) {
	start := time.Now()
	n, err := s.client.Eval(ctx, invalidateIndexScript, []string{indexKey}).Int64()
	observe("invalidate", start, err)
	if err != nil {
		logger.GlobalLogger.Errorf("failed to invalidate %s: %v", indexKey, err)
		return 0, NewCacheError("invalidate", err, true)
	}
	return n, nil
}
