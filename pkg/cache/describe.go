package cache

import (
	"context"
	"errors"
	"time"

	"rex-crm-client/pkg/logger"
	"rex-crm-client/pkg/metrics"
	"rex-crm-client/pkg/rex"
)

// DescribeCache keeps describe results per service for a fixed TTL.
type DescribeCache struct {
	store *Store
	ttl   time.Duration
}

func NewDescribeCache(client CacheClient, ttl time.Duration) *DescribeCache {
	return &DescribeCache{store: NewStore(client), ttl: ttl}
}

// Get returns the cached description of service. The boolean is false on a miss.
func (c *DescribeCache) Get(ctx context.Context, service string) (*rex.Description, bool, error) {
	var d rex.Description
	err := c.store.Get(ctx, DescribeKey(service), &d)
	switch {
	case errors.Is(err, ErrMiss):
		metrics.CacheMissesTotal.Inc()
		return nil, false, nil
	case err != nil:
		metrics.CacheMissesTotal.Inc()
		return nil, false, err
	}
	metrics.CacheHitsTotal.Inc()
	return &d, true, nil
}

// Set stores d for service.
func (c *DescribeCache) Set(ctx context.Context, service string, d *rex.Description) error {
	key := DescribeKey(service)
	if err := c.store.Set(ctx, key, d, c.ttl); err != nil {
		return err
	}
	return c.store.index(ctx, describeIndexKey, key)
}

// Invalidate drops every cached description.
func (c *DescribeCache) Invalidate(ctx context.Context) error {
	n, err := c.store.invalidate(ctx, describeIndexKey)
	if err != nil {
		return err
	}
	logger.GlobalLogger.Debugf("invalidated %d cached descriptions", n)
	return nil
}
