package source

import (
	"context"
	"sync"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/logger"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/pkg/metrics"
)

// Cache memoizes a Loader's dataset for a TTL. Concurrent callers share one
// in-flight fetch; a zero TTL disables memoization.
type Cache struct {
	loader Loader
	ttl    time.Duration
	log    logger.Logger

	mu        sync.Mutex
	ds        *dataset.Dataset
	fetchedAt time.Time
}

// NewCache wraps a loader with TTL memoization.
func NewCache(loader Loader, ttl time.Duration) *Cache {
	return &Cache{
		loader: loader,
		ttl:    ttl,
		log:    logger.Named("cache"),
	}
}

// Load returns the memoized dataset while it is fresh, otherwise delegates
// to the inner loader. A failed refresh is returned to the caller and the
// stale entry is discarded.
func (c *Cache) Load(ctx context.Context) (*dataset.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ds != nil && c.ttl > 0 && time.Since(c.fetchedAt) < c.ttl {
		metrics.RecordCacheHit()
		return c.ds, nil
	}
	metrics.RecordCacheMiss()

	ds, err := c.loader.Load(ctx)
	if err != nil {
		c.ds = nil
		return nil, err
	}

	c.ds = ds
	c.fetchedAt = time.Now()
	c.log.Debug(ctx, "dataset cached",
		logger.Int("rows", ds.Len()),
		logger.Duration("ttl", c.ttl),
	)
	return ds, nil
}

// Invalidate drops the memoized dataset so the next Load refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ds = nil
}
