package directory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hxuan190/arb-engine/internal/adapters/sources"
	"github.com/hxuan190/arb-engine/internal/metrics"
)

// CatalogFetcher is the network side of the cache.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) ([]sources.CatalogEntry, error)
}

// CatalogCache holds the secondary source's full pool catalog process-wide.
// Population is single-flight: concurrent callers during a fetch await the
// same in-flight operation instead of issuing duplicates. A failed fetch
// leaves the cache invalidated so the next caller retries from scratch.
type CatalogCache struct {
	fetcher CatalogFetcher
	ttl     time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	entries   []sources.CatalogEntry
	byID      map[string]sources.CatalogEntry
	fetchedAt time.Time

	// onRefresh runs after each successful network fetch, outside the
	// cache lock. Used for snapshot persistence.
	onRefresh func(entries []sources.CatalogEntry, fetchedAt time.Time)
}

func NewCatalogCache(fetcher CatalogFetcher, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		fetcher: fetcher,
		ttl:     ttl,
	}
}

func (c *CatalogCache) SetOnRefresh(fn func(entries []sources.CatalogEntry, fetchedAt time.Time)) {
	c.onRefresh = fn
}

// Warm seeds the cache from a persisted snapshot. A stale snapshot is still
// useful: lookups work immediately and the TTL check forces a refresh on
// the first Get.
func (c *CatalogCache) Warm(entries []sources.CatalogEntry, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(entries, fetchedAt)
}

// Get returns the catalog, fetching it at most once regardless of how many
// callers arrive while the fetch is in flight.
func (c *CatalogCache) Get(ctx context.Context) ([]sources.CatalogEntry, error) {
	c.mu.RLock()
	if c.fresh() {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		// A waiter that lost the race may arrive after the winner
		// already stored a fresh catalog.
		c.mu.RLock()
		if c.fresh() {
			entries := c.entries
			c.mu.RUnlock()
			return entries, nil
		}
		c.mu.RUnlock()

		entries, err := c.fetcher.FetchCatalog(ctx)
		if err != nil {
			metrics.CatalogFetches.WithLabelValues("error").Inc()
			c.invalidate()
			return nil, err
		}
		metrics.CatalogFetches.WithLabelValues("ok").Inc()
		metrics.CatalogPoolCount.Set(float64(len(entries)))

		fetchedAt := time.Now()
		c.mu.Lock()
		c.store(entries, fetchedAt)
		c.mu.Unlock()

		log.Info().Int("count", len(entries)).Msg("[catalogCache] refreshed catalog")
		if c.onRefresh != nil {
			c.onRefresh(entries, fetchedAt)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]sources.CatalogEntry), nil
}

// HasPool reports whether a pool id exists in the cached catalog. It never
// triggers a fetch: verification runs against whatever the last successful
// population produced.
func (c *CatalogCache) HasPool(poolID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byID[poolID]
	return ok
}

// Lookup returns the cached entry for a pool id.
func (c *CatalogCache) Lookup(poolID string) (sources.CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.byID[poolID]
	return entry, ok
}

func (c *CatalogCache) fresh() bool {
	return !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl
}

func (c *CatalogCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

// store must run under the write lock.
func (c *CatalogCache) store(entries []sources.CatalogEntry, fetchedAt time.Time) {
	c.entries = entries
	c.fetchedAt = fetchedAt
	c.byID = make(map[string]sources.CatalogEntry, len(entries))
	for _, entry := range entries {
		c.byID[strconv.FormatInt(entry.PoolID, 10)] = entry
	}
}
