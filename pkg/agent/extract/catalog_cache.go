package extract

import (
	"context"
	"sync"
	"time"

	"ai-concierge-be/pkg/booking"
)

// CatalogTTL is how long a fetched catalog stays fresh.
const CatalogTTL = 5 * time.Minute

// FetchFunc retrieves the current catalog from the booking provider.
type FetchFunc func(ctx context.Context) (*booking.Catalog, error)

type cacheEntry struct {
	value     *booking.Catalog
	fetchedAt time.Time
}

// CatalogCache memoizes the provider's catalog for a bounded duration so the
// extractor does not refetch on every call. The clock is injectable so expiry
// is testable deterministically.
type CatalogCache struct {
	mu    sync.Mutex
	entry *cacheEntry
	ttl   time.Duration
	now   func() time.Time
	fetch FetchFunc
}

// NewCatalogCache creates a cache with the default TTL and wall clock.
func NewCatalogCache(fetch FetchFunc) *CatalogCache {
	return &CatalogCache{
		ttl:   CatalogTTL,
		now:   time.Now,
		fetch: fetch,
	}
}

// NewCatalogCacheWithClock allows tests to control time and TTL.
func NewCatalogCacheWithClock(fetch FetchFunc, ttl time.Duration, now func() time.Time) *CatalogCache {
	return &CatalogCache{
		ttl:   ttl,
		now:   now,
		fetch: fetch,
	}
}

// Get returns the cached catalog if still fresh, refetching otherwise.
// A hit is revalidated against the clock before reuse.
func (c *CatalogCache) Get(ctx context.Context) (*booking.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil && c.now().Sub(c.entry.fetchedAt) < c.ttl {
		return c.entry.value, nil
	}

	value, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.entry = &cacheEntry{value: value, fetchedAt: c.now()}
	return value, nil
}

// Invalidate discards the cached entry.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}
