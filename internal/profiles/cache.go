package profiles

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// fetchChunkSize bounds the number of columns requested per engine call so a
// wide selection is split into several smaller profiling requests.
const fetchChunkSize = 8

// Source provides column profiles for an upload. Implemented by the engine client.
type Source interface {
	Profile(ctx context.Context, uploadID string, columns []string, sampleSize int) (map[string]ColumnProfile, error)
}

// Cache is a keyed store of column profiles. Merge is a commutative upsert by
// column name, so partial or out-of-order fetch responses cannot corrupt
// entries for other columns.
type Cache struct {
	mu       sync.RWMutex
	profiles map[string]ColumnProfile
}

// NewCache creates an empty profile cache.
func NewCache() *Cache {
	return &Cache{
		profiles: make(map[string]ColumnProfile),
	}
}

// Merge upserts the given profiles by column name.
func (c *Cache) Merge(results map[string]ColumnProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for column, profile := range results {
		c.profiles[column] = profile
	}
}

// Get returns the cached profile for a column.
func (c *Cache) Get(column string) (ColumnProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.profiles[column]
	return p, ok
}

// Len returns the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.profiles)
}

// Snapshot returns a copy of all cached profiles.
func (c *Cache) Snapshot() map[string]ColumnProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]ColumnProfile, len(c.profiles))
	for column, profile := range c.profiles {
		out[column] = profile
	}
	return out
}

// Missing returns the subset of columns that have no cached profile,
// preserving input order.
func (c *Cache) Missing(columns []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	missing := make([]string, 0, len(columns))
	for _, column := range columns {
		if _, ok := c.profiles[column]; !ok {
			missing = append(missing, column)
		}
	}
	return missing
}

// Fetch requests profiles for any of the given columns not already cached and
// merges the results. Wide selections are chunked and fetched concurrently;
// chunks that complete before a failure remain cached. Fetch does not retry;
// the caller re-invokes it explicitly after a failure.
func (c *Cache) Fetch(ctx context.Context, src Source, uploadID string, columns []string, sampleSize int) error {
	missing := c.Missing(columns)
	if len(missing) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for chunk := range chunked(missing, fetchChunkSize) {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			results, err := src.Profile(gctx, uploadID, chunk, sampleSize)
			if err != nil {
				return fmt.Errorf("profile columns %v: %w", chunk, err)
			}

			c.Merge(results)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return nil
}

// FetchOne requests the profile for a single uncached column, used when a
// column is added to the selection after the initial batch.
func (c *Cache) FetchOne(ctx context.Context, src Source, uploadID, column string, sampleSize int) error {
	if _, ok := c.Get(column); ok {
		return nil
	}

	results, err := src.Profile(ctx, uploadID, []string{column}, sampleSize)
	if err != nil {
		return fmt.Errorf("%w: profile column %s: %w", ErrFetchFailed, column, err)
	}

	c.Merge(results)
	return nil
}

func chunked(items []string, size int) func(yield func([]string) bool) {
	return func(yield func([]string) bool) {
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end]) {
				return
			}
		}
	}
}
