package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/ytget/song-downloader/internal/model"
)

// Cache defaults
const (
	DefaultCacheSize = 128
	DefaultCacheTTL  = 10 * time.Minute
)

// CachedSearcher remembers recent results and shares in-flight searches.
// Failed searches are never cached.
type CachedSearcher struct {
	next  Searcher
	cache *expirable.LRU[string, []model.MenuItem]
	group singleflight.Group
}

// NewCachedSearcher wraps next with an LRU of the given size and entry TTL
func NewCachedSearcher(next Searcher, size int, ttl time.Duration) *CachedSearcher {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSearcher{
		next:  next,
		cache: expirable.NewLRU[string, []model.MenuItem](size, nil, ttl),
	}
}

// Search implements Searcher
func (c *CachedSearcher) Search(ctx context.Context, query string, limit int) ([]model.MenuItem, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	key := cacheKey(query, limit)

	if items, ok := c.cache.Get(key); ok {
		return cloneItems(items), nil
	}

	// The shared lookup outlives any single caller; each caller still
	// stops waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		items, err := c.next.Search(shared, query, limit)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, items)
		return items, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneItems(res.Val.([]model.MenuItem)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Purge drops all cached results
func (c *CachedSearcher) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached queries
func (c *CachedSearcher) Len() int {
	return c.cache.Len()
}

func cacheKey(query string, limit int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return strconv.Itoa(limit) + ":" + normalized
}

func cloneItems(items []model.MenuItem) []model.MenuItem {
	return append([]model.MenuItem(nil), items...)
}
