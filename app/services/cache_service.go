package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Tisseo/mimirsbrunn/app/responses"
)

// LRUCacheService is the in-process response cache. Entries expire after
// the configured TTL and the least recently used ones are evicted once the
// size cap is reached.
type LRUCacheService struct {
	cache *expirable.LRU[string, *responses.AutocompleteResponse]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRUCacheService builds an LRU cache holding up to size responses.
func NewLRUCacheService(size int, ttl time.Duration) *LRUCacheService {
	return &LRUCacheService{
		cache: expirable.NewLRU[string, *responses.AutocompleteResponse](size, nil, ttl),
	}
}

func (cs *LRUCacheService) Get(ctx context.Context, key string) (*responses.AutocompleteResponse, bool, error) {
	resp, ok := cs.cache.Get(key)
	if !ok {
		cs.misses.Add(1)
		return nil, false, nil
	}
	cs.hits.Add(1)
	return resp, true, nil
}

func (cs *LRUCacheService) Set(ctx context.Context, key string, resp *responses.AutocompleteResponse) error {
	cs.cache.Add(key, resp)
	return nil
}

func (cs *LRUCacheService) Delete(ctx context.Context, key string) error {
	cs.cache.Remove(key)
	return nil
}

func (cs *LRUCacheService) Clear(ctx context.Context) error {
	cs.cache.Purge()
	return nil
}

func (cs *LRUCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := cs.hits.Load(), cs.misses.Load()
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return &CacheStats{
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(cs.cache.Len()),
	}, nil
}

func (cs *LRUCacheService) Close() error { return nil }
