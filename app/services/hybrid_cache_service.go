package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/responses"
)

// HybridCacheService layers the in-process LRU (L1) over Redis (L2).
// A Redis outage degrades to L1-only behavior instead of failing queries.
type HybridCacheService struct {
	l1     *LRUCacheService
	l2     *RedisCacheService
	logger *zap.Logger
}

func NewHybridCacheService(l1 *LRUCacheService, l2 *RedisCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{l1: l1, l2: l2, logger: logger}
}

// Get checks L1 first, then Redis. A Redis hit is promoted to L1 in the
// background so the next lookup on this instance stays local.
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*responses.AutocompleteResponse, bool, error) {
	resp, found, err := hcs.l1.Get(ctx, key)
	if err == nil && found {
		return resp, true, nil
	}

	resp, found, err = hcs.l2.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("redis cache unavailable", zap.Error(err))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hcs.l1.Set(bgCtx, key, resp); err != nil {
			hcs.logger.Warn("promote to l1 failed", zap.Error(err), zap.String("key", key))
		}
	}()

	return resp, true, nil
}

// Set writes both layers; a Redis failure is logged, not returned.
func (hcs *HybridCacheService) Set(ctx context.Context, key string, resp *responses.AutocompleteResponse) error {
	if err := hcs.l1.Set(ctx, key, resp); err != nil {
		return err
	}
	if err := hcs.l2.Set(ctx, key, resp); err != nil {
		hcs.logger.Warn("redis set failed", zap.Error(err), zap.String("key", key))
	}
	return nil
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	if err := hcs.l1.Delete(ctx, key); err != nil {
		return err
	}
	return hcs.l2.Delete(ctx, key)
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := hcs.l1.Clear(ctx); err != nil {
		return err
	}
	return hcs.l2.Clear(ctx)
}

// GetStats merges both layers; hit counters are summed.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	s1, err := hcs.l1.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	s2, err := hcs.l2.GetStats(ctx)
	if err != nil {
		return s1, nil
	}

	hits := s1.TotalHits + s2.TotalHits
	misses := s1.TotalMiss + s2.TotalMiss
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return &CacheStats{
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: s2.TotalItems,
	}, nil
}

func (hcs *HybridCacheService) Close() error {
	if err := hcs.l1.Close(); err != nil {
		return err
	}
	return hcs.l2.Close()
}
