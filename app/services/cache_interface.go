package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tisseo/mimirsbrunn/app/requests"
	"github.com/Tisseo/mimirsbrunn/app/responses"
)

// CacheStats reports hit/miss counters of a cache layer.
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService caches rendered autocomplete responses by request key.
type ICacheService interface {
	Get(ctx context.Context, key string) (*responses.AutocompleteResponse, bool, error)
	Set(ctx context.Context, key string, resp *responses.AutocompleteResponse) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetStats(ctx context.Context) (*CacheStats, error)
	Close() error
}

// CacheKey derives a stable cache key from the request parameters.
// Shape-constrained queries are never cached, callers skip the cache for
// those, so the shape does not participate in the key.
func CacheKey(p *requests.AutocompleteParams) string {
	var b strings.Builder
	b.WriteString(p.Q)
	fmt.Fprintf(&b, "|ds=%s|all=%t|l=%d|o=%d",
		strings.Join(p.Datasets, ","), p.AllData, p.Limit, p.Offset)
	if p.Lon != nil && p.Lat != nil {
		fmt.Fprintf(&b, "|c=%v;%v", *p.Lon, *p.Lat)
	}
	if len(p.Types) > 0 {
		fmt.Fprintf(&b, "|t=%s", strings.Join(p.Types, ","))
	}
	if p.Lang != "" {
		fmt.Fprintf(&b, "|lang=%s", p.Lang)
	}
	return b.String()
}
