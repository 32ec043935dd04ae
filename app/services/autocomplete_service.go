package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Tisseo/mimirsbrunn/app/requests"
	"github.com/Tisseo/mimirsbrunn/app/responses"
	"github.com/Tisseo/mimirsbrunn/internal/ranker"
	"github.com/Tisseo/mimirsbrunn/internal/search"
)

// AutocompleteService turns validated request parameters into one backend
// query and renders the ranked hits into a localized response.
type AutocompleteService struct {
	backend        search.Backend
	cache          ICacheService // nil disables caching
	defaultTimeout time.Duration
	maxTimeout     time.Duration
	logger         *zap.Logger
}

func NewAutocompleteService(backend search.Backend, cache ICacheService, defaultTimeout, maxTimeout time.Duration, logger *zap.Logger) *AutocompleteService {
	return &AutocompleteService{
		backend:        backend,
		cache:          cache,
		defaultTimeout: defaultTimeout,
		maxTimeout:     maxTimeout,
		logger:         logger,
	}
}

// Autocomplete plans and executes one query. shape is the already
// extracted containment ring in (lat, lon) order, nil for GET requests.
func (as *AutocompleteService) Autocomplete(ctx context.Context, p *requests.AutocompleteParams, shape [][2]float64) (*responses.AutocompleteResponse, error) {
	started := time.Now()

	coord, err := p.Coord()
	if err != nil {
		return nil, err
	}
	types, err := p.PlaceTypes()
	if err != nil {
		return nil, err
	}
	langs := p.Langs()

	// shape-constrained queries bypass the cache, the ring is not part
	// of the cache key
	useCache := as.cache != nil && shape == nil
	cacheKey := ""
	if useCache {
		cacheKey = CacheKey(p)
		if cached, found, err := as.cache.Get(ctx, cacheKey); err == nil && found {
			// the cached response is shared between callers, flag the
			// hit on a copy instead of writing through the pointer
			hit := *cached
			hit.CacheHit = true
			return &hit, nil
		}
	}

	q := search.Query{
		Text:     p.Q,
		Datasets: p.Datasets,
		AllData:  p.AllData,
		Types:    types,
		Limit:    p.Limit,
		Offset:   p.Offset,
		Coord:    coord,
		Shape:    shape,
		Timeout:  as.effectiveTimeout(p),
	}

	places, err := as.backend.Autocomplete(ctx, q)
	if err != nil {
		return nil, err
	}

	// backend scores tie easily on short prefixes, break ties by string
	// similarity to the typed text
	ranker.Rerank(places, p.Q)

	resp := &responses.AutocompleteResponse{
		Query:            p.Q,
		Places:           make([]responses.PlaceResponse, 0, len(places)),
		Total:            len(places),
		Limit:            p.Limit,
		Offset:           p.Offset,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}
	for _, place := range places {
		resp.Places = append(resp.Places, responses.NewPlaceResponse(place, langs))
	}

	if useCache {
		if err := as.cache.Set(ctx, cacheKey, resp); err != nil {
			as.logger.Warn("caching response failed", zap.Error(err))
		}
	}
	return resp, nil
}

// effectiveTimeout clamps a requested timeout to the server maximum and
// falls back to the server default when the caller gave none.
func (as *AutocompleteService) effectiveTimeout(p *requests.AutocompleteParams) time.Duration {
	requested, ok := p.Timeout()
	if !ok {
		return as.defaultTimeout
	}
	if requested > as.maxTimeout {
		return as.maxTimeout
	}
	return requested
}
