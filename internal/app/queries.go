package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"campus_life/internal/domain"
)

// CachedGateway is a read-through cache in front of another Gateway.
// Cache failures degrade to a direct fetch; they are never returned.
type CachedGateway struct {
	next     domain.Gateway
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCachedGateway(next domain.Gateway, c domain.Cache, ttl time.Duration) *CachedGateway {
	return &CachedGateway{next: next, cache: c, cacheTTL: ttl}
}

func CacheKey(table string, s domain.Scope) string {
	return fmt.Sprintf("%s:%s", table, s.Key())
}

func (g *CachedGateway) ListCampuses(ctx context.Context) ([]domain.Campus, error) {
	return readThrough(ctx, g, TableCampuses, func() ([]domain.Campus, error) {
		return g.next.ListCampuses(ctx)
	})
}

func (g *CachedGateway) ListAccommodations(ctx context.Context, s domain.Scope) ([]domain.Accommodation, error) {
	return readThrough(ctx, g, CacheKey(TableAccommodations, s), func() ([]domain.Accommodation, error) {
		return g.next.ListAccommodations(ctx, s)
	})
}

func (g *CachedGateway) ListRestaurants(ctx context.Context, s domain.Scope) ([]domain.Restaurant, error) {
	return readThrough(ctx, g, CacheKey(TableRestaurants, s), func() ([]domain.Restaurant, error) {
		return g.next.ListRestaurants(ctx, s)
	})
}

func (g *CachedGateway) ListClinics(ctx context.Context, s domain.Scope) ([]domain.Clinic, error) {
	return readThrough(ctx, g, CacheKey(TableClinics, s), func() ([]domain.Clinic, error) {
		return g.next.ListClinics(ctx, s)
	})
}

// Invalidate evicts everything a refreshed campus may have changed.
func (g *CachedGateway) Invalidate(ctx context.Context, campusID int64) {
	invalidateCampus(ctx, g.cache, campusID)
}

func invalidateCampus(ctx context.Context, c domain.Cache, campusID int64) {
	id := campusID
	keys := []string{TableCampuses}
	for _, t := range []string{TableAccommodations, TableRestaurants, TableClinics} {
		keys = append(keys, CacheKey(t, domain.Scope{CampusID: &id}), CacheKey(t, domain.Scope{}))
	}
	for _, k := range keys {
		if err := c.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache evict failed")
		}
	}
}

func readThrough[T any](ctx context.Context, g *CachedGateway, key string, fetch func() ([]T, error)) ([]T, error) {
	var out []T
	if ok, err := g.cache.Get(ctx, key, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		return out, nil
	}

	recs, err := fetch()
	if err != nil {
		return nil, err
	}

	// copy slice to avoid aliasing the backing array of the wrapped gateway
	cp := append([]T{}, recs...)

	// payloads near a megabyte are served but not cached
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = g.cache.Set(ctx, key, cp, int(g.cacheTTL.Seconds()))
	}
	return cp, nil
}

var (
	_ domain.Gateway = (*CachedGateway)(nil)
	_ domain.Gateway = (*RemoteGateway)(nil)
)
