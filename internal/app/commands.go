package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"campus_life/internal/domain"
)

// IngestionService mirrors the hosted directory into the local repository.
type IngestionService struct {
	src   domain.Gateway
	repo  domain.DirectoryRepository
	cache domain.Cache
}

func NewIngestionService(src domain.Gateway, r domain.DirectoryRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{src: src, repo: r, cache: cache}
}

// IngestAll mirrors every campus, at most workers campuses at a time.
// It returns the number of campuses that failed.
func (s *IngestionService) IngestAll(ctx context.Context, workers int) (int, error) {
	campuses, err := s.src.ListCampuses(ctx)
	if err != nil {
		return 0, fmt.Errorf("list campuses: %w", err)
	}
	if workers <= 0 {
		workers = 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, c := range campuses {
		// the slot is held for the goroutine's lifetime
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return failed, err
		}
		wg.Add(1)
		go func(c domain.Campus) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.IngestCampus(ctx, c); err != nil {
				log.Warn().Int64("campus", c.ID).Err(err).Msg("ingest failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Info().Int64("campus", c.ID).Msg("ingest ok")
		}(c)
	}
	wg.Wait()
	return failed, nil
}

// IngestCampus upserts the campus and replaces its three listings. A listing the backend
// refuses (404/401/403) is logged as a miss and left untouched.
func (s *IngestionService) IngestCampus(ctx context.Context, c domain.Campus) error {
	// Parent upsert first to satisfy FK for the listings.
	if err := s.repo.UpsertCampus(ctx, c); err != nil {
		return err
	}
	scope := domain.ScopeFor(&c)

	var (
		accs    []domain.Accommodation
		rests   []domain.Restaurant
		clinics []domain.Clinic
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetch(ctx, c.ID, TableAccommodations, func() error {
			var err error
			accs, err = s.src.ListAccommodations(gctx, scope)
			if err == nil && accs == nil {
				accs = []domain.Accommodation{}
			}
			return err
		})
	})
	g.Go(func() error {
		return s.fetch(ctx, c.ID, TableRestaurants, func() error {
			var err error
			rests, err = s.src.ListRestaurants(gctx, scope)
			if err == nil && rests == nil {
				rests = []domain.Restaurant{}
			}
			return err
		})
	})
	g.Go(func() error {
		return s.fetch(ctx, c.ID, TableClinics, func() error {
			var err error
			clinics, err = s.src.ListClinics(gctx, scope)
			if err == nil && clinics == nil {
				clinics = []domain.Clinic{}
			}
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// nil means the fetch was a miss; an empty slice still replaces.
	if accs != nil {
		if err := s.repo.ReplaceAccommodations(ctx, c.ID, accs); err != nil {
			return fmt.Errorf("replace accommodations for %d: %w", c.ID, err)
		}
	}
	if rests != nil {
		if err := s.repo.ReplaceRestaurants(ctx, c.ID, rests); err != nil {
			return fmt.Errorf("replace restaurants for %d: %w", c.ID, err)
		}
	}
	if clinics != nil {
		if err := s.repo.ReplaceClinics(ctx, c.ID, clinics); err != nil {
			return fmt.Errorf("replace clinics for %d: %w", c.ID, err)
		}
	}

	if s.cache != nil {
		invalidateCampus(ctx, s.cache, c.ID)
	}
	return nil
}

// fetch runs one listing fetch, turning known refusals into logged misses.
func (s *IngestionService) fetch(ctx context.Context, campusID int64, table string, do func() error) error {
	err := do()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		_ = s.repo.LogMiss(ctx, campusID, table, 404, "not found")
		return nil
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		_ = s.repo.LogMiss(ctx, campusID, table, 403, "unauthorized")
		return nil
	}
	return fmt.Errorf("%s for campus %d: %w", table, campusID, err)
}
