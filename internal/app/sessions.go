package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"campus_life/internal/adapters/observability"
	"campus_life/internal/domain"
)

// Sessions keeps one Directory per client session.
type Sessions struct {
	gw       domain.Gateway
	store    domain.CampusStore
	campuses *CampusService
	ttl      time.Duration
	now      func() time.Time

	mu   sync.Mutex
	dirs map[string]*Directory
}

func NewSessions(gw domain.Gateway, store domain.CampusStore, ttl time.Duration) *Sessions {
	return &Sessions{
		gw:       gw,
		store:    store,
		campuses: NewCampusService(gw),
		ttl:      ttl,
		now:      time.Now,
		dirs:     map[string]*Directory{},
	}
}

// Get returns the session's directory, creating it on first use with the campus
// restored from the store. A directory is only published once restored.
func (s *Sessions) Get(ctx context.Context, session string) *Directory {
	s.mu.Lock()
	d, ok := s.dirs[session]
	s.mu.Unlock()

	if !ok {
		fresh := NewDirectory(s.gw)
		c, found, err := s.store.Load(ctx, session)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("session", session).Msg("campus restore failed")
		case found:
			fresh.restore(&c)
		}

		s.mu.Lock()
		if d, ok = s.dirs[session]; !ok {
			d = fresh
			s.dirs[session] = d
			observability.ActiveSessions.Set(float64(len(s.dirs)))
		}
		s.mu.Unlock()
	}
	d.touch(s.now())
	return d
}

// SelectCampus persists the campus for the session and reloads its pages.
func (s *Sessions) SelectCampus(ctx context.Context, session string, campusID int64) (domain.Campus, error) {
	c, err := s.campuses.Find(ctx, campusID)
	if err != nil {
		return domain.Campus{}, err
	}
	err = s.Get(ctx, session).SetCampus(ctx, &c, func(ctx context.Context) error {
		if err := s.store.Save(ctx, session, c); err != nil {
			return fmt.Errorf("save campus: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Campus{}, err
	}
	return c, nil
}

func (s *Sessions) ClearCampus(ctx context.Context, session string) error {
	return s.Get(ctx, session).SetCampus(ctx, nil, func(ctx context.Context) error {
		if err := s.store.Clear(ctx, session); err != nil {
			return fmt.Errorf("clear campus: %w", err)
		}
		return nil
	})
}

// Drop forgets the session entirely, including its stored campus.
func (s *Sessions) Drop(ctx context.Context, session string) error {
	s.mu.Lock()
	delete(s.dirs, session)
	observability.ActiveSessions.Set(float64(len(s.dirs)))
	s.mu.Unlock()
	return s.store.Clear(ctx, session)
}

// Sweep evicts directories idle for longer than the TTL. The stored campus survives
// and is restored on the next request.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, d := range s.dirs {
		if d.idleSince().Before(cutoff) {
			delete(s.dirs, id)
			n++
		}
	}
	observability.ActiveSessions.Set(float64(len(s.dirs)))
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirs)
}
