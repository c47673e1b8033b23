package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"campus_life/internal/domain"
	"campus_life/internal/listing"
)

// Directory is one client's set of listing pages plus the campus they are scoped to.
type Directory struct {
	Accommodations *listing.Accommodations
	Restaurants    *listing.Restaurants
	Clinics        *listing.Clinics

	rescope sync.Mutex

	mu      sync.Mutex
	campus  *domain.Campus
	touched time.Time
}

func NewDirectory(gw domain.Gateway) *Directory {
	return &Directory{
		Accommodations: listing.NewAccommodations(gw),
		Restaurants:    listing.NewRestaurants(gw),
		Clinics:        listing.NewClinics(gw),
		touched:        time.Now(),
	}
}

func (d *Directory) Campus() *domain.Campus {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.campus == nil {
		return nil
	}
	cp := *d.campus
	return &cp
}

// SetCampus rescopes all three pages and reloads them in parallel. persist, when set,
// stores the choice first; a persist error leaves the directory unchanged. Rescopes are
// serialized so the stored campus, Campus() and every page agree on the last one.
// A failed page keeps its own error state; it does not fail the others.
func (d *Directory) SetCampus(ctx context.Context, c *domain.Campus, persist func(context.Context) error) error {
	d.rescope.Lock()
	if persist != nil {
		if err := persist(ctx); err != nil {
			d.rescope.Unlock()
			return err
		}
	}
	d.scope(c)
	d.rescope.Unlock()

	var g errgroup.Group
	for _, p := range d.pages() {
		p := p
		g.Go(func() error {
			if err := p.load(ctx); err != nil && !errors.Is(err, listing.ErrStale) {
				log.Warn().Err(err).Str("domain", p.name).Msg("reload after campus change failed")
			}
			return nil
		})
	}
	return g.Wait()
}

// restore scopes the pages without loading them; each loads when first shown.
func (d *Directory) restore(c *domain.Campus) {
	d.rescope.Lock()
	defer d.rescope.Unlock()
	d.scope(c)
}

// scope must be called with rescope held.
func (d *Directory) scope(c *domain.Campus) {
	d.mu.Lock()
	d.campus = c
	d.mu.Unlock()
	for _, p := range d.pages() {
		p.use(c)
	}
}

func (d *Directory) touch(now time.Time) {
	d.mu.Lock()
	d.touched = now
	d.mu.Unlock()
}

func (d *Directory) idleSince() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touched
}

type page struct {
	name string
	use  func(*domain.Campus)
	load func(context.Context) error
}

func (d *Directory) pages() []page {
	return []page{
		{d.Accommodations.Domain(), d.Accommodations.UseCampus, d.Accommodations.Load},
		{d.Restaurants.Domain(), d.Restaurants.UseCampus, d.Restaurants.Load},
		{d.Clinics.Domain(), d.Clinics.UseCampus, d.Clinics.Load},
	}
}
