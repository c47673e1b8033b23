// Package listing holds the per-page state machine behind each directory listing:
// fetch scoped to a campus, keep the raw and filtered lists, track the detail selection.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"campus_life/internal/adapters/observability"
	"campus_life/internal/domain"
	"campus_life/internal/filter"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	// ErrStale is returned by Load when a newer load or a campus change superseded it.
	ErrStale = errors.New("load superseded")
)

type Record interface {
	RecordID() int64
}

// Loader fetches the records of one domain for a scope.
type Loader[T Record] func(ctx context.Context, s domain.Scope) ([]T, error)

type Config[T Record, C any] struct {
	// Domain is the plural noun used in messages and metric labels ("accommodations").
	Domain     string
	Loader     Loader[T]
	Predicates func(C) []filter.Predicate[T]
	Normalize  func(C) (C, []string)
}

// View is the snapshot handed to the presentation layer.
type View[T Record, C any] struct {
	Status   Status         `json:"status"`
	Campus   *domain.Campus `json:"campus"`
	Items    []T            `json:"items"`
	Total    int            `json:"total"`
	Empty    bool           `json:"empty"`
	Error    string         `json:"error,omitempty"`
	Message  string         `json:"message,omitempty"`
	Selected *T             `json:"selected"`
	Criteria C              `json:"criteria"`
}

type Controller[T Record, C any] struct {
	cfg Config[T, C]

	mu       sync.Mutex
	gen      uint64
	status   Status
	campus   *domain.Campus
	raw      []T
	filtered []T
	criteria C
	selected *T
	errMsg   string
}

func New[T Record, C any](cfg Config[T, C]) *Controller[T, C] {
	return &Controller[T, C]{
		cfg:      cfg,
		status:   StatusIdle,
		raw:      []T{},
		filtered: []T{},
	}
}

func (c *Controller[T, C]) Domain() string { return c.cfg.Domain }

// Load fetches the records for the current campus. The result of a load that was
// overtaken by another Load or a campus change is dropped and ErrStale returned.
func (c *Controller[T, C]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	campus := c.campus
	c.status = StatusLoading
	c.errMsg = ""
	c.mu.Unlock()

	recs, err := c.cfg.Loader(ctx, domain.ScopeFor(campus))

	c.mu.Lock()
	defer c.mu.Unlock()

	// Whatever bumped gen (a newer Load or a campus change) already set the status.
	if gen != c.gen {
		observability.ObserveLoad(c.cfg.Domain, "stale")
		log.Debug().Str("domain", c.cfg.Domain).Uint64("gen", gen).Uint64("current", c.gen).
			Msg("discarding stale load")
		return ErrStale
	}

	if err != nil {
		c.status = StatusFailed
		c.errMsg = fmt.Sprintf("Failed to load %s", c.cfg.Domain)
		c.raw, c.filtered = []T{}, []T{}
		c.selected = nil
		observability.ObserveLoad(c.cfg.Domain, "failed")
		log.Warn().Err(err).Str("domain", c.cfg.Domain).Str("scope", domain.ScopeFor(campus).Key()).
			Msg("listing load failed")
		return err
	}

	if recs == nil {
		recs = []T{}
	}
	c.status = StatusLoaded
	c.raw = recs
	var zero C
	c.criteria = zero
	c.filtered = filter.Apply(c.raw)
	if c.selected != nil && c.find((*c.selected).RecordID()) == nil {
		c.selected = nil
	}
	observability.ObserveLoad(c.cfg.Domain, "loaded")
	log.Debug().Str("domain", c.cfg.Domain).Int("count", len(recs)).Msg("listing loaded")
	return nil
}

// EnsureLoaded loads once, the first time a page is shown.
func (c *Controller[T, C]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	idle := c.status == StatusIdle
	c.mu.Unlock()
	if !idle {
		return nil
	}
	return c.Load(ctx)
}

// SetCampus rescopes the controller and reloads. A nil campus lists every campus.
func (c *Controller[T, C]) SetCampus(ctx context.Context, campus *domain.Campus) error {
	c.UseCampus(campus)
	return c.Load(ctx)
}

// UseCampus sets the campus the next Load is scoped to, without loading. Moving to a
// different campus drops the old campus' records and any load still in flight, and
// returns the page to idle so the next EnsureLoaded fetches again.
func (c *Controller[T, C]) UseCampus(campus *domain.Campus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if campus != nil {
		cp := *campus
		campus = &cp
	}
	changed := domain.ScopeFor(campus).Key() != domain.ScopeFor(c.campus).Key()
	c.campus = campus
	if !changed {
		return
	}
	c.gen++
	c.status = StatusIdle
	c.errMsg = ""
	c.raw, c.filtered = []T{}, []T{}
	c.selected = nil
	var zero C
	c.criteria = zero
}

// ApplyFilters always filters the raw list; criteria never accumulate.
func (c *Controller[T, C]) ApplyFilters(criteria C) {
	var warns []string
	if c.cfg.Normalize != nil {
		criteria, warns = c.cfg.Normalize(criteria)
	}
	if len(warns) > 0 {
		log.Debug().Str("domain", c.cfg.Domain).Strs("ignored", warns).Msg("criteria fields ignored")
	}
	preds := c.cfg.Predicates(criteria)

	c.mu.Lock()
	c.criteria = criteria
	c.filtered = filter.Apply(c.raw, preds...)
	c.mu.Unlock()
	observability.ObserveFilter(c.cfg.Domain, "apply")
}

func (c *Controller[T, C]) ResetFilters() {
	c.mu.Lock()
	var zero C
	c.criteria = zero
	c.filtered = filter.Apply(c.raw)
	c.mu.Unlock()
	observability.ObserveFilter(c.cfg.Domain, "reset")
}

func (c *Controller[T, C]) SelectRecord(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.find(id)
	if r == nil {
		return fmt.Errorf("%s %d: %w", c.cfg.Domain, id, ErrRecordNotFound)
	}
	cp := *r
	c.selected = &cp
	return nil
}

func (c *Controller[T, C]) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// Records returns a copy of the unfiltered list.
func (c *Controller[T, C]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T{}, c.raw...)
}

func (c *Controller[T, C]) View() View[T, C] {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View[T, C]{
		Status:   c.status,
		Items:    append([]T{}, c.filtered...),
		Total:    len(c.raw),
		Error:    c.errMsg,
		Criteria: c.criteria,
	}
	if c.status == StatusLoaded && len(c.filtered) == 0 {
		v.Empty = true
		v.Message = fmt.Sprintf("No %s match your filters. Try adjusting your criteria.", c.cfg.Domain)
	}
	if c.campus != nil {
		cp := *c.campus
		v.Campus = &cp
	}
	if c.selected != nil {
		cp := *c.selected
		v.Selected = &cp
	}
	return v
}

// find must be called with mu held.
func (c *Controller[T, C]) find(id int64) *T {
	for i := range c.raw {
		if c.raw[i].RecordID() == id {
			return &c.raw[i]
		}
	}
	return nil
}
