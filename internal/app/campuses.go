package app

import (
	"context"
	"fmt"
	"strings"

	"campus_life/internal/domain"
	"campus_life/internal/filter"
)

type CampusService struct {
	gw domain.Gateway
}

func NewCampusService(gw domain.Gateway) *CampusService {
	return &CampusService{gw: gw}
}

// List returns the campuses, restricted to one city when city is non-empty (case-insensitive).
func (s *CampusService) List(ctx context.Context, city string) ([]domain.Campus, error) {
	all, err := s.gw.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}
	city = strings.TrimSpace(city)
	out := make([]domain.Campus, 0, len(all))
	for _, c := range all {
		if city == "" || strings.EqualFold(c.City, city) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Cities lists the distinct campus cities in first-seen order.
func (s *CampusService) Cities(ctx context.Context) ([]string, error) {
	all, err := s.gw.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Distinct(all, func(c domain.Campus) []string { return []string{c.City} }), nil
}

func (s *CampusService) Find(ctx context.Context, id int64) (domain.Campus, error) {
	all, err := s.gw.ListCampuses(ctx)
	if err != nil {
		return domain.Campus{}, err
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Campus{}, fmt.Errorf("campus %d: %w", id, domain.ErrNotFound)
}
