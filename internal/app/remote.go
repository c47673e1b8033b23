package app

import (
	"context"

	"campus_life/internal/domain"
)

// Directory tables in the hosted backend.
const (
	TableCampuses       = "campuses"
	TableAccommodations = "accommodations"
	TableRestaurants    = "restaurants"
	TableClinics        = "clinics"
)

// RemoteGateway reads the directory straight from the hosted backend, mapping loosely
// shaped rows onto domain records.
type RemoteGateway struct {
	client domain.DirectoryClient
}

func NewRemoteGateway(c domain.DirectoryClient) *RemoteGateway {
	return &RemoteGateway{client: c}
}

func (g *RemoteGateway) ListCampuses(ctx context.Context) ([]domain.Campus, error) {
	rows, err := g.client.FetchRows(ctx, TableCampuses, domain.Scope{})
	if err != nil {
		return nil, err
	}
	return mapRows(rows, mapCampus), nil
}

func (g *RemoteGateway) ListAccommodations(ctx context.Context, s domain.Scope) ([]domain.Accommodation, error) {
	rows, err := g.client.FetchRows(ctx, TableAccommodations, s)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, mapAccommodation), nil
}

func (g *RemoteGateway) ListRestaurants(ctx context.Context, s domain.Scope) ([]domain.Restaurant, error) {
	rows, err := g.client.FetchRows(ctx, TableRestaurants, s)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, mapRestaurant), nil
}

func (g *RemoteGateway) ListClinics(ctx context.Context, s domain.Scope) ([]domain.Clinic, error) {
	rows, err := g.client.FetchRows(ctx, TableClinics, s)
	if err != nil {
		return nil, err
	}
	return mapRows(rows, mapClinic), nil
}
