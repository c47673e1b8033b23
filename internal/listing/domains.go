package listing

import (
	"campus_life/internal/domain"
	"campus_life/internal/filter"
)

type (
	Accommodations = Controller[domain.Accommodation, domain.AccommodationCriteria]
	Restaurants    = Controller[domain.Restaurant, domain.RestaurantCriteria]
	Clinics        = Controller[domain.Clinic, domain.ClinicCriteria]
)

func NewAccommodations(gw domain.Gateway) *Accommodations {
	return New(Config[domain.Accommodation, domain.AccommodationCriteria]{
		Domain:     "accommodations",
		Loader:     gw.ListAccommodations,
		Predicates: filter.Accommodations,
		Normalize:  domain.AccommodationCriteria.Normalize,
	})
}

func NewRestaurants(gw domain.Gateway) *Restaurants {
	return New(Config[domain.Restaurant, domain.RestaurantCriteria]{
		Domain:     "restaurants",
		Loader:     gw.ListRestaurants,
		Predicates: filter.Restaurants,
		Normalize:  domain.RestaurantCriteria.Normalize,
	})
}

func NewClinics(gw domain.Gateway) *Clinics {
	return New(Config[domain.Clinic, domain.ClinicCriteria]{
		Domain:     "clinics",
		Loader:     gw.ListClinics,
		Predicates: filter.Clinics,
		Normalize:  domain.ClinicCriteria.Normalize,
	})
}
