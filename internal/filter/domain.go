package filter

import "campus_life/internal/domain"

func Accommodations(c domain.AccommodationCriteria) []Predicate[domain.Accommodation] {
	c, _ = c.Normalize()
	return []Predicate[domain.Accommodation]{
		IntRange("price", func(a domain.Accommodation) int64 { return a.Price }, c.MinPrice, c.MaxPrice),
		Equal("gender", func(a domain.Accommodation) domain.Gender { return a.Gender }, c.Gender),
		Subset("facilities", func(a domain.Accommodation) map[domain.Facility]bool { return a.FacilitySet() }, c.Facilities),
		Text("query", c.Query, func(a domain.Accommodation) []string { return []string{a.Name, a.Address} }),
	}
}

func Restaurants(c domain.RestaurantCriteria) []Predicate[domain.Restaurant] {
	c, _ = c.Normalize()
	return []Predicate[domain.Restaurant]{
		Equal("price_range", func(r domain.Restaurant) domain.PriceRange { return r.PriceRange }, c.PriceRange),
		Equal("cuisine", func(r domain.Restaurant) string { return r.Cuisine }, c.Cuisine),
		Flag("promotion", func(r domain.Restaurant) bool { return r.HasPromotion }, c.PromotionOnly),
		Text("query", c.Query, func(r domain.Restaurant) []string {
			return append([]string{r.Name, r.Cuisine}, r.MenuItemNames()...)
		}),
	}
}

func Clinics(c domain.ClinicCriteria) []Predicate[domain.Clinic] {
	c, _ = c.Normalize()
	return []Predicate[domain.Clinic]{
		AnyEqual("specialization", func(cl domain.Clinic) []string { return cl.Specializations() }, c.Specialization),
		Flag("emergency", func(cl domain.Clinic) bool { return cl.HasEmergencyService }, c.EmergencyOnly),
		Text("query", c.Query, func(cl domain.Clinic) []string {
			out := append([]string{cl.Name}, cl.Services...)
			out = append(out, cl.DoctorNames()...)
			return append(out, cl.Specializations()...)
		}),
	}
}
