package filter

import "campus_life/internal/domain"

// Distinct collects the non-zero values of get across records, first-seen order.
func Distinct[T any, V comparable](records []T, get func(T) []V) []V {
	var zero V
	seen := make(map[V]struct{})
	out := make([]V, 0)
	for _, r := range records {
		for _, v := range get(r) {
			if v == zero {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func Cuisines(rs []domain.Restaurant) []string {
	return Distinct(rs, func(r domain.Restaurant) []string { return []string{r.Cuisine} })
}

func Specializations(cs []domain.Clinic) []string {
	return Distinct(cs, func(c domain.Clinic) []string { return c.Specializations() })
}
