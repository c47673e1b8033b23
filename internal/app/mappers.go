package app

import (
	"strconv"
	"strings"

	"campus_life/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Rows come from PostgREST in snake_case columns; the seeded restaurant and clinic rows
// carry the web client's camelCase keys instead.
var rowAliases = map[string][]string{
	"id":                   {"id"},
	"campus_id":            {"campus_id", "campusId"},
	"name":                 {"name"},
	"address":              {"address"},
	"city":                 {"city"},
	"image":                {"image"},
	"images":               {"images"},
	"latitude":             {"latitude"},
	"longitude":            {"longitude"},
	"distance":             {"distance"},
	"rating":               {"rating"},
	"review_count":         {"review_count", "reviewCount"},
	"has_promotion":        {"has_promotion", "hasPromotion"},
	"promotion_details":    {"promotion_details", "promotionDetails"},
	"opening_hours":        {"opening_hours", "openingHours"},
	"description":          {"description"},
	"price":                {"price"},
	"gender":               {"gender"},
	"rules":                {"rules"},
	"facilities":           {"facilities"},
	"benefits":             {"benefits"},
	"availability":         {"availability"},
	"cuisine":              {"cuisine"},
	"price_range":          {"price_range", "priceRange"},
	"menu_items":           {"menu_items", "menuItems"},
	"is_popular":           {"is_popular", "isPopular"},
	"services":             {"services"},
	"doctors":              {"doctors"},
	"has_emergency":        {"has_emergency_service", "hasEmergencyService"},
	"specialization":       {"specialization", "specialty"},
	"schedule":             {"schedule"},
	"day":                  {"day"},
	"start_time":           {"start_time", "startTime"},
	"end_time":             {"end_time", "endTime"},
	"available":            {"available"},
	"has_ac":               {"has_ac", "hasAC"},
	"has_private_bathroom": {"has_private_bathroom", "hasPrivateBathroom"},
	"has_furnished_bed":    {"has_furnished_bed", "hasFurnishedBed"},
	"has_wifi":             {"has_wifi", "hasWifi"},
	"has_parking":          {"has_parking", "hasParking"},
}

/********** tiny helpers **********/

// lookupAny returns the value under name, nil when absent or JSON null.
func lookupAny(m map[string]any, name string) any {
	return m[name]
}

// firstAny returns the first non-nil value among the aliases of key.
func firstAny(m map[string]any, key string) any {
	for _, p := range rowAliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

// str: first non-empty string for a named alias set.
func str(m map[string]any, key string) string {
	for _, p := range rowAliases[key] {
		if s, ok := lookupAny(m, p).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func optStr(m map[string]any, key string) *string {
	if s := str(m, key); s != "" {
		return &s
	}
	return nil
}

// float: number from float64/int/string like "4,5".
func float(m map[string]any, key string) float64 {
	for _, p := range rowAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// int64Of: whole number from float64/int/string; fractional parts are truncated.
func int64Of(m map[string]any, key string) int64 {
	for _, p := range rowAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return int64(v)
		case int:
			return int64(v)
		case int64:
			return v
		case string:
			s := strings.TrimSpace(v)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return int64(f)
			}
		}
	}
	return 0
}

// boolOf reports the flag and whether any alias carried one.
func boolOf(m map[string]any, key string) (bool, bool) {
	switch v := firstAny(m, key).(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b, true
		}
	}
	return false, false
}

func flag(m map[string]any, key string) bool {
	b, _ := boolOf(m, key)
	return b
}

// strs: accept []any with either strings or {url/src/name}.
func strs(m map[string]any, key string) []string {
	for _, p := range rowAliases[key] {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, k := range []string{"url", "src", "name", "label"} {
					if u, ok := t[k].(string); ok && u != "" {
						out = append(out, u)
						break
					}
				}
			}
		}
		return out
	}
	return []string{}
}

// objects returns the nested objects of a list field, skipping anything else.
func objects(m map[string]any, key string) []map[string]any {
	raw, ok := firstAny(m, key).([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if o, ok := it.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

/********** row mappers **********/

func mapCampus(r map[string]any) domain.Campus {
	return domain.Campus{
		ID:        int64Of(r, "id"),
		Name:      str(r, "name"),
		Address:   str(r, "address"),
		City:      str(r, "city"),
		Latitude:  float(r, "latitude"),
		Longitude: float(r, "longitude"),
		Image:     str(r, "image"),
	}
}

// facilityLabels maps free-text facility labels onto amenity keys, for rows that
// carry only the facilities list and no has_* flags.
var facilityLabels = map[string]domain.Facility{
	"ac":               domain.FacilityAC,
	"air conditioning": domain.FacilityAC,
	"privatebathroom":  domain.FacilityPrivateBathroom,
	"private bathroom": domain.FacilityPrivateBathroom,
	"furnishedbed":     domain.FacilityFurnishedBed,
	"furnished bed":    domain.FacilityFurnishedBed,
	"wifi":             domain.FacilityWifi,
	"wi-fi":            domain.FacilityWifi,
	"parking":          domain.FacilityParking,
}

func mapAccommodation(r map[string]any) domain.Accommodation {
	labels := strs(r, "facilities")
	listed := make(map[domain.Facility]bool, len(labels))
	for _, l := range labels {
		if f, ok := facilityLabels[strings.ToLower(strings.TrimSpace(l))]; ok {
			listed[f] = true
		}
	}
	amenity := func(key string, f domain.Facility) bool {
		if b, ok := boolOf(r, key); ok {
			return b
		}
		return listed[f]
	}

	return domain.Accommodation{
		ID:                 int64Of(r, "id"),
		CampusID:           int64Of(r, "campus_id"),
		Name:               str(r, "name"),
		Address:            str(r, "address"),
		Distance:           float(r, "distance"),
		Price:              int64Of(r, "price"),
		Gender:             domain.Gender(strings.ToLower(str(r, "gender"))),
		HasAC:              amenity("has_ac", domain.FacilityAC),
		HasPrivateBathroom: amenity("has_private_bathroom", domain.FacilityPrivateBathroom),
		HasFurnishedBed:    amenity("has_furnished_bed", domain.FacilityFurnishedBed),
		HasWifi:            amenity("has_wifi", domain.FacilityWifi),
		HasParking:         amenity("has_parking", domain.FacilityParking),
		Images:             strs(r, "images"),
		Description:        str(r, "description"),
		Rules:              strs(r, "rules"),
		FacilityLabels:     labels,
		Benefits:           strs(r, "benefits"),
		Rating:             float(r, "rating"),
		ReviewCount:        int(int64Of(r, "review_count")),
		Latitude:           float(r, "latitude"),
		Longitude:          float(r, "longitude"),
		HasPromotion:       flag(r, "has_promotion"),
		PromotionDetails:   optStr(r, "promotion_details"),
		Availability:       int(int64Of(r, "availability")),
	}
}

func mapRestaurant(r map[string]any) domain.Restaurant {
	items := objects(r, "menu_items")
	menu := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		menu = append(menu, domain.MenuItem{
			ID:          int64Of(it, "id"),
			Name:        str(it, "name"),
			Description: str(it, "description"),
			Price:       int64Of(it, "price"),
			Image:       optStr(it, "image"),
			IsPopular:   flag(it, "is_popular"),
		})
	}
	return domain.Restaurant{
		ID:               int64Of(r, "id"),
		CampusID:         int64Of(r, "campus_id"),
		Name:             str(r, "name"),
		Address:          str(r, "address"),
		Distance:         float(r, "distance"),
		Cuisine:          str(r, "cuisine"),
		PriceRange:       domain.PriceRange(strings.ToLower(str(r, "price_range"))),
		Images:           strs(r, "images"),
		MenuItems:        menu,
		OpeningHours:     str(r, "opening_hours"),
		Rating:           float(r, "rating"),
		ReviewCount:      int(int64Of(r, "review_count")),
		Latitude:         float(r, "latitude"),
		Longitude:        float(r, "longitude"),
		HasPromotion:     flag(r, "has_promotion"),
		PromotionDetails: optStr(r, "promotion_details"),
	}
}

func mapClinic(r map[string]any) domain.Clinic {
	docs := objects(r, "doctors")
	doctors := make([]domain.Doctor, 0, len(docs))
	for _, d := range docs {
		slots := objects(d, "schedule")
		sched := make([]domain.Schedule, 0, len(slots))
		for _, s := range slots {
			sched = append(sched, domain.Schedule{
				Day:       str(s, "day"),
				StartTime: str(s, "start_time"),
				EndTime:   str(s, "end_time"),
				Available: flag(s, "available"),
			})
		}
		doctors = append(doctors, domain.Doctor{
			ID:             int64Of(d, "id"),
			Name:           str(d, "name"),
			Specialization: str(d, "specialization"),
			Image:          optStr(d, "image"),
			Schedule:       sched,
			Rating:         float(d, "rating"),
		})
	}
	return domain.Clinic{
		ID:                  int64Of(r, "id"),
		CampusID:            int64Of(r, "campus_id"),
		Name:                str(r, "name"),
		Address:             str(r, "address"),
		Distance:            float(r, "distance"),
		Images:              strs(r, "images"),
		Doctors:             doctors,
		Services:            strs(r, "services"),
		OpeningHours:        str(r, "opening_hours"),
		HasEmergencyService: flag(r, "has_emergency"),
		Rating:              float(r, "rating"),
		ReviewCount:         int(int64Of(r, "review_count")),
		Latitude:            float(r, "latitude"),
		Longitude:           float(r, "longitude"),
	}
}

func mapRows[T any](rows []map[string]any, fn func(map[string]any) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
