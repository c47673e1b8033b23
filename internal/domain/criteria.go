package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AccommodationCriteria narrows an accommodation listing. Unset fields impose no constraint.
type AccommodationCriteria struct {
	MinPrice   *int64     `json:"min_price,omitempty"`
	MaxPrice   *int64     `json:"max_price,omitempty"`
	Gender     Gender     `json:"gender,omitempty"`
	Facilities []Facility `json:"facilities,omitempty"`
	Query      string     `json:"query,omitempty"`
}

type RestaurantCriteria struct {
	PriceRange    PriceRange `json:"price_range,omitempty"`
	Cuisine       string     `json:"cuisine,omitempty"`
	Query         string     `json:"query,omitempty"`
	PromotionOnly bool       `json:"promotion_only,omitempty"`
}

type ClinicCriteria struct {
	Specialization string `json:"specialization,omitempty"`
	EmergencyOnly  bool   `json:"emergency_only,omitempty"`
	Query          string `json:"query,omitempty"`
}

/********** lenient decoding **********/

// criteriaAliases lists the accepted wire names per field; the web client sends camelCase.
var criteriaAliases = map[string][]string{
	"min_price":      {"min_price", "minPrice"},
	"max_price":      {"max_price", "maxPrice"},
	"gender":         {"gender"},
	"facilities":     {"facilities"},
	"query":          {"query", "q", "search", "searchQuery"},
	"price_range":    {"price_range", "priceRange"},
	"cuisine":        {"cuisine"},
	"promotion_only": {"promotion_only", "promotionOnly"},
	"specialization": {"specialization", "specialty"},
	"emergency_only": {"emergency_only", "emergencyOnly"},
}

// rawCriteria decodes criteria field by field. A field whose value has the wrong shape is
// dropped rather than failing the whole document.
type rawCriteria map[string]json.RawMessage

func (r rawCriteria) lookup(key string) (json.RawMessage, bool) {
	for _, k := range criteriaAliases[key] {
		if v, ok := r[k]; ok && strings.TrimSpace(string(v)) != "null" {
			return v, true
		}
	}
	return nil, false
}

func (r rawCriteria) int64Ptr(key string) *int64 {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil
		}
		var n int64
		switch {
		case f >= math.MaxInt64:
			n = math.MaxInt64
		case f <= math.MinInt64:
			n = math.MinInt64
		default:
			n = int64(f)
		}
		return &n
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		// ParseInt saturates on overflow and reports ErrRange
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return &n
		}
	}
	return nil
}

func (r rawCriteria) str(key string) string {
	v, ok := r.lookup(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func (r rawCriteria) boolean(key string) bool {
	v, ok := r.lookup(key)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return false
}

// strings accepts a list (non-string items are skipped) or a single string.
func (r rawCriteria) strings(key string) []string {
	v, ok := r.lookup(key)
	if !ok {
		return nil
	}
	var list []any
	if err := json.Unmarshal(v, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, it := range list {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}

func (c *AccommodationCriteria) UnmarshalJSON(b []byte) error {
	var raw rawCriteria
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var fac []Facility
	for _, s := range raw.strings("facilities") {
		fac = append(fac, Facility(s))
	}
	*c = AccommodationCriteria{
		MinPrice:   raw.int64Ptr("min_price"),
		MaxPrice:   raw.int64Ptr("max_price"),
		Gender:     Gender(raw.str("gender")),
		Facilities: fac,
		Query:      raw.str("query"),
	}
	return nil
}

func (c *RestaurantCriteria) UnmarshalJSON(b []byte) error {
	var raw rawCriteria
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = RestaurantCriteria{
		PriceRange:    PriceRange(raw.str("price_range")),
		Cuisine:       raw.str("cuisine"),
		Query:         raw.str("query"),
		PromotionOnly: raw.boolean("promotion_only"),
	}
	return nil
}

func (c *ClinicCriteria) UnmarshalJSON(b []byte) error {
	var raw rawCriteria
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = ClinicCriteria{
		Specialization: raw.str("specialization"),
		EmergencyOnly:  raw.boolean("emergency_only"),
		Query:          raw.str("query"),
	}
	return nil
}

/********** normalization **********/

// Normalize drops every field that cannot be honoured. The returned warnings describe
// what was dropped; they are diagnostics, never errors.
func (c AccommodationCriteria) Normalize() (AccommodationCriteria, []string) {
	var warns []string
	out := c

	if out.MinPrice != nil && *out.MinPrice < 0 {
		warns = append(warns, fmt.Sprintf("min_price %d is negative", *out.MinPrice))
		out.MinPrice = nil
	}
	if out.MaxPrice != nil && *out.MaxPrice < 0 {
		warns = append(warns, fmt.Sprintf("max_price %d is negative", *out.MaxPrice))
		out.MaxPrice = nil
	}
	if out.MinPrice != nil && out.MaxPrice != nil && *out.MinPrice > *out.MaxPrice {
		warns = append(warns, fmt.Sprintf("price range %d..%d is inverted", *out.MinPrice, *out.MaxPrice))
		out.MinPrice, out.MaxPrice = nil, nil
	}

	out.Gender = Gender(strings.ToLower(strings.TrimSpace(string(out.Gender))))
	if out.Gender != "" && !out.Gender.Valid() {
		warns = append(warns, fmt.Sprintf("unknown gender %q", c.Gender))
		out.Gender = ""
	}

	if len(out.Facilities) > 0 {
		seen := make(map[Facility]struct{}, len(out.Facilities))
		kept := make([]Facility, 0, len(out.Facilities))
		for _, f := range out.Facilities {
			f = Facility(strings.TrimSpace(string(f)))
			if !f.Valid() {
				warns = append(warns, fmt.Sprintf("unknown facility %q", f))
				continue
			}
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			kept = append(kept, f)
		}
		out.Facilities = kept
	}

	out.Query = strings.TrimSpace(out.Query)
	return out, warns
}

func (c RestaurantCriteria) Normalize() (RestaurantCriteria, []string) {
	var warns []string
	out := c
	out.PriceRange = PriceRange(strings.ToLower(strings.TrimSpace(string(out.PriceRange))))
	if out.PriceRange != "" && !out.PriceRange.Valid() {
		warns = append(warns, fmt.Sprintf("unknown price_range %q", c.PriceRange))
		out.PriceRange = ""
	}
	out.Cuisine = strings.TrimSpace(out.Cuisine)
	out.Query = strings.TrimSpace(out.Query)
	return out, warns
}

func (c ClinicCriteria) Normalize() (ClinicCriteria, []string) {
	out := c
	out.Specialization = strings.TrimSpace(out.Specialization)
	out.Query = strings.TrimSpace(out.Query)
	return out, nil
}
