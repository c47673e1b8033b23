package filter_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_life/internal/domain"
	"campus_life/internal/filter"
)

func i64(n int64) *int64 { return &n }

func ids[T interface{ RecordID() int64 }](rs []T) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.RecordID())
	}
	return out
}

func accommodations() []domain.Accommodation {
	return []domain.Accommodation{
		{ID: 1, Name: "Maple House", Address: "12 Oak Street", Price: 3000000, Gender: domain.GenderMale, HasWifi: true, HasAC: true},
		{ID: 2, Name: "Cedar Rooms", Address: "4 Pine Road", Price: 1500000, Gender: domain.GenderFemale, HasWifi: true},
		{ID: 3, Name: "Birch Loft", Address: "9 Elm Avenue", Price: 2000000, Gender: domain.GenderMixed, HasAC: true, HasParking: true},
	}
}

func TestApplyWithoutPredicatesReturnsCopy(t *testing.T) {
	in := accommodations()
	out := filter.Apply(in)
	require.Len(t, out, len(in))
	out[0].Name = "changed"
	assert.Equal(t, "Maple House", in[0].Name)

	empty := filter.Apply[domain.Accommodation](nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestApplyMinPrice(t *testing.T) {
	in := []domain.Accommodation{
		{ID: 1, Price: 3000000, Gender: domain.GenderMale},
		{ID: 2, Price: 1500000, Gender: domain.GenderFemale},
	}
	out := filter.Apply(in, filter.Accommodations(domain.AccommodationCriteria{MinPrice: i64(2000000)})...)
	assert.Equal(t, []int64{1}, ids(out))
}

func TestHugeMinPriceExcludesEverything(t *testing.T) {
	var c domain.AccommodationCriteria
	require.NoError(t, json.Unmarshal([]byte(`{"minPrice":1e19}`), &c))
	out := filter.Apply(accommodations(), filter.Accommodations(c)...)
	assert.Empty(t, out)
}

func TestPriceBoundsAreInclusive(t *testing.T) {
	c := domain.AccommodationCriteria{MinPrice: i64(1500000), MaxPrice: i64(2000000)}
	out := filter.Apply(accommodations(), filter.Accommodations(c)...)
	assert.Equal(t, []int64{2, 3}, ids(out))
}

func TestFacilitiesRequireEverySelectedKey(t *testing.T) {
	c := domain.AccommodationCriteria{Facilities: []domain.Facility{domain.FacilityWifi, domain.FacilityAC}}
	out := filter.Apply(accommodations(), filter.Accommodations(c)...)
	assert.Equal(t, []int64{1}, ids(out))
}

func TestFailOpenCriteria(t *testing.T) {
	all := []int64{1, 2, 3}
	cases := map[string]domain.AccommodationCriteria{
		"inverted range":   {MinPrice: i64(5000000), MaxPrice: i64(1000000)},
		"negative bound":   {MinPrice: i64(-1)},
		"unknown gender":   {Gender: "robot"},
		"unknown facility": {Facilities: []domain.Facility{"jacuzzi"}},
		"blank query":      {Query: "   "},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			out := filter.Apply(accommodations(), filter.Accommodations(c)...)
			assert.Equal(t, all, ids(out))
		})
	}
}

func TestQueryIsCaseInsensitive(t *testing.T) {
	out := filter.Apply(accommodations(), filter.Accommodations(domain.AccommodationCriteria{Query: "pine"})...)
	assert.Equal(t, []int64{2}, ids(out))

	out = filter.Apply(accommodations(), filter.Accommodations(domain.AccommodationCriteria{Query: "HOUSE"})...)
	assert.Equal(t, []int64{1}, ids(out))
}

func TestApplyIsIdempotent(t *testing.T) {
	preds := filter.Accommodations(domain.AccommodationCriteria{Gender: domain.GenderMixed})
	once := filter.Apply(accommodations(), preds...)
	twice := filter.Apply(once, preds...)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second pass changed result (-once +twice):\n%s", diff)
	}
}

func TestResultIsSubsequenceOfInput(t *testing.T) {
	in := accommodations()
	out := filter.Apply(in, filter.Accommodations(domain.AccommodationCriteria{MaxPrice: i64(2000000)})...)
	j := 0
	for _, r := range out {
		for j < len(in) && in[j].ID != r.ID {
			j++
		}
		require.Less(t, j, len(in), "record %d out of order", r.ID)
	}
}

func restaurants() []domain.Restaurant {
	promo := "2 for 1"
	return []domain.Restaurant{
		{ID: 10, Name: "Warung Sari", Cuisine: "Indonesian", PriceRange: domain.PriceLow,
			MenuItems: []domain.MenuItem{{Name: "Nasi Goreng"}, {Name: "Sate Ayam"}}},
		{ID: 11, Name: "Pasta Bar", Cuisine: "Italian", PriceRange: domain.PriceMedium,
			MenuItems: []domain.MenuItem{{Name: "Carbonara"}}, HasPromotion: true, PromotionDetails: &promo},
		{ID: 12, Name: "Bakso Pak Min", Cuisine: "Indonesian", PriceRange: domain.PriceLow},
	}
}

func TestRestaurantPredicates(t *testing.T) {
	cases := []struct {
		name string
		c    domain.RestaurantCriteria
		want []int64
	}{
		{"price range", domain.RestaurantCriteria{PriceRange: domain.PriceLow}, []int64{10, 12}},
		{"cuisine", domain.RestaurantCriteria{Cuisine: "Italian"}, []int64{11}},
		{"menu item", domain.RestaurantCriteria{Query: "goreng"}, []int64{10}},
		{"query on cuisine", domain.RestaurantCriteria{Query: "indo"}, []int64{10, 12}},
		{"promotion only", domain.RestaurantCriteria{PromotionOnly: true}, []int64{11}},
		{"unknown tier", domain.RestaurantCriteria{PriceRange: "luxury"}, []int64{10, 11, 12}},
		{"conjunction", domain.RestaurantCriteria{PriceRange: domain.PriceLow, Query: "bakso"}, []int64{12}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filter.Apply(restaurants(), filter.Restaurants(tc.c)...)
			assert.Equal(t, tc.want, ids(out))
		})
	}
}

func clinics() []domain.Clinic {
	return []domain.Clinic{
		{ID: 20, Name: "Campus Health", HasEmergencyService: true, Services: []string{"Vaccination"},
			Doctors: []domain.Doctor{{Name: "Dr. Rina", Specialization: "General"}, {Name: "Dr. Ade", Specialization: "Dentist"}}},
		{ID: 21, Name: "Smile Clinic", Doctors: []domain.Doctor{{Name: "Dr. Budi", Specialization: "Dentist"}}},
		{ID: 22, Name: "Eye Care", Doctors: []domain.Doctor{{Name: "Dr. Sinta", Specialization: "Ophthalmology"}}},
	}
}

func TestClinicPredicates(t *testing.T) {
	cases := []struct {
		name string
		c    domain.ClinicCriteria
		want []int64
	}{
		{"emergency only", domain.ClinicCriteria{EmergencyOnly: true}, []int64{20}},
		{"specialization any doctor", domain.ClinicCriteria{Specialization: "Dentist"}, []int64{20, 21}},
		{"specialization is exact", domain.ClinicCriteria{Specialization: "dent"}, []int64{}},
		{"doctor name", domain.ClinicCriteria{Query: "budi"}, []int64{21}},
		{"service", domain.ClinicCriteria{Query: "vaccin"}, []int64{20}},
		{"emergency and dentist", domain.ClinicCriteria{EmergencyOnly: true, Specialization: "Dentist"}, []int64{20}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filter.Apply(clinics(), filter.Clinics(tc.c)...)
			assert.Equal(t, tc.want, ids(out))
		})
	}
}

func TestActiveFields(t *testing.T) {
	preds := filter.Clinics(domain.ClinicCriteria{EmergencyOnly: true})
	assert.Equal(t, []string{"emergency"}, filter.ActiveFields(preds))
	assert.Empty(t, filter.ActiveFields(filter.Clinics(domain.ClinicCriteria{})))
}

func TestFacets(t *testing.T) {
	assert.Equal(t, []string{"Indonesian", "Italian"}, filter.Cuisines(restaurants()))
	assert.Equal(t, []string{"General", "Dentist", "Ophthalmology"}, filter.Specializations(clinics()))
	assert.Empty(t, filter.Cuisines(nil))
}
