package domain

import "strconv"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderMixed  Gender = "mixed"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderMixed:
		return true
	}
	return false
}

// Facility is a filterable amenity key. The keys match the ones sent by the web client.
type Facility string

const (
	FacilityAC              Facility = "ac"
	FacilityPrivateBathroom Facility = "privateBathroom"
	FacilityFurnishedBed    Facility = "furnishedBed"
	FacilityWifi            Facility = "wifi"
	FacilityParking         Facility = "parking"
)

var Facilities = []Facility{FacilityAC, FacilityPrivateBathroom, FacilityFurnishedBed, FacilityWifi, FacilityParking}

func (f Facility) Valid() bool {
	for _, k := range Facilities {
		if f == k {
			return true
		}
	}
	return false
}

type Accommodation struct {
	ID                 int64    `json:"id"`
	CampusID           int64    `json:"campus_id"`
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	Distance           float64  `json:"distance"`
	Price              int64    `json:"price"`
	Gender             Gender   `json:"gender"`
	HasAC              bool     `json:"has_ac"`
	HasPrivateBathroom bool     `json:"has_private_bathroom"`
	HasFurnishedBed    bool     `json:"has_furnished_bed"`
	HasWifi            bool     `json:"has_wifi"`
	HasParking         bool     `json:"has_parking"`
	Images             []string `json:"images"`
	Description        string   `json:"description"`
	Rules              []string `json:"rules"`
	FacilityLabels     []string `json:"facilities"` // free-text listing extras, not the amenity flags
	Benefits           []string `json:"benefits"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"review_count"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	HasPromotion       bool     `json:"has_promotion"`
	PromotionDetails   *string  `json:"promotion_details,omitempty"`
	Availability       int      `json:"availability"`
}

func (a Accommodation) RecordID() int64 { return a.ID }

// FacilitySet derives the amenity keys from the boolean flags.
func (a Accommodation) FacilitySet() map[Facility]bool {
	return map[Facility]bool{
		FacilityAC:              a.HasAC,
		FacilityPrivateBathroom: a.HasPrivateBathroom,
		FacilityFurnishedBed:    a.HasFurnishedBed,
		FacilityWifi:            a.HasWifi,
		FacilityParking:         a.HasParking,
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
