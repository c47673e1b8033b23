package domain

type PriceRange string

const (
	PriceLow    PriceRange = "low"
	PriceMedium PriceRange = "medium"
	PriceHigh   PriceRange = "high"
)

func (p PriceRange) Valid() bool {
	switch p {
	case PriceLow, PriceMedium, PriceHigh:
		return true
	}
	return false
}

type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Image       *string `json:"image,omitempty"`
	IsPopular   bool    `json:"is_popular"`
}

type Restaurant struct {
	ID               int64      `json:"id"`
	CampusID         int64      `json:"campus_id"`
	Name             string     `json:"name"`
	Address          string     `json:"address"`
	Distance         float64    `json:"distance"`
	Cuisine          string     `json:"cuisine"`
	PriceRange       PriceRange `json:"price_range"`
	Images           []string   `json:"images"`
	MenuItems        []MenuItem `json:"menu_items"`
	OpeningHours     string     `json:"opening_hours"`
	Rating           float64    `json:"rating"`
	ReviewCount      int        `json:"review_count"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	HasPromotion     bool       `json:"has_promotion"`
	PromotionDetails *string    `json:"promotion_details,omitempty"`
}

func (r Restaurant) RecordID() int64 { return r.ID }

func (r Restaurant) MenuItemNames() []string {
	out := make([]string, 0, len(r.MenuItems))
	for _, m := range r.MenuItems {
		out = append(out, m.Name)
	}
	return out
}
