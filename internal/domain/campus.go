package domain

type Campus struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Image     string  `json:"image"`
}

func (c Campus) RecordID() int64 { return c.ID }

// Scope narrows a gateway fetch. A nil CampusID fetches every campus.
type Scope struct {
	CampusID *int64
}

// ScopeFor returns the scope of the given campus, or the unscoped value for nil.
func ScopeFor(c *Campus) Scope {
	if c == nil {
		return Scope{}
	}
	id := c.ID
	return Scope{CampusID: &id}
}

// Key renders the scope as a cache key segment.
func (s Scope) Key() string {
	if s.CampusID == nil {
		return "all"
	}
	return itoa(*s.CampusID)
}
