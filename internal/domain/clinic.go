package domain

type Schedule struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type Doctor struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Specialization string     `json:"specialization"`
	Image          *string    `json:"image,omitempty"`
	Schedule       []Schedule `json:"schedule"`
	Rating         float64    `json:"rating"`
}

type Clinic struct {
	ID                  int64    `json:"id"`
	CampusID            int64    `json:"campus_id"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	Distance            float64  `json:"distance"`
	Images              []string `json:"images"`
	Doctors             []Doctor `json:"doctors"`
	Services            []string `json:"services"`
	OpeningHours        string   `json:"opening_hours"`
	HasEmergencyService bool     `json:"has_emergency_service"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"review_count"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
}

func (c Clinic) RecordID() int64 { return c.ID }

func (c Clinic) DoctorNames() []string {
	out := make([]string, 0, len(c.Doctors))
	for _, d := range c.Doctors {
		out = append(out, d.Name)
	}
	return out
}

func (c Clinic) Specializations() []string {
	out := make([]string, 0, len(c.Doctors))
	for _, d := range c.Doctors {
		out = append(out, d.Specialization)
	}
	return out
}
