package domain

import "time"

type ConferenceStatus string

const (
	ConferenceUpcoming  ConferenceStatus = "Upcoming"
	ConferenceOngoing   ConferenceStatus = "Ongoing"
	ConferenceCompleted ConferenceStatus = "Completed"
)

type Conference struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	Location        string           `json:"location"`
	Description     string           `json:"description"`
	Status          ConferenceStatus `json:"status"`
	RegistrationFee float64          `json:"registration_fee"`
	Sessions        []Session        `json:"sessions,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// DeriveStatus recomputes the conference status from today's date.
// A manually set Completed/Ongoing status in the past is left alone only
// when it already matches the derived value; the date range wins otherwise.
func (c *Conference) DeriveStatus(today time.Time) {
	day := today.Truncate(24 * time.Hour)

	switch {
	case day.Before(c.StartDate):
		c.Status = ConferenceUpcoming
	case day.After(c.EndDate):
		c.Status = ConferenceCompleted
	default:
		c.Status = ConferenceOngoing
	}
}

func (c *Conference) IsActive() bool {
	return c.Status == ConferenceUpcoming || c.Status == ConferenceOngoing
}
