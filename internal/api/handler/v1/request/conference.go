package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type CreateConferenceRequest struct {
	Name            string  `json:"name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Location        string  `json:"location"`
	Description     string  `json:"description"`
	RegistrationFee float64 `json:"registration_fee"`
}

func (req *CreateConferenceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.RegistrationFee, validation.Min(0.0)),
	)
}

type CreateSessionRequest struct {
	Name         string `json:"name"`
	Speaker      string `json:"speaker"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxAttendees int    `json:"max_attendees"`
	Description  string `json:"description"`
}

func (req *CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Speaker, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.StartTime, validation.Required, validation.Date(timeLayout)),
		validation.Field(&req.EndTime, validation.Required, validation.Date(timeLayout)),
		validation.Field(&req.MaxAttendees, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}
