package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

type Registration struct {
	ID               uint          `json:"id"`
	ConferenceID     uint          `json:"conference_id"`
	SessionID        uint          `json:"session_id"`
	AttendeeID       uint          `json:"attendee_id"`
	Amount           float64       `json:"amount"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	InvoiceID        string        `json:"invoice_id"`
	JoinLink         string        `json:"join_link"`
	RegistrationDate time.Time     `json:"registration_date"`
	PaymentRecordID  *uint         `json:"payment_record_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (r Registration) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}
