package response

import (
	"github.com/confera/conference-api/internal/domain"
)

// RegistrationCreated is the admission result returned to the attendee.
type RegistrationCreated struct {
	RegistrationID uint                 `json:"registration_id"`
	InvoiceID      string               `json:"invoice_id"`
	JoinLink       string               `json:"join_link"`
	Amount         float64              `json:"amount"`
	PaymentStatus  domain.PaymentStatus `json:"payment_status"`
}

func NewRegistrationCreated(registration domain.Registration) RegistrationCreated {
	return RegistrationCreated{
		RegistrationID: registration.ID,
		InvoiceID:      registration.InvoiceID,
		JoinLink:       registration.JoinLink,
		Amount:         registration.Amount,
		PaymentStatus:  registration.PaymentStatus,
	}
}
