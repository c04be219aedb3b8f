package domain

import "time"

const (
	EmailRegistrationConfirmation = "Registration Confirmation"
	EmailPaymentConfirmation      = "Payment Confirmation"
	EmailOTP                      = "OTP Verification"
)

// EmailLog is a mock outbound email. Nothing is actually sent; the log row
// is the delivery.
type EmailLog struct {
	ID             uint      `json:"id"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	EmailType      string    `json:"email_type"`
	RegistrationID *uint     `json:"registration_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
