package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterRequest struct {
	SessionID    uint   `json:"session_id"`
	AttendeeName string `json:"attendee_name"`
	Email        string `json:"email"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SessionID, validation.Required),
		validation.Field(&req.AttendeeName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type ChargeRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (req *ChargeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PaymentMethod,
			validation.Required,
			validation.In("Credit Card", "Debit Card", "UPI", "Net Banking")),
	)
}
