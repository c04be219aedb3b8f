package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type PreferenceRequest struct {
	SessionID      uint   `json:"session_id"`
	PreferenceType string `json:"preference_type"`
}

func (req *PreferenceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SessionID, validation.Required),
		validation.Field(&req.PreferenceType,
			validation.Required,
			validation.In("Interested", "Not Interested", "Attended", "Wishlist")),
	)
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

func (req *VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}
