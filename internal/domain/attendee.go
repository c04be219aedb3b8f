package domain

import "time"

// OTPValidity is how long a generated OTP remains verifiable.
const OTPValidity = 600 * time.Second

type Attendee struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	EmailVerified  bool       `json:"email_verified"`
	OTPCode        string     `json:"-"`
	OTPGeneratedAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OTPExpired reports whether the stored OTP is past its validity window.
// An attendee without a generation timestamp has no valid OTP.
func (a Attendee) OTPExpired(now time.Time) bool {
	if a.OTPGeneratedAt == nil {
		return true
	}

	return now.Sub(*a.OTPGeneratedAt) > OTPValidity
}
