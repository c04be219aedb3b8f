package domain

import "time"

type PreferenceType string

const (
	PreferenceInterested    PreferenceType = "Interested"
	PreferenceNotInterested PreferenceType = "Not Interested"
	PreferenceAttended      PreferenceType = "Attended"
	PreferenceWishlist      PreferenceType = "Wishlist"
)

func ValidPreferenceType(t PreferenceType) bool {
	switch t {
	case PreferenceInterested, PreferenceNotInterested, PreferenceAttended, PreferenceWishlist:
		return true
	}

	return false
}

// Preference is at most one row per (attendee, session); updates overwrite.
type Preference struct {
	ID         uint           `json:"id"`
	AttendeeID uint           `json:"attendee_id"`
	SessionID  uint           `json:"session_id"`
	Type       PreferenceType `json:"preference_type"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
