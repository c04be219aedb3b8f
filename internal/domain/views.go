package domain

import "time"

// SessionListing is a session decorated with availability and the calling
// attendee's registration state.
type SessionListing struct {
	Session

	RegisteredCount int  `json:"registered_count"`
	AvailableSpots  int  `json:"available_spots"`
	UserRegistered  bool `json:"user_registered"`
}

// RecommendedSession is one ranked recommendation entry.
type RecommendedSession struct {
	SessionID           uint      `json:"session_id"`
	SessionName         string    `json:"session_name"`
	Speaker             string    `json:"speaker"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	ConferenceID        uint      `json:"conference_id"`
	ConferenceName      string    `json:"conference_name"`
	ConferenceStartDate time.Time `json:"conference_start_date"`
	MaxAttendees        int       `json:"max_attendees"`
	RegistrationCount   int       `json:"registration_count"`
	AvailableSpots      int       `json:"available_spots"`
}

// RegistrationDetail joins a registration with its conference, session and
// latest payment attempt for attendee-facing listings.
type RegistrationDetail struct {
	Registration

	ConferenceName string    `json:"conference_name"`
	SessionName    string    `json:"session_name"`
	Speaker        string    `json:"speaker"`
	SessionDate    time.Time `json:"session_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	ProcessingFee  float64   `json:"processing_fee,omitempty"`
}

// AdminRegistration is one row of the admin recent-registrations view.
type AdminRegistration struct {
	RegistrationID   uint          `json:"registration_id"`
	RegistrationDate time.Time     `json:"registration_date"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	Amount           float64       `json:"amount"`
	ConferenceName   string        `json:"conference_name"`
	SessionName      string        `json:"session_name"`
	AttendeeName     string        `json:"attendee_name"`
	AttendeeEmail    string        `json:"attendee_email"`
	PaymentMethod    string        `json:"payment_method,omitempty"`
	TransactionID    string        `json:"transaction_id,omitempty"`
}

// DashboardStats aggregates counts and revenue for the admin dashboard.
type DashboardStats struct {
	Conferences       int64   `json:"conferences"`
	Sessions          int64   `json:"sessions"`
	Registrations     int64   `json:"registrations"`
	ActiveConferences int64   `json:"active_conferences"`
	TotalRevenue      float64 `json:"total_revenue"`
	ProcessingFees    float64 `json:"processing_fees"`
	NetRevenue        float64 `json:"net_revenue"`
	EmailLogs         int64   `json:"email_logs"`
	RecentEmails      int64   `json:"recent_emails"`
}

// AttendeeProfile is the attendee-facing profile payload.
type AttendeeProfile struct {
	Attendee      *Attendee            `json:"attendee"`
	Preferences   []PreferenceDetail   `json:"preferences"`
	Registrations []RegistrationDetail `json:"registrations"`
}

type PreferenceDetail struct {
	SessionID   uint           `json:"session_id"`
	SessionName string         `json:"session_name"`
	Speaker     string         `json:"speaker"`
	Type        PreferenceType `json:"preference_type"`
}
