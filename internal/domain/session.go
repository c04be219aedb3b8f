package domain

import (
	"fmt"
	"time"
)

// Session times are wall-clock values of the form "15:04" on the session's
// date. The [StartTime, EndTime) interval is half-open: a session ending at
// 10:00 does not overlap one starting at 10:00.
type Session struct {
	ID           uint      `json:"id"`
	ConferenceID uint      `json:"conference_id"`
	Name         string    `json:"name"`
	Speaker      string    `json:"speaker"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	MaxAttendees int       `json:"max_attendees"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MinuteOfDay parses a "15:04" clock value into minutes since midnight.
func MinuteOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// DurationMinutes returns the session length in minutes, or an error when
// either time is malformed or the end does not come after the start.
func (s Session) DurationMinutes() (int, error) {
	start, err := MinuteOfDay(s.StartTime)
	if err != nil {
		return 0, err
	}

	end, err := MinuteOfDay(s.EndTime)
	if err != nil {
		return 0, err
	}

	if end <= start {
		return 0, fmt.Errorf("start time %v must be before end time %v", s.StartTime, s.EndTime)
	}

	return end - start, nil
}

// Overlaps reports whether two sessions on the same date intersect under
// half-open interval semantics. Sessions on different dates never overlap.
// Malformed times are treated as non-overlapping.
func (s Session) Overlaps(o Session) bool {
	if !sameDate(s.Date, o.Date) {
		return false
	}

	s1, err := MinuteOfDay(s.StartTime)
	if err != nil {
		return false
	}
	e1, err := MinuteOfDay(s.EndTime)
	if err != nil {
		return false
	}
	s2, err := MinuteOfDay(o.StartTime)
	if err != nil {
		return false
	}
	e2, err := MinuteOfDay(o.EndTime)
	if err != nil {
		return false
	}

	return s1 < e2 && s2 < e1
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
