package service

import (
	"context"
	"time"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository"
)

type fakeConferenceRepo struct {
	conferences map[uint]domain.Conference
	sessions    map[uint]domain.Session

	active []uint // conference IDs returned by FindActive, in order
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{
		conferences: make(map[uint]domain.Conference),
		sessions:    make(map[uint]domain.Session),
	}
}

func (f *fakeConferenceRepo) addConference(c domain.Conference) {
	f.conferences[c.ID] = c
	f.active = append(f.active, c.ID)
}

func (f *fakeConferenceRepo) addSession(s domain.Session) {
	f.sessions[s.ID] = s
}

func (f *fakeConferenceRepo) Create(_ context.Context, conference domain.Conference) (domain.Conference, error) {
	conference.ID = uint(len(f.conferences) + 1)
	f.conferences[conference.ID] = conference

	return conference, nil
}

func (f *fakeConferenceRepo) FindByID(_ context.Context, id uint) (domain.Conference, error) {
	conference, ok := f.conferences[id]
	if !ok {
		return domain.Conference{}, repository.ErrConferenceNotFound
	}

	return conference, nil
}

func (f *fakeConferenceRepo) FindActive(_ context.Context) ([]domain.Conference, error) {
	var conferences []domain.Conference
	for _, id := range f.active {
		conference := f.conferences[id]
		conference.Sessions = nil
		for _, session := range f.sessions {
			if session.ConferenceID == id {
				conference.Sessions = append(conference.Sessions, session)
			}
		}

		conferences = append(conferences, conference)
	}

	return conferences, nil
}

func (f *fakeConferenceRepo) CreateSession(_ context.Context, session domain.Session) (domain.Session, error) {
	session.ID = uint(len(f.sessions) + 1)
	f.sessions[session.ID] = session

	return session, nil
}

func (f *fakeConferenceRepo) FindSessionByID(_ context.Context, id uint) (domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, repository.ErrSessionNotFound
	}

	return session, nil
}

func (f *fakeConferenceRepo) FindSessionsByConferenceID(_ context.Context, conferenceID uint) ([]domain.Session, error) {
	var sessions []domain.Session
	for _, session := range f.sessions {
		if session.ConferenceID == conferenceID {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

func (f *fakeConferenceRepo) FindSiblingSessions(_ context.Context, conferenceID uint, date time.Time, excludeID uint) ([]domain.Session, error) {
	var sessions []domain.Session
	for _, session := range f.sessions {
		if session.ConferenceID == conferenceID && session.Date.Equal(date) && session.ID != excludeID {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

func (f *fakeConferenceRepo) CountConferences(_ context.Context) (int64, error) {
	return int64(len(f.conferences)), nil
}

func (f *fakeConferenceRepo) CountActiveConferences(_ context.Context) (int64, error) {
	return int64(len(f.active)), nil
}

func (f *fakeConferenceRepo) CountSessions(_ context.Context) (int64, error) {
	return int64(len(f.sessions)), nil
}

type fakeRegistrationRepo struct {
	sessions      map[uint]domain.Session // capacity and overlap lookups
	registrations []domain.Registration
	nextID        uint

	createErrs []error // popped by Create before the real logic runs
	overlapErr error
}

func newFakeRegistrationRepo(sessions map[uint]domain.Session) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		sessions: sessions,
	}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, registration domain.Registration) (domain.Registration, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]

		return domain.Registration{}, err
	}

	session, ok := f.sessions[registration.SessionID]
	if !ok {
		return domain.Registration{}, repository.ErrSessionNotFound
	}

	if session.MaxAttendees <= 0 {
		return domain.Registration{}, repository.ErrInvalidCapacity
	}

	var count int
	for _, r := range f.registrations {
		if r.SessionID == registration.SessionID {
			count++
		}
	}
	if count >= session.MaxAttendees {
		return domain.Registration{}, repository.ErrCapacityExceeded
	}

	f.nextID++
	registration.ID = f.nextID
	f.registrations = append(f.registrations, registration)

	return registration, nil
}

func (f *fakeRegistrationRepo) FindByID(_ context.Context, id uint) (domain.Registration, error) {
	for _, r := range f.registrations {
		if r.ID == id {
			return r, nil
		}
	}

	return domain.Registration{}, repository.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) FindBySessionAndAttendee(_ context.Context, sessionID, attendeeID uint) (domain.Registration, error) {
	for _, r := range f.registrations {
		if r.SessionID == sessionID && r.AttendeeID == attendeeID {
			return r, nil
		}
	}

	return domain.Registration{}, repository.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) FindByAttendeeID(_ context.Context, attendeeID uint) ([]domain.RegistrationDetail, error) {
	var details []domain.RegistrationDetail
	for _, r := range f.registrations {
		if r.AttendeeID != attendeeID {
			continue
		}

		session := f.sessions[r.SessionID]
		details = append(details, domain.RegistrationDetail{
			Registration: r,
			SessionName:  session.Name,
			Speaker:      session.Speaker,
			SessionDate:  session.Date,
			StartTime:    session.StartTime,
			EndTime:      session.EndTime,
		})
	}

	return details, nil
}

func (f *fakeRegistrationRepo) FindOverlapCandidates(_ context.Context, attendeeID, conferenceID uint, date time.Time) ([]domain.Session, error) {
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}

	var sessions []domain.Session
	for _, r := range f.registrations {
		if r.AttendeeID != attendeeID || r.ConferenceID != conferenceID {
			continue
		}
		if r.PaymentStatus != domain.PaymentPending && r.PaymentStatus != domain.PaymentPaid {
			continue
		}

		session, ok := f.sessions[r.SessionID]
		if ok && session.Date.Equal(date) {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

func (f *fakeRegistrationRepo) CountBySessionID(_ context.Context, sessionID uint) (int64, error) {
	var count int64
	for _, r := range f.registrations {
		if r.SessionID == sessionID {
			count++
		}
	}

	return count, nil
}

func (f *fakeRegistrationRepo) CountBySessionIDs(_ context.Context, sessionIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	for _, id := range sessionIDs {
		for _, r := range f.registrations {
			if r.SessionID == id {
				counts[id]++
			}
		}
	}

	return counts, nil
}

func (f *fakeRegistrationRepo) CountRegistrations(_ context.Context) (int64, error) {
	return int64(len(f.registrations)), nil
}

func (f *fakeRegistrationRepo) FindRecent(_ context.Context, limit int) ([]domain.AdminRegistration, error) {
	var rows []domain.AdminRegistration
	for i := len(f.registrations) - 1; i >= 0 && len(rows) < limit; i-- {
		r := f.registrations[i]
		rows = append(rows, domain.AdminRegistration{
			RegistrationID:   r.ID,
			RegistrationDate: r.RegistrationDate,
			PaymentStatus:    r.PaymentStatus,
			Amount:           r.Amount,
		})
	}

	return rows, nil
}

type fakeAttendeeRepo struct {
	byEmail     map[string]domain.Attendee
	nextID      uint
	preferences map[[2]uint]domain.Preference
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{
		byEmail:     make(map[string]domain.Attendee),
		preferences: make(map[[2]uint]domain.Preference),
	}
}

func (f *fakeAttendeeRepo) Create(_ context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	if _, ok := f.byEmail[attendee.Email]; ok {
		return domain.Attendee{}, repository.ErrAttendeeEmailExists
	}

	f.nextID++
	attendee.ID = f.nextID
	f.byEmail[attendee.Email] = attendee

	return attendee, nil
}

func (f *fakeAttendeeRepo) Update(_ context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	f.byEmail[attendee.Email] = attendee

	return attendee, nil
}

func (f *fakeAttendeeRepo) FindByID(_ context.Context, id uint) (domain.Attendee, error) {
	for _, attendee := range f.byEmail {
		if attendee.ID == id {
			return attendee, nil
		}
	}

	return domain.Attendee{}, repository.ErrAttendeeNotFound
}

func (f *fakeAttendeeRepo) FindByEmail(_ context.Context, email string) (domain.Attendee, error) {
	attendee, ok := f.byEmail[email]
	if !ok {
		return domain.Attendee{}, repository.ErrAttendeeNotFound
	}

	return attendee, nil
}

func (f *fakeAttendeeRepo) SavePreference(_ context.Context, preference domain.Preference) (domain.Preference, error) {
	key := [2]uint{preference.AttendeeID, preference.SessionID}
	if existing, ok := f.preferences[key]; ok {
		preference.ID = existing.ID
	} else {
		preference.ID = uint(len(f.preferences) + 1)
	}
	f.preferences[key] = preference

	return preference, nil
}

func (f *fakeAttendeeRepo) FindPreferences(_ context.Context, attendeeID uint) ([]domain.Preference, error) {
	var preferences []domain.Preference
	for _, preference := range f.preferences {
		if preference.AttendeeID == attendeeID {
			preferences = append(preferences, preference)
		}
	}

	return preferences, nil
}

type fakePaymentRepo struct {
	records  []domain.PaymentRecord
	statuses []domain.PaymentStatus
}

func (f *fakePaymentRepo) RecordAttempt(_ context.Context, record domain.PaymentRecord, status domain.PaymentStatus) (domain.PaymentRecord, error) {
	record.ID = uint(len(f.records) + 1)
	f.records = append(f.records, record)
	f.statuses = append(f.statuses, status)

	return record, nil
}

func (f *fakePaymentRepo) FindByRegistrationID(_ context.Context, registrationID uint) ([]domain.PaymentRecord, error) {
	var records []domain.PaymentRecord
	for _, record := range f.records {
		if record.RegistrationID == registrationID {
			records = append(records, record)
		}
	}

	return records, nil
}

func (f *fakePaymentRepo) RevenueTotals(_ context.Context) (total, fees float64, err error) {
	for _, record := range f.records {
		if record.Status == domain.PaymentRecordSuccess {
			total += record.Amount
			fees += record.ProcessingFee
		}
	}

	return total, fees, nil
}

type fakeNotifier struct {
	registrationConfirms int
	paymentConfirms      int
	otpCodes             []string

	err error
}

func (f *fakeNotifier) SendRegistrationConfirmation(_ context.Context, _ domain.Attendee, _ domain.Registration, _ domain.Conference, _ domain.Session) error {
	f.registrationConfirms++

	return f.err
}

func (f *fakeNotifier) SendPaymentConfirmation(_ context.Context, _ domain.Attendee, _ domain.Registration, _ domain.PaymentRecord) error {
	f.paymentConfirms++

	return f.err
}

func (f *fakeNotifier) SendOTP(_ context.Context, _ domain.Attendee, code string) error {
	f.otpCodes = append(f.otpCodes, code)

	return f.err
}

type fakeEmailLogRepo struct {
	sentAt []time.Time
}

func (f *fakeEmailLogRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.sentAt)), nil
}

func (f *fakeEmailLogRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, at := range f.sentAt {
		if !at.Before(since) {
			count++
		}
	}

	return count, nil
}

type fakeUserRepo struct {
	byEmail map[string]domain.User
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}

	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

// stubSource replays queued values; exhausted queues yield zero.
type stubSource struct {
	floats []float64
	ints   []int
}

func (s *stubSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}

	v := s.floats[0]
	s.floats = s.floats[1:]

	return v
}

func (s *stubSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}

	v := s.ints[0]
	s.ints = s.ints[1:]

	return v % n
}
