package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository"
)

const (
	MinSessionMinutes  = 15
	MaxSessionCapacity = 1000
)

var (
	ErrConferenceNotFound       = repository.ErrConferenceNotFound
	ErrSessionNotFound          = repository.ErrSessionNotFound
	ErrInvalidDateRange         = errors.New("conference end date must not be before its start date")
	ErrNegativeFee              = errors.New("registration fee cannot be negative")
	ErrInvalidSessionTime       = errors.New("invalid session time")
	ErrSessionTooShort          = errors.New("session must be at least 15 minutes long")
	ErrSessionOutsideConference = errors.New("session date is outside the conference dates")
	ErrInvalidSessionCapacity   = errors.New("session capacity must be between 1 and 1000")
	ErrSessionOverlap           = errors.New("session overlaps")
)

type ConferenceRepository interface {
	Create(ctx context.Context, conference domain.Conference) (domain.Conference, error)
	FindByID(ctx context.Context, id uint) (domain.Conference, error)
	FindActive(ctx context.Context) ([]domain.Conference, error)
	CreateSession(ctx context.Context, session domain.Session) (domain.Session, error)
	FindSessionByID(ctx context.Context, id uint) (domain.Session, error)
	FindSessionsByConferenceID(ctx context.Context, conferenceID uint) ([]domain.Session, error)
	FindSiblingSessions(ctx context.Context, conferenceID uint, date time.Time, excludeID uint) ([]domain.Session, error)
}

type ConferenceRegistrationRepository interface {
	FindByAttendeeID(ctx context.Context, attendeeID uint) ([]domain.RegistrationDetail, error)
	CountBySessionIDs(ctx context.Context, sessionIDs []uint) (map[uint]int64, error)
}

type ConferenceAttendeeRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.Attendee, error)
}

type ConferenceService struct {
	repo             ConferenceRepository
	registrationRepo ConferenceRegistrationRepository
	attendeeRepo     ConferenceAttendeeRepository

	now func() time.Time
}

func NewConferenceService(repo ConferenceRepository, registrationRepo ConferenceRegistrationRepository, attendeeRepo ConferenceAttendeeRepository) *ConferenceService {
	return &ConferenceService{
		repo:             repo,
		registrationRepo: registrationRepo,
		attendeeRepo:     attendeeRepo,
		now:              time.Now,
	}
}

func (s *ConferenceService) CreateConference(ctx context.Context, conference domain.Conference) (domain.Conference, error) {
	if conference.EndDate.Before(conference.StartDate) {
		return domain.Conference{}, ErrInvalidDateRange
	}

	if conference.RegistrationFee < 0 {
		return domain.Conference{}, ErrNegativeFee
	}

	conference.DeriveStatus(s.now())

	created, err := s.repo.Create(ctx, conference)
	if err != nil {
		return domain.Conference{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// CreateSession validates the session against its conference and siblings
// before inserting it.
func (s *ConferenceService) CreateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	conference, err := s.repo.FindByID(ctx, session.ConferenceID)
	if err != nil {
		if errors.Is(err, repository.ErrConferenceNotFound) {
			return domain.Session{}, ErrConferenceNotFound
		}

		return domain.Session{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := s.validateSession(ctx, conference, session); err != nil {
		return domain.Session{}, err
	}

	created, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.repo.CreateSession -> %w", err)
	}

	return created, nil
}

func (s *ConferenceService) validateSession(ctx context.Context, conference domain.Conference, session domain.Session) error {
	duration, err := session.DurationMinutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSessionTime, err)
	}

	if duration < MinSessionMinutes {
		return ErrSessionTooShort
	}

	if session.Date.Before(conference.StartDate) || session.Date.After(conference.EndDate) {
		return ErrSessionOutsideConference
	}

	if session.MaxAttendees <= 0 || session.MaxAttendees > MaxSessionCapacity {
		return ErrInvalidSessionCapacity
	}

	siblings, err := s.repo.FindSiblingSessions(ctx, session.ConferenceID, session.Date, session.ID)
	if err != nil {
		return fmt.Errorf("s.repo.FindSiblingSessions -> %w", err)
	}

	for _, sibling := range siblings {
		if session.Overlaps(sibling) {
			return fmt.Errorf("%w with session %q (%v-%v)",
				ErrSessionOverlap, sibling.Name, sibling.StartTime, sibling.EndTime)
		}
	}

	return nil
}

func (s *ConferenceService) ListActiveConferences(ctx context.Context) ([]domain.Conference, error) {
	conferences, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return conferences, nil
}

// ListSessions decorates a conference's sessions with availability and,
// when the caller's email resolves to a known attendee, their registration
// state.
func (s *ConferenceService) ListSessions(ctx context.Context, conferenceID uint, callerEmail string) ([]domain.SessionListing, error) {
	if _, err := s.repo.FindByID(ctx, conferenceID); err != nil {
		if errors.Is(err, repository.ErrConferenceNotFound) {
			return nil, ErrConferenceNotFound
		}

		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	sessions, err := s.repo.FindSessionsByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSessionsByConferenceID -> %w", err)
	}

	sessionIDs := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}

	counts, err := s.registrationRepo.CountBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("s.registrationRepo.CountBySessionIDs -> %w", err)
	}

	registered := make(map[uint]bool)
	if callerEmail != "" {
		attendee, err := s.attendeeRepo.FindByEmail(ctx, normalizeEmail(callerEmail))
		if err == nil {
			details, err := s.registrationRepo.FindByAttendeeID(ctx, attendee.ID)
			if err != nil {
				return nil, fmt.Errorf("s.registrationRepo.FindByAttendeeID -> %w", err)
			}

			for _, detail := range details {
				registered[detail.SessionID] = true
			}
		} else if !errors.Is(err, repository.ErrAttendeeNotFound) {
			return nil, fmt.Errorf("s.attendeeRepo.FindByEmail -> %w", err)
		}
	}

	listings := make([]domain.SessionListing, 0, len(sessions))
	for _, session := range sessions {
		count := int(counts[session.ID])
		spots := session.MaxAttendees - count
		if spots < 0 {
			spots = 0
		}

		listings = append(listings, domain.SessionListing{
			Session:         session,
			RegisteredCount: count,
			AvailableSpots:  spots,
			UserRegistered:  registered[session.ID],
		})
	}

	return listings, nil
}
