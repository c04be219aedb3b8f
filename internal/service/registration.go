package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.uber.org/zap"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/pkg/token"
	"github.com/confera/conference-api/internal/repository"
)

// maxIDAttempts bounds invoice/join-link regeneration on unique violations.
const maxIDAttempts = 3

var (
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrCapacityExceeded     = repository.ErrCapacityExceeded
	ErrInvalidCapacity      = repository.ErrInvalidCapacity
	ErrAttendeeNotFound     = repository.ErrAttendeeNotFound
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrScheduleConflict     = errors.New("schedule conflict")
	ErrIDGeneration         = errors.New("could not generate a unique registration identifier")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	FindBySessionAndAttendee(ctx context.Context, sessionID, attendeeID uint) (domain.Registration, error)
	FindByAttendeeID(ctx context.Context, attendeeID uint) ([]domain.RegistrationDetail, error)
	FindOverlapCandidates(ctx context.Context, attendeeID, conferenceID uint, date time.Time) ([]domain.Session, error)
}

type RegistrationConferenceRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Conference, error)
	FindSessionByID(ctx context.Context, id uint) (domain.Session, error)
}

type RegistrationAttendeeRepository interface {
	Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	FindByEmail(ctx context.Context, email string) (domain.Attendee, error)
}

type RegistrationNotifier interface {
	SendRegistrationConfirmation(ctx context.Context, attendee domain.Attendee, registration domain.Registration, conference domain.Conference, session domain.Session) error
}

type RegistrationService struct {
	repo           RegistrationRepository
	conferenceRepo RegistrationConferenceRepository
	attendeeRepo   RegistrationAttendeeRepository
	notifier       RegistrationNotifier

	joinLinkBaseURL string
	newInvoiceID    func() string
	newJoinLink     func(baseURL string) string
	now             func() time.Time
}

func NewRegistrationService(
	repo RegistrationRepository,
	conferenceRepo RegistrationConferenceRepository,
	attendeeRepo RegistrationAttendeeRepository,
	notifier RegistrationNotifier,
	joinLinkBaseURL string,
) *RegistrationService {
	return &RegistrationService{
		repo:            repo,
		conferenceRepo:  conferenceRepo,
		attendeeRepo:    attendeeRepo,
		notifier:        notifier,
		joinLinkBaseURL: joinLinkBaseURL,
		newInvoiceID:    token.InvoiceID,
		newJoinLink:     token.JoinLink,
		now:             time.Now,
	}
}

// Register admits an attendee into a session. Registering twice for the same
// session returns the existing registration unchanged.
func (s *RegistrationService) Register(ctx context.Context, sessionID uint, attendeeName, email string) (domain.Registration, error) {
	email = normalizeEmail(email)
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return domain.Registration{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	session, err := s.conferenceRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Registration{}, ErrSessionNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.conferenceRepo.FindSessionByID -> %w", err)
	}

	conference, err := s.conferenceRepo.FindByID(ctx, session.ConferenceID)
	if err != nil {
		if errors.Is(err, repository.ErrConferenceNotFound) {
			return domain.Registration{}, ErrConferenceNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.conferenceRepo.FindByID -> %w", err)
	}

	attendee, err := s.upsertAttendee(ctx, attendeeName, email)
	if err != nil {
		return domain.Registration{}, err
	}

	existing, err := s.repo.FindBySessionAndAttendee(ctx, session.ID, attendee.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrRegistrationNotFound) {
		return domain.Registration{}, fmt.Errorf("s.repo.FindBySessionAndAttendee -> %w", err)
	}

	if err := s.checkScheduleConflict(ctx, attendee.ID, session); err != nil {
		return domain.Registration{}, err
	}

	registration, err := s.createWithFreshIDs(ctx, domain.Registration{
		ConferenceID:     conference.ID,
		SessionID:        session.ID,
		AttendeeID:       attendee.ID,
		Amount:           conference.RegistrationFee,
		PaymentStatus:    domain.PaymentPending,
		RegistrationDate: s.now(),
	})
	if err != nil {
		return domain.Registration{}, err
	}

	if err := s.notifier.SendRegistrationConfirmation(ctx, attendee, registration, conference, session); err != nil {
		zap.L().Warn("failed to send registration confirmation",
			zap.Uint("registration_id", registration.ID),
			zap.Error(err))
	}

	return registration, nil
}

func (s *RegistrationService) upsertAttendee(ctx context.Context, name, email string) (domain.Attendee, error) {
	attendee, err := s.attendeeRepo.FindByEmail(ctx, email)
	if err == nil {
		return attendee, nil
	}
	if !errors.Is(err, repository.ErrAttendeeNotFound) {
		return domain.Attendee{}, fmt.Errorf("s.attendeeRepo.FindByEmail -> %w", err)
	}

	created, err := s.attendeeRepo.Create(ctx, domain.Attendee{Name: name, Email: email})
	if err != nil {
		// A concurrent registration may have created the attendee first.
		if errors.Is(err, repository.ErrAttendeeEmailExists) {
			return s.attendeeRepo.FindByEmail(ctx, email)
		}

		return domain.Attendee{}, fmt.Errorf("s.attendeeRepo.Create -> %w", err)
	}

	return created, nil
}

// checkScheduleConflict is advisory. When the candidate query fails the
// registration proceeds; the capacity gate inside Create stays mandatory.
func (s *RegistrationService) checkScheduleConflict(ctx context.Context, attendeeID uint, session domain.Session) error {
	candidates, err := s.repo.FindOverlapCandidates(ctx, attendeeID, session.ConferenceID, session.Date)
	if err != nil {
		zap.L().Warn("overlap check skipped",
			zap.Uint("attendee_id", attendeeID),
			zap.Uint("session_id", session.ID),
			zap.Error(err))

		return nil
	}

	for _, candidate := range candidates {
		if candidate.ID == session.ID {
			continue
		}

		if session.Overlaps(candidate) {
			return fmt.Errorf("%w with session %q (%v-%v)",
				ErrScheduleConflict, candidate.Name, candidate.StartTime, candidate.EndTime)
		}
	}

	return nil
}

func (s *RegistrationService) createWithFreshIDs(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		registration.InvoiceID = s.newInvoiceID()
		registration.JoinLink = s.newJoinLink(s.joinLinkBaseURL)

		created, err := s.repo.Create(ctx, registration)
		if err == nil {
			return created, nil
		}

		if errors.Is(err, repository.ErrDuplicateID) {
			continue
		}

		if errors.Is(err, repository.ErrCapacityExceeded) ||
			errors.Is(err, repository.ErrInvalidCapacity) ||
			errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Registration{}, err
		}

		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return domain.Registration{}, ErrIDGeneration
}

// ListByAttendee returns the attendee's registrations with conference,
// session and payment summaries.
func (s *RegistrationService) ListByAttendee(ctx context.Context, email string) ([]domain.RegistrationDetail, error) {
	attendee, err := s.attendeeRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return []domain.RegistrationDetail{}, nil
		}

		return nil, fmt.Errorf("s.attendeeRepo.FindByEmail -> %w", err)
	}

	details, err := s.repo.FindByAttendeeID(ctx, attendee.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByAttendeeID -> %w", err)
	}

	return details, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
