package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/pkg/token"
	"github.com/confera/conference-api/internal/repository"
)

var (
	ErrInvalidPreferenceType = errors.New("invalid preference type")
	ErrOTPNotRequested       = errors.New("no verification code was requested")
	ErrOTPExpired            = errors.New("verification code has expired")
	ErrOTPInvalid            = errors.New("verification code does not match")
)

type AttendeeRepository interface {
	Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	Update(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	FindByEmail(ctx context.Context, email string) (domain.Attendee, error)
	SavePreference(ctx context.Context, preference domain.Preference) (domain.Preference, error)
	FindPreferences(ctx context.Context, attendeeID uint) ([]domain.Preference, error)
}

type AttendeeSessionRepository interface {
	FindSessionByID(ctx context.Context, id uint) (domain.Session, error)
}

type AttendeeRegistrationRepository interface {
	FindByAttendeeID(ctx context.Context, attendeeID uint) ([]domain.RegistrationDetail, error)
}

type OTPNotifier interface {
	SendOTP(ctx context.Context, attendee domain.Attendee, code string) error
}

type AttendeeService struct {
	repo             AttendeeRepository
	sessionRepo      AttendeeSessionRepository
	registrationRepo AttendeeRegistrationRepository
	notifier         OTPNotifier

	newOTP func() string
	now    func() time.Time
}

func NewAttendeeService(
	repo AttendeeRepository,
	sessionRepo AttendeeSessionRepository,
	registrationRepo AttendeeRegistrationRepository,
	notifier OTPNotifier,
) *AttendeeService {
	return &AttendeeService{
		repo:             repo,
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		notifier:         notifier,
		newOTP:           token.OTP,
		now:              time.Now,
	}
}

// Profile assembles the attendee record with preferences and registrations.
func (s *AttendeeService) Profile(ctx context.Context, email string) (domain.AttendeeProfile, error) {
	attendee, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return domain.AttendeeProfile{}, ErrAttendeeNotFound
		}

		return domain.AttendeeProfile{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	preferences, err := s.repo.FindPreferences(ctx, attendee.ID)
	if err != nil {
		return domain.AttendeeProfile{}, fmt.Errorf("s.repo.FindPreferences -> %w", err)
	}

	details := make([]domain.PreferenceDetail, 0, len(preferences))
	for _, preference := range preferences {
		detail := domain.PreferenceDetail{
			SessionID: preference.SessionID,
			Type:      preference.Type,
		}

		session, err := s.sessionRepo.FindSessionByID(ctx, preference.SessionID)
		if err != nil {
			zap.L().Warn("preference references unknown session",
				zap.Uint("session_id", preference.SessionID),
				zap.Error(err))
		} else {
			detail.SessionName = session.Name
			detail.Speaker = session.Speaker
		}

		details = append(details, detail)
	}

	registrations, err := s.registrationRepo.FindByAttendeeID(ctx, attendee.ID)
	if err != nil {
		return domain.AttendeeProfile{}, fmt.Errorf("s.registrationRepo.FindByAttendeeID -> %w", err)
	}

	return domain.AttendeeProfile{
		Attendee:      &attendee,
		Preferences:   details,
		Registrations: registrations,
	}, nil
}

// GenerateOTP issues a fresh 6-digit code, stores it with the issue time and
// dispatches it through the mock mailer. A new code replaces any prior one.
func (s *AttendeeService) GenerateOTP(ctx context.Context, email string) error {
	attendee, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return ErrAttendeeNotFound
		}

		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	code := s.newOTP()
	issuedAt := s.now()
	attendee.OTPCode = code
	attendee.OTPGeneratedAt = &issuedAt

	if _, err := s.repo.Update(ctx, attendee); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	if err := s.notifier.SendOTP(ctx, attendee, code); err != nil {
		return fmt.Errorf("s.notifier.SendOTP -> %w", err)
	}

	return nil
}

// VerifyOTP checks the submitted code. A correct code within the validity
// window marks the email verified; expired or wrong codes are rejected, and
// an expired code is cleared so it cannot be retried.
func (s *AttendeeService) VerifyOTP(ctx context.Context, email, code string) error {
	attendee, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return ErrAttendeeNotFound
		}

		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if attendee.OTPCode == "" {
		return ErrOTPNotRequested
	}

	if attendee.OTPExpired(s.now()) {
		attendee.OTPCode = ""
		attendee.OTPGeneratedAt = nil
		if _, err := s.repo.Update(ctx, attendee); err != nil {
			return fmt.Errorf("s.repo.Update -> %w", err)
		}

		return ErrOTPExpired
	}

	if attendee.OTPCode != code {
		return ErrOTPInvalid
	}

	attendee.OTPCode = ""
	attendee.OTPGeneratedAt = nil
	attendee.EmailVerified = true

	if _, err := s.repo.Update(ctx, attendee); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

// SavePreference upserts the caller's preference for a session. The attendee
// record is created on first use.
func (s *AttendeeService) SavePreference(ctx context.Context, name, email string, sessionID uint, preferenceType domain.PreferenceType) (domain.Preference, error) {
	if !domain.ValidPreferenceType(preferenceType) {
		return domain.Preference{}, fmt.Errorf("%w: %q", ErrInvalidPreferenceType, preferenceType)
	}

	if _, err := s.sessionRepo.FindSessionByID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Preference{}, ErrSessionNotFound
		}

		return domain.Preference{}, fmt.Errorf("s.sessionRepo.FindSessionByID -> %w", err)
	}

	email = normalizeEmail(email)

	attendee, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrAttendeeNotFound) {
			return domain.Preference{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
		}

		attendee, err = s.repo.Create(ctx, domain.Attendee{Name: name, Email: email})
		if err != nil {
			if errors.Is(err, repository.ErrAttendeeEmailExists) {
				attendee, err = s.repo.FindByEmail(ctx, email)
			}
			if err != nil {
				return domain.Preference{}, fmt.Errorf("s.repo.Create -> %w", err)
			}
		}
	}

	saved, err := s.repo.SavePreference(ctx, domain.Preference{
		AttendeeID: attendee.ID,
		SessionID:  sessionID,
		Type:       preferenceType,
	})
	if err != nil {
		return domain.Preference{}, fmt.Errorf("s.repo.SavePreference -> %w", err)
	}

	return saved, nil
}
