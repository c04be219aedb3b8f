package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository"
)

type registrationFixture struct {
	svc            *RegistrationService
	conferenceRepo *fakeConferenceRepo
	repo           *fakeRegistrationRepo
	attendeeRepo   *fakeAttendeeRepo
	notifier       *fakeNotifier
}

func newRegistrationFixture() *registrationFixture {
	conferenceRepo := newFakeConferenceRepo()
	conferenceRepo.addConference(domain.Conference{
		ID:              1,
		Name:            "GopherCon",
		StartDate:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Status:          domain.ConferenceUpcoming,
		RegistrationFee: 250,
	})
	conferenceRepo.addSession(domain.Session{
		ID:           10,
		ConferenceID: 1,
		Name:         "Concurrency Patterns",
		Speaker:      "Ana Ribeiro",
		Date:         time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:00",
		EndTime:      "11:00",
		MaxAttendees: 2,
	})
	conferenceRepo.addSession(domain.Session{
		ID:           11,
		ConferenceID: 1,
		Name:         "Profiling Deep Dive",
		Speaker:      "Ben Okafor",
		Date:         time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:30",
		EndTime:      "11:30",
		MaxAttendees: 50,
	})
	conferenceRepo.addSession(domain.Session{
		ID:           12,
		ConferenceID: 1,
		Name:         "Afternoon Workshop",
		Speaker:      "Ana Ribeiro",
		Date:         time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    "14:00",
		EndTime:      "16:00",
		MaxAttendees: 50,
	})

	repo := newFakeRegistrationRepo(conferenceRepo.sessions)
	attendeeRepo := newFakeAttendeeRepo()
	notifier := &fakeNotifier{}

	svc := NewRegistrationService(repo, conferenceRepo, attendeeRepo, notifier, "https://meet.example.com/join")

	return &registrationFixture{
		svc:            svc,
		conferenceRepo: conferenceRepo,
		repo:           repo,
		attendeeRepo:   attendeeRepo,
		notifier:       notifier,
	}
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("admits an attendee and fires the confirmation", func(t *testing.T) {
		f := newRegistrationFixture()

		registration, err := f.svc.Register(ctx, 10, "Jordan Blake", "Jordan@Example.com")
		require.NoError(t, err)

		assert.Equal(t, uint(1), registration.ConferenceID)
		assert.Equal(t, uint(10), registration.SessionID)
		assert.Equal(t, 250.0, registration.Amount)
		assert.Equal(t, domain.PaymentPending, registration.PaymentStatus)
		assert.Regexp(t, `^INV-[0-9A-F]{8}$`, registration.InvoiceID)
		assert.Regexp(t, `^https://meet\.example\.com/join/[0-9a-f]{32}$`, registration.JoinLink)
		assert.Equal(t, 1, f.notifier.registrationConfirms)

		attendee, err := f.attendeeRepo.FindByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jordan Blake", attendee.Name)
	})

	t.Run("registering twice returns the existing registration", func(t *testing.T) {
		f := newRegistrationFixture()

		first, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)

		second, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.InvoiceID, second.InvoiceID)
		assert.Len(t, f.repo.registrations, 1)
	})

	t.Run("rejects an unknown session", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.svc.Register(ctx, 999, "Jordan Blake", "jordan@example.com")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.svc.Register(ctx, 10, "Jordan Blake", "not-an-email")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("rejects a full session", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.svc.Register(ctx, 10, "First", "first@example.com")
		require.NoError(t, err)
		_, err = f.svc.Register(ctx, 10, "Second", "second@example.com")
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, 10, "Third", "third@example.com")
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("rejects an overlapping session in the same conference", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, 11, "Jordan Blake", "jordan@example.com")
		assert.ErrorIs(t, err, ErrScheduleConflict)
		assert.Contains(t, err.Error(), "Concurrency Patterns")
	})

	t.Run("allows a non-overlapping session on the same day", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, 12, "Jordan Blake", "jordan@example.com")
		assert.NoError(t, err)
	})

	t.Run("proceeds when the overlap query fails", func(t *testing.T) {
		f := newRegistrationFixture()
		f.repo.overlapErr = context.DeadlineExceeded

		registration, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)
		assert.NotZero(t, registration.ID)
	})

	t.Run("regenerates identifiers on unique violations", func(t *testing.T) {
		f := newRegistrationFixture()
		f.repo.createErrs = []error{repository.ErrDuplicateID, repository.ErrDuplicateID}

		registration, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)
		assert.NotZero(t, registration.ID)
	})

	t.Run("gives up after three identifier collisions", func(t *testing.T) {
		f := newRegistrationFixture()
		f.repo.createErrs = []error{
			repository.ErrDuplicateID,
			repository.ErrDuplicateID,
			repository.ErrDuplicateID,
		}

		_, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		assert.ErrorIs(t, err, ErrIDGeneration)
	})

	t.Run("notification failure does not fail the registration", func(t *testing.T) {
		f := newRegistrationFixture()
		f.notifier.err = context.DeadlineExceeded

		registration, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)
		assert.NotZero(t, registration.ID)
	})
}

func TestRegistrationService_ListByAttendee(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown attendee gets an empty list", func(t *testing.T) {
		f := newRegistrationFixture()

		details, err := f.svc.ListByAttendee(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, details)
	})

	t.Run("returns the attendee's registrations", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.svc.Register(ctx, 10, "Jordan Blake", "jordan@example.com")
		require.NoError(t, err)

		details, err := f.svc.ListByAttendee(ctx, "jordan@example.com")
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Concurrency Patterns", details[0].SessionName)
	})
}
