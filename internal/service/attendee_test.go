package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confera/conference-api/internal/domain"
)

type attendeeFixture struct {
	svc      *AttendeeService
	repo     *fakeAttendeeRepo
	sessions *fakeConferenceRepo
	repoReg  *fakeRegistrationRepo
	notifier *fakeNotifier

	now time.Time
}

func newAttendeeFixture() *attendeeFixture {
	sessions := newFakeConferenceRepo()
	sessions.addSession(domain.Session{
		ID:           10,
		ConferenceID: 1,
		Name:         "Concurrency Patterns",
		Speaker:      "Ana Ribeiro",
		MaxAttendees: 50,
	})

	repo := newFakeAttendeeRepo()
	repoReg := newFakeRegistrationRepo(sessions.sessions)
	notifier := &fakeNotifier{}

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	svc := NewAttendeeService(repo, sessions, repoReg, notifier)
	svc.newOTP = func() string { return "123456" }
	svc.now = func() time.Time { return now }

	return &attendeeFixture{
		svc:      svc,
		repo:     repo,
		sessions: sessions,
		repoReg:  repoReg,
		notifier: notifier,
		now:      now,
	}
}

func (f *attendeeFixture) seedAttendee(t *testing.T) domain.Attendee {
	t.Helper()

	attendee, err := f.repo.Create(context.Background(), domain.Attendee{
		Name:  "Jordan Blake",
		Email: "jordan@example.com",
	})
	require.NoError(t, err)

	return attendee
}

func TestAttendeeService_GenerateOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and dispatches the code", func(t *testing.T) {
		f := newAttendeeFixture()
		f.seedAttendee(t)

		err := f.svc.GenerateOTP(ctx, "Jordan@Example.com")
		require.NoError(t, err)

		attendee, err := f.repo.FindByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.Equal(t, "123456", attendee.OTPCode)
		require.NotNil(t, attendee.OTPGeneratedAt)
		assert.Equal(t, f.now, *attendee.OTPGeneratedAt)
		assert.Equal(t, []string{"123456"}, f.notifier.otpCodes)
	})

	t.Run("unknown attendee", func(t *testing.T) {
		f := newAttendeeFixture()

		err := f.svc.GenerateOTP(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})

	t.Run("a new code replaces the old one", func(t *testing.T) {
		f := newAttendeeFixture()
		f.seedAttendee(t)

		require.NoError(t, f.svc.GenerateOTP(ctx, "jordan@example.com"))
		f.svc.newOTP = func() string { return "654321" }
		require.NoError(t, f.svc.GenerateOTP(ctx, "jordan@example.com"))

		assert.ErrorIs(t, f.svc.VerifyOTP(ctx, "jordan@example.com", "123456"), ErrOTPInvalid)
		assert.NoError(t, f.svc.VerifyOTP(ctx, "jordan@example.com", "654321"))
	})
}

func TestAttendeeService_VerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the email verified and clears the code", func(t *testing.T) {
		f := newAttendeeFixture()
		f.seedAttendee(t)
		require.NoError(t, f.svc.GenerateOTP(ctx, "jordan@example.com"))

		err := f.svc.VerifyOTP(ctx, "jordan@example.com", "123456")
		require.NoError(t, err)

		attendee, err := f.repo.FindByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.True(t, attendee.EmailVerified)
		assert.Empty(t, attendee.OTPCode)
		assert.Nil(t, attendee.OTPGeneratedAt)

		// The cleared code cannot be replayed.
		assert.ErrorIs(t, f.svc.VerifyOTP(ctx, "jordan@example.com", "123456"), ErrOTPNotRequested)
	})

	t.Run("no code requested", func(t *testing.T) {
		f := newAttendeeFixture()
		f.seedAttendee(t)

		err := f.svc.VerifyOTP(ctx, "jordan@example.com", "123456")
		assert.ErrorIs(t, err, ErrOTPNotRequested)
	})

	t.Run("expired code is cleared", func(t *testing.T) {
		f := newAttendeeFixture()
		f.seedAttendee(t)
		require.NoError(t, f.svc.GenerateOTP(ctx, "jordan@example.com"))

		f.svc.now = func() time.Time { return f.now.Add(domain.OTPValidity + time.Second) }

		err := f.svc.VerifyOTP(ctx, "jordan@example.com", "123456")
		assert.ErrorIs(t, err, ErrOTPExpired)

		attendee, err := f.repo.FindByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.Empty(t, attendee.OTPCode)
		assert.False(t, attendee.EmailVerified)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAttendeeFixture()
		f.seedAttendee(t)
		require.NoError(t, f.svc.GenerateOTP(ctx, "jordan@example.com"))

		err := f.svc.VerifyOTP(ctx, "jordan@example.com", "000000")
		assert.ErrorIs(t, err, ErrOTPInvalid)

		attendee, err := f.repo.FindByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.False(t, attendee.EmailVerified)
		assert.Equal(t, "123456", attendee.OTPCode)
	})
}

func TestAttendeeService_SavePreference(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the attendee on first use", func(t *testing.T) {
		f := newAttendeeFixture()

		saved, err := f.svc.SavePreference(ctx, "Jordan Blake", "Jordan@Example.com", 10, domain.PreferenceInterested)
		require.NoError(t, err)
		assert.Equal(t, domain.PreferenceInterested, saved.Type)

		attendee, err := f.repo.FindByEmail(ctx, "jordan@example.com")
		require.NoError(t, err)
		assert.Equal(t, attendee.ID, saved.AttendeeID)
	})

	t.Run("last write wins", func(t *testing.T) {
		f := newAttendeeFixture()

		first, err := f.svc.SavePreference(ctx, "Jordan Blake", "jordan@example.com", 10, domain.PreferenceInterested)
		require.NoError(t, err)
		second, err := f.svc.SavePreference(ctx, "Jordan Blake", "jordan@example.com", 10, domain.PreferenceNotInterested)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)

		preferences, err := f.repo.FindPreferences(ctx, first.AttendeeID)
		require.NoError(t, err)
		require.Len(t, preferences, 1)
		assert.Equal(t, domain.PreferenceNotInterested, preferences[0].Type)
	})

	t.Run("invalid preference type", func(t *testing.T) {
		f := newAttendeeFixture()

		_, err := f.svc.SavePreference(ctx, "Jordan Blake", "jordan@example.com", 10, "Meh")
		assert.ErrorIs(t, err, ErrInvalidPreferenceType)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newAttendeeFixture()

		_, err := f.svc.SavePreference(ctx, "Jordan Blake", "jordan@example.com", 99, domain.PreferenceInterested)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestAttendeeService_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown attendee", func(t *testing.T) {
		f := newAttendeeFixture()

		_, err := f.svc.Profile(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrAttendeeNotFound)
	})

	t.Run("assembles preferences and registrations", func(t *testing.T) {
		f := newAttendeeFixture()
		attendee := f.seedAttendee(t)

		_, err := f.svc.SavePreference(ctx, attendee.Name, attendee.Email, 10, domain.PreferenceInterested)
		require.NoError(t, err)
		_, err = f.repoReg.Create(ctx, domain.Registration{
			ConferenceID: 1,
			SessionID:    10,
			AttendeeID:   attendee.ID,
		})
		require.NoError(t, err)

		profile, err := f.svc.Profile(ctx, "jordan@example.com")
		require.NoError(t, err)

		require.NotNil(t, profile.Attendee)
		assert.Equal(t, attendee.ID, profile.Attendee.ID)
		require.Len(t, profile.Preferences, 1)
		assert.Equal(t, "Concurrency Patterns", profile.Preferences[0].SessionName)
		assert.Equal(t, "Ana Ribeiro", profile.Preferences[0].Speaker)
		require.Len(t, profile.Registrations, 1)
	})
}
