package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confera/conference-api/internal/domain"
)

type recommendationFixture struct {
	svc          *RecommendationService
	repo         *fakeConferenceRepo
	repoReg      *fakeRegistrationRepo
	attendeeRepo *fakeAttendeeRepo
}

// Two active conferences. Jordan is registered for Ana's morning slot and
// marked Interested in Carol's talk, so other sessions by Ana and Carol are
// speaker matches; the rest rank by popularity.
func newRecommendationFixture(t *testing.T) *recommendationFixture {
	t.Helper()
	ctx := context.Background()

	repo := newFakeConferenceRepo()
	repo.addConference(domain.Conference{
		ID:        1,
		Name:      "GopherCon",
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	})
	repo.addConference(domain.Conference{
		ID:        2,
		Name:      "CloudNative Days",
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
	})

	repo.addSession(domain.Session{ID: 10, ConferenceID: 1, Name: "Concurrency Patterns", Speaker: "Ana Ribeiro", MaxAttendees: 50})
	repo.addSession(domain.Session{ID: 11, ConferenceID: 1, Name: "Channels in Anger", Speaker: "Ana Ribeiro", MaxAttendees: 50})
	repo.addSession(domain.Session{ID: 12, ConferenceID: 1, Name: "Profiling Deep Dive", Speaker: "Ben Okafor", MaxAttendees: 50})
	repo.addSession(domain.Session{ID: 20, ConferenceID: 2, Name: "Operators at Scale", Speaker: "Carol Mwangi", MaxAttendees: 50})
	repo.addSession(domain.Session{ID: 21, ConferenceID: 2, Name: "GitOps Pipelines", Speaker: "Dana Petrov", MaxAttendees: 50})

	repoReg := newFakeRegistrationRepo(repo.sessions)
	attendeeRepo := newFakeAttendeeRepo()

	jordan, err := attendeeRepo.Create(ctx, domain.Attendee{Name: "Jordan Blake", Email: "jordan@example.com"})
	require.NoError(t, err)

	_, err = repoReg.Create(ctx, domain.Registration{ConferenceID: 1, SessionID: 10, AttendeeID: jordan.ID, PaymentStatus: domain.PaymentPaid})
	require.NoError(t, err)

	_, err = attendeeRepo.SavePreference(ctx, domain.Preference{AttendeeID: jordan.ID, SessionID: 20, Type: domain.PreferenceInterested})
	require.NoError(t, err)

	// Popularity: three strangers in Ben's talk, one in Dana's.
	for _, r := range []domain.Registration{
		{ConferenceID: 1, SessionID: 12, AttendeeID: 100, PaymentStatus: domain.PaymentPaid},
		{ConferenceID: 1, SessionID: 12, AttendeeID: 101, PaymentStatus: domain.PaymentPaid},
		{ConferenceID: 1, SessionID: 12, AttendeeID: 102, PaymentStatus: domain.PaymentPending},
		{ConferenceID: 2, SessionID: 21, AttendeeID: 100, PaymentStatus: domain.PaymentPaid},
	} {
		_, err = repoReg.Create(ctx, r)
		require.NoError(t, err)
	}

	return &recommendationFixture{
		svc:          NewRecommendationService(repo, repoReg, attendeeRepo),
		repo:         repo,
		repoReg:      repoReg,
		attendeeRepo: attendeeRepo,
	}
}

func TestRecommendationService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("speaker matches first, then popularity", func(t *testing.T) {
		f := newRecommendationFixture(t)

		recommendations, err := f.svc.Recommend(ctx, "Jordan@Example.com", 0)
		require.NoError(t, err)
		require.Len(t, recommendations, 4)

		// Ana's other talk (earliest conference), then Carol's, then the
		// rest by registration count.
		assert.Equal(t, uint(11), recommendations[0].SessionID)
		assert.Equal(t, uint(20), recommendations[1].SessionID)
		assert.Equal(t, uint(12), recommendations[2].SessionID)
		assert.Equal(t, uint(21), recommendations[3].SessionID)

		assert.Equal(t, 3, recommendations[2].RegistrationCount)
		assert.Equal(t, 47, recommendations[2].AvailableSpots)
	})

	t.Run("excludes sessions the attendee holds", func(t *testing.T) {
		f := newRecommendationFixture(t)

		recommendations, err := f.svc.Recommend(ctx, "jordan@example.com", 0)
		require.NoError(t, err)
		for _, r := range recommendations {
			assert.NotEqual(t, uint(10), r.SessionID)
		}
	})

	t.Run("limit truncates the ranking", func(t *testing.T) {
		f := newRecommendationFixture(t)

		recommendations, err := f.svc.Recommend(ctx, "jordan@example.com", 2)
		require.NoError(t, err)
		require.Len(t, recommendations, 2)
		assert.Equal(t, uint(11), recommendations[0].SessionID)
		assert.Equal(t, uint(20), recommendations[1].SessionID)
	})

	t.Run("unknown attendee falls back to popularity", func(t *testing.T) {
		f := newRecommendationFixture(t)

		recommendations, err := f.svc.Recommend(ctx, "nobody@example.com", 2)
		require.NoError(t, err)
		require.Len(t, recommendations, 2)

		// Jordan's morning slot counts toward popularity for a stranger.
		assert.Equal(t, uint(12), recommendations[0].SessionID)
		assert.Equal(t, uint(10), recommendations[1].SessionID)
	})
}
