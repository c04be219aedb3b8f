package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository"
)

// DefaultRecommendationLimit applies when the caller does not ask for a
// specific number of entries.
const DefaultRecommendationLimit = 5

type RecommendationConferenceRepository interface {
	FindActive(ctx context.Context) ([]domain.Conference, error)
	FindSessionByID(ctx context.Context, id uint) (domain.Session, error)
}

type RecommendationRegistrationRepository interface {
	FindByAttendeeID(ctx context.Context, attendeeID uint) ([]domain.RegistrationDetail, error)
	CountBySessionIDs(ctx context.Context, sessionIDs []uint) (map[uint]int64, error)
}

type RecommendationAttendeeRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.Attendee, error)
	FindPreferences(ctx context.Context, attendeeID uint) ([]domain.Preference, error)
}

type RecommendationService struct {
	conferenceRepo   RecommendationConferenceRepository
	registrationRepo RecommendationRegistrationRepository
	attendeeRepo     RecommendationAttendeeRepository
}

func NewRecommendationService(
	conferenceRepo RecommendationConferenceRepository,
	registrationRepo RecommendationRegistrationRepository,
	attendeeRepo RecommendationAttendeeRepository,
) *RecommendationService {
	return &RecommendationService{
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
		attendeeRepo:     attendeeRepo,
	}
}

type candidate struct {
	session    domain.Session
	conference domain.Conference
	count      int64
}

// Recommend ranks sessions of Upcoming/Ongoing conferences for an attendee:
// sessions by speakers the attendee has registered for or marked Interested
// come first (earliest conference first), topped up with the most-registered
// remaining sessions. Sessions the attendee already holds are excluded.
func (s *RecommendationService) Recommend(ctx context.Context, email string, limit int) ([]domain.RecommendedSession, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	conferences, err := s.conferenceRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.conferenceRepo.FindActive -> %w", err)
	}

	registered, speakers, err := s.attendeeHistory(ctx, email)
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	var sessionIDs []uint
	for _, conference := range conferences {
		for _, session := range conference.Sessions {
			if registered[session.ID] {
				continue
			}

			candidates = append(candidates, candidate{session: session, conference: conference})
			sessionIDs = append(sessionIDs, session.ID)
		}
	}

	counts, err := s.registrationRepo.CountBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("s.registrationRepo.CountBySessionIDs -> %w", err)
	}

	var matches, rest []candidate
	for _, c := range candidates {
		c.count = counts[c.session.ID]
		if speakers[c.session.Speaker] {
			matches = append(matches, c)
		} else {
			rest = append(rest, c)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].conference.StartDate.Before(matches[j].conference.StartDate)
	})
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].count != rest[j].count {
			return rest[i].count > rest[j].count
		}

		return rest[i].conference.StartDate.Before(rest[j].conference.StartDate)
	})

	ranked := append(matches, rest...)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recommendations := make([]domain.RecommendedSession, 0, len(ranked))
	for _, c := range ranked {
		spots := c.session.MaxAttendees - int(c.count)
		if spots < 0 {
			spots = 0
		}

		recommendations = append(recommendations, domain.RecommendedSession{
			SessionID:           c.session.ID,
			SessionName:         c.session.Name,
			Speaker:             c.session.Speaker,
			Date:                c.session.Date,
			StartTime:           c.session.StartTime,
			EndTime:             c.session.EndTime,
			ConferenceID:        c.conference.ID,
			ConferenceName:      c.conference.Name,
			ConferenceStartDate: c.conference.StartDate,
			MaxAttendees:        c.session.MaxAttendees,
			RegistrationCount:   int(c.count),
			AvailableSpots:      spots,
		})
	}

	return recommendations, nil
}

// attendeeHistory collects the attendee's registered session IDs and the
// speakers they have shown interest in. An unknown email yields an empty
// history, not an error.
func (s *RecommendationService) attendeeHistory(ctx context.Context, email string) (map[uint]bool, map[string]bool, error) {
	registered := make(map[uint]bool)
	speakers := make(map[string]bool)

	attendee, err := s.attendeeRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return registered, speakers, nil
		}

		return nil, nil, fmt.Errorf("s.attendeeRepo.FindByEmail -> %w", err)
	}

	details, err := s.registrationRepo.FindByAttendeeID(ctx, attendee.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("s.registrationRepo.FindByAttendeeID -> %w", err)
	}

	for _, detail := range details {
		registered[detail.SessionID] = true
		if detail.Speaker != "" {
			speakers[detail.Speaker] = true
		}
	}

	preferences, err := s.attendeeRepo.FindPreferences(ctx, attendee.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("s.attendeeRepo.FindPreferences -> %w", err)
	}

	for _, preference := range preferences {
		if preference.Type != domain.PreferenceInterested {
			continue
		}

		session, err := s.conferenceRepo.FindSessionByID(ctx, preference.SessionID)
		if err != nil {
			zap.L().Warn("skipping preference with unknown session",
				zap.Uint("session_id", preference.SessionID),
				zap.Error(err))

			continue
		}

		if session.Speaker != "" {
			speakers[session.Speaker] = true
		}
	}

	return registered, speakers, nil
}
