package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository/dao"
)

var (
	ErrConferenceNotFound = dao.ErrConferenceNotFound
	ErrSessionNotFound    = dao.ErrSessionNotFound
)

type ConferenceDAO interface {
	Insert(ctx context.Context, conference dao.Conference) (dao.Conference, error)
	Update(ctx context.Context, conference dao.Conference) (dao.Conference, error)
	FindByID(ctx context.Context, id uint) (dao.Conference, error)
	FindActive(ctx context.Context) ([]dao.Conference, error)
	InsertSession(ctx context.Context, session dao.Session) (dao.Session, error)
	FindSessionByID(ctx context.Context, id uint) (dao.Session, error)
	FindSessionsByConferenceID(ctx context.Context, conferenceID uint) ([]dao.Session, error)
	FindSiblingSessions(ctx context.Context, conferenceID uint, date time.Time, excludeID uint) ([]dao.Session, error)
	CountConferences(ctx context.Context) (int64, error)
	CountActiveConferences(ctx context.Context) (int64, error)
	CountSessions(ctx context.Context) (int64, error)
}

type ConferenceRepository struct {
	dao ConferenceDAO
}

func NewConferenceRepository(dao ConferenceDAO) *ConferenceRepository {
	return &ConferenceRepository{
		dao: dao,
	}
}

func (r *ConferenceRepository) Create(ctx context.Context, conference domain.Conference) (domain.Conference, error) {
	created, err := r.dao.Insert(ctx, dao.Conference{
		Name:            conference.Name,
		StartDate:       conference.StartDate,
		EndDate:         conference.EndDate,
		Location:        conference.Location,
		Description:     conference.Description,
		Status:          string(conference.Status),
		RegistrationFee: conference.RegistrationFee,
	})
	if err != nil {
		return domain.Conference{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ConferenceRepository) FindByID(ctx context.Context, id uint) (domain.Conference, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Conference{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ConferenceRepository) FindActive(ctx context.Context) ([]domain.Conference, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	conferences := make([]domain.Conference, 0, len(found))
	for _, c := range found {
		conferences = append(conferences, r.daoToDomain(c))
	}

	return conferences, nil
}

func (r *ConferenceRepository) CreateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	created, err := r.dao.InsertSession(ctx, dao.Session{
		ConferenceID: session.ConferenceID,
		Name:         session.Name,
		Speaker:      session.Speaker,
		Date:         session.Date,
		StartTime:    session.StartTime,
		EndTime:      session.EndTime,
		MaxAttendees: session.MaxAttendees,
		Description:  session.Description,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.InsertSession -> %w", err)
	}

	return r.sessionDaoToDomain(created), nil
}

func (r *ConferenceRepository) FindSessionByID(ctx context.Context, id uint) (domain.Session, error) {
	found, err := r.dao.FindSessionByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindSessionByID -> %w", err)
	}

	return r.sessionDaoToDomain(found), nil
}

func (r *ConferenceRepository) FindSessionsByConferenceID(ctx context.Context, conferenceID uint) ([]domain.Session, error) {
	found, err := r.dao.FindSessionsByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSessionsByConferenceID -> %w", err)
	}

	sessions := make([]domain.Session, 0, len(found))
	for _, s := range found {
		sessions = append(sessions, r.sessionDaoToDomain(s))
	}

	return sessions, nil
}

func (r *ConferenceRepository) FindSiblingSessions(ctx context.Context, conferenceID uint, date time.Time, excludeID uint) ([]domain.Session, error) {
	found, err := r.dao.FindSiblingSessions(ctx, conferenceID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSiblingSessions -> %w", err)
	}

	sessions := make([]domain.Session, 0, len(found))
	for _, s := range found {
		sessions = append(sessions, r.sessionDaoToDomain(s))
	}

	return sessions, nil
}

func (r *ConferenceRepository) CountConferences(ctx context.Context) (int64, error) {
	count, err := r.dao.CountConferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountConferences -> %w", err)
	}

	return count, nil
}

func (r *ConferenceRepository) CountActiveConferences(ctx context.Context) (int64, error) {
	count, err := r.dao.CountActiveConferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActiveConferences -> %w", err)
	}

	return count, nil
}

func (r *ConferenceRepository) CountSessions(ctx context.Context) (int64, error) {
	count, err := r.dao.CountSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountSessions -> %w", err)
	}

	return count, nil
}

func (r *ConferenceRepository) daoToDomain(c dao.Conference) domain.Conference {
	sessions := make([]domain.Session, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		sessions = append(sessions, r.sessionDaoToDomain(s))
	}

	return domain.Conference{
		ID:              c.ID,
		Name:            c.Name,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Location:        c.Location,
		Description:     c.Description,
		Status:          domain.ConferenceStatus(c.Status),
		RegistrationFee: c.RegistrationFee,
		Sessions:        sessions,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (r *ConferenceRepository) sessionDaoToDomain(s dao.Session) domain.Session {
	return domain.Session{
		ID:           s.ID,
		ConferenceID: s.ConferenceID,
		Name:         s.Name,
		Speaker:      s.Speaker,
		Date:         s.Date,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		MaxAttendees: s.MaxAttendees,
		Description:  s.Description,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
