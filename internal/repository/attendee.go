package repository

import (
	"context"
	"fmt"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository/dao"
)

var (
	ErrAttendeeNotFound    = dao.ErrAttendeeNotFound
	ErrAttendeeEmailExists = dao.ErrAttendeeEmailExists
)

type AttendeeDAO interface {
	Insert(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	Update(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	FindByID(ctx context.Context, id uint) (dao.Attendee, error)
	FindByEmail(ctx context.Context, email string) (dao.Attendee, error)
	UpsertPreference(ctx context.Context, preference dao.Preference) (dao.Preference, error)
	FindPreferencesByAttendeeID(ctx context.Context, attendeeID uint) ([]dao.Preference, error)
}

type AttendeeRepository struct {
	dao AttendeeDAO
}

func NewAttendeeRepository(dao AttendeeDAO) *AttendeeRepository {
	return &AttendeeRepository{
		dao: dao,
	}
}

func (r *AttendeeRepository) Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	created, err := r.dao.Insert(ctx, dao.Attendee{
		Name:  attendee.Name,
		Email: attendee.Email,
	})
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AttendeeRepository) Update(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	updated, err := r.dao.Update(ctx, dao.Attendee{
		ID:             attendee.ID,
		Name:           attendee.Name,
		Email:          attendee.Email,
		EmailVerified:  attendee.EmailVerified,
		OTPCode:        attendee.OTPCode,
		OTPGeneratedAt: attendee.OTPGeneratedAt,
		CreatedAt:      attendee.CreatedAt,
	})
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *AttendeeRepository) FindByID(ctx context.Context, id uint) (domain.Attendee, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AttendeeRepository) FindByEmail(ctx context.Context, email string) (domain.Attendee, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AttendeeRepository) SavePreference(ctx context.Context, preference domain.Preference) (domain.Preference, error) {
	saved, err := r.dao.UpsertPreference(ctx, dao.Preference{
		AttendeeID: preference.AttendeeID,
		SessionID:  preference.SessionID,
		Type:       string(preference.Type),
	})
	if err != nil {
		return domain.Preference{}, fmt.Errorf("r.dao.UpsertPreference -> %w", err)
	}

	return r.preferenceDaoToDomain(saved), nil
}

func (r *AttendeeRepository) FindPreferences(ctx context.Context, attendeeID uint) ([]domain.Preference, error) {
	found, err := r.dao.FindPreferencesByAttendeeID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPreferencesByAttendeeID -> %w", err)
	}

	preferences := make([]domain.Preference, 0, len(found))
	for _, p := range found {
		preferences = append(preferences, r.preferenceDaoToDomain(p))
	}

	return preferences, nil
}

func (r *AttendeeRepository) daoToDomain(a dao.Attendee) domain.Attendee {
	return domain.Attendee{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		EmailVerified:  a.EmailVerified,
		OTPCode:        a.OTPCode,
		OTPGeneratedAt: a.OTPGeneratedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (r *AttendeeRepository) preferenceDaoToDomain(p dao.Preference) domain.Preference {
	return domain.Preference{
		ID:         p.ID,
		AttendeeID: p.AttendeeID,
		SessionID:  p.SessionID,
		Type:       domain.PreferenceType(p.Type),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
