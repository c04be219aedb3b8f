package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrCapacityExceeded     = dao.ErrCapacityExceeded
	ErrInvalidCapacity      = dao.ErrInvalidCapacity
	ErrDuplicateID          = dao.ErrDuplicateID
)

type RegistrationDAO interface {
	CreateWithCapacityCheck(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	FindBySessionAndAttendee(ctx context.Context, sessionID, attendeeID uint) (dao.Registration, error)
	FindByAttendeeID(ctx context.Context, attendeeID uint) ([]dao.RegistrationRow, error)
	FindOverlapCandidates(ctx context.Context, attendeeID, conferenceID uint, date time.Time) ([]dao.Session, error)
	CountBySessionID(ctx context.Context, sessionID uint) (int64, error)
	CountBySessionIDs(ctx context.Context, sessionIDs []uint) (map[uint]int64, error)
	CountRegistrations(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]dao.RegistrationRow, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

// Create inserts the registration behind the capacity gate.
func (r *RegistrationRepository) Create(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	created, err := r.dao.CreateWithCapacityCheck(ctx, dao.Registration{
		ConferenceID:     registration.ConferenceID,
		SessionID:        registration.SessionID,
		AttendeeID:       registration.AttendeeID,
		Amount:           registration.Amount,
		PaymentStatus:    string(registration.PaymentStatus),
		InvoiceID:        registration.InvoiceID,
		JoinLink:         registration.JoinLink,
		RegistrationDate: registration.RegistrationDate,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.CreateWithCapacityCheck -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindBySessionAndAttendee(ctx context.Context, sessionID, attendeeID uint) (domain.Registration, error) {
	found, err := r.dao.FindBySessionAndAttendee(ctx, sessionID, attendeeID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindBySessionAndAttendee -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) FindByAttendeeID(ctx context.Context, attendeeID uint) ([]domain.RegistrationDetail, error) {
	rows, err := r.dao.FindByAttendeeID(ctx, attendeeID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByAttendeeID -> %w", err)
	}

	details := make([]domain.RegistrationDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, domain.RegistrationDetail{
			Registration:   r.daoToDomain(row.Registration),
			ConferenceName: row.ConferenceName,
			SessionName:    row.SessionName,
			Speaker:        row.Speaker,
			SessionDate:    row.SessionDate,
			StartTime:      row.StartTime,
			EndTime:        row.EndTime,
			PaymentMethod:  row.PaymentMethod,
			TransactionID:  row.TransactionID,
			ProcessingFee:  row.ProcessingFee,
		})
	}

	return details, nil
}

// FindOverlapCandidates returns the sessions the attendee already holds a
// Pending or Paid registration for, in a conference on a given date.
func (r *RegistrationRepository) FindOverlapCandidates(ctx context.Context, attendeeID, conferenceID uint, date time.Time) ([]domain.Session, error) {
	found, err := r.dao.FindOverlapCandidates(ctx, attendeeID, conferenceID, date)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOverlapCandidates -> %w", err)
	}

	sessions := make([]domain.Session, 0, len(found))
	for _, s := range found {
		sessions = append(sessions, domain.Session{
			ID:           s.ID,
			ConferenceID: s.ConferenceID,
			Name:         s.Name,
			Speaker:      s.Speaker,
			Date:         s.Date,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			MaxAttendees: s.MaxAttendees,
			Description:  s.Description,
		})
	}

	return sessions, nil
}

func (r *RegistrationRepository) CountBySessionID(ctx context.Context, sessionID uint) (int64, error) {
	count, err := r.dao.CountBySessionID(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountBySessionID -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) CountBySessionIDs(ctx context.Context, sessionIDs []uint) (map[uint]int64, error) {
	counts, err := r.dao.CountBySessionIDs(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountBySessionIDs -> %w", err)
	}

	return counts, nil
}

func (r *RegistrationRepository) CountRegistrations(ctx context.Context) (int64, error) {
	count, err := r.dao.CountRegistrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountRegistrations -> %w", err)
	}

	return count, nil
}

func (r *RegistrationRepository) FindRecent(ctx context.Context, limit int) ([]domain.AdminRegistration, error) {
	rows, err := r.dao.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecent -> %w", err)
	}

	registrations := make([]domain.AdminRegistration, 0, len(rows))
	for _, row := range rows {
		registrations = append(registrations, domain.AdminRegistration{
			RegistrationID:   row.ID,
			RegistrationDate: row.RegistrationDate,
			PaymentStatus:    domain.PaymentStatus(row.PaymentStatus),
			Amount:           row.Amount,
			ConferenceName:   row.ConferenceName,
			SessionName:      row.SessionName,
			AttendeeName:     row.AttendeeName,
			AttendeeEmail:    row.AttendeeEmail,
			PaymentMethod:    row.PaymentMethod,
			TransactionID:    row.TransactionID,
		})
	}

	return registrations, nil
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	return domain.Registration{
		ID:               reg.ID,
		ConferenceID:     reg.ConferenceID,
		SessionID:        reg.SessionID,
		AttendeeID:       reg.AttendeeID,
		Amount:           reg.Amount,
		PaymentStatus:    domain.PaymentStatus(reg.PaymentStatus),
		InvoiceID:        reg.InvoiceID,
		JoinLink:         reg.JoinLink,
		RegistrationDate: reg.RegistrationDate,
		PaymentRecordID:  reg.PaymentRecordID,
		CreatedAt:        reg.CreatedAt,
		UpdatedAt:        reg.UpdatedAt,
	}
}
