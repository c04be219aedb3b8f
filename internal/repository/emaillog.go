package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository/dao"
)

type EmailLogDAO interface {
	Insert(ctx context.Context, log dao.EmailLog) (dao.EmailLog, error)
	CountAll(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type EmailLogRepository struct {
	dao EmailLogDAO
}

func NewEmailLogRepository(dao EmailLogDAO) *EmailLogRepository {
	return &EmailLogRepository{
		dao: dao,
	}
}

func (r *EmailLogRepository) Create(ctx context.Context, log domain.EmailLog) (domain.EmailLog, error) {
	created, err := r.dao.Insert(ctx, dao.EmailLog{
		Recipient:      log.Recipient,
		Subject:        log.Subject,
		Body:           log.Body,
		EmailType:      log.EmailType,
		RegistrationID: log.RegistrationID,
	})
	if err != nil {
		return domain.EmailLog{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EmailLogRepository) CountAll(ctx context.Context) (int64, error) {
	count, err := r.dao.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountAll -> %w", err)
	}

	return count, nil
}

func (r *EmailLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.dao.CountSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountSince -> %w", err)
	}

	return count, nil
}

func (r *EmailLogRepository) daoToDomain(log dao.EmailLog) domain.EmailLog {
	return domain.EmailLog{
		ID:             log.ID,
		Recipient:      log.Recipient,
		Subject:        log.Subject,
		Body:           log.Body,
		EmailType:      log.EmailType,
		RegistrationID: log.RegistrationID,
		CreatedAt:      log.CreatedAt,
	}
}
