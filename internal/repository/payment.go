package repository

import (
	"context"
	"fmt"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/repository/dao"
)

type PaymentDAO interface {
	CreateWithStatusUpdate(ctx context.Context, record dao.PaymentRecord, paymentStatus string) (dao.PaymentRecord, error)
	FindByRegistrationID(ctx context.Context, registrationID uint) ([]dao.PaymentRecord, error)
	RevenueTotals(ctx context.Context) (total, fees float64, err error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

// RecordAttempt stores the charge attempt and moves the registration to the
// given payment status atomically.
func (r *PaymentRepository) RecordAttempt(ctx context.Context, record domain.PaymentRecord, status domain.PaymentStatus) (domain.PaymentRecord, error) {
	created, err := r.dao.CreateWithStatusUpdate(ctx, dao.PaymentRecord{
		RegistrationID:       record.RegistrationID,
		TransactionID:        record.TransactionID,
		GatewayTransactionID: record.GatewayTransactionID,
		Method:               record.Method,
		Amount:               record.Amount,
		ProcessingFee:        record.ProcessingFee,
		NetAmount:            record.NetAmount,
		Status:               string(record.Status),
		CardLastFour:         record.CardLastFour,
		CardType:             record.CardType,
		BankName:             record.BankName,
		UPIID:                record.UPIID,
		GatewayResponse:      record.GatewayResponse,
		FailureReason:        record.FailureReason,
	}, string(status))
	if err != nil {
		return domain.PaymentRecord{}, fmt.Errorf("r.dao.CreateWithStatusUpdate -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByRegistrationID(ctx context.Context, registrationID uint) ([]domain.PaymentRecord, error) {
	found, err := r.dao.FindByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRegistrationID -> %w", err)
	}

	records := make([]domain.PaymentRecord, 0, len(found))
	for _, rec := range found {
		records = append(records, r.daoToDomain(rec))
	}

	return records, nil
}

func (r *PaymentRepository) RevenueTotals(ctx context.Context) (total, fees float64, err error) {
	total, fees, err = r.dao.RevenueTotals(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.RevenueTotals -> %w", err)
	}

	return total, fees, nil
}

func (r *PaymentRepository) daoToDomain(rec dao.PaymentRecord) domain.PaymentRecord {
	return domain.PaymentRecord{
		ID:                   rec.ID,
		RegistrationID:       rec.RegistrationID,
		TransactionID:        rec.TransactionID,
		GatewayTransactionID: rec.GatewayTransactionID,
		Method:               rec.Method,
		Amount:               rec.Amount,
		ProcessingFee:        rec.ProcessingFee,
		NetAmount:            rec.NetAmount,
		Status:               domain.PaymentRecordStatus(rec.Status),
		CardLastFour:         rec.CardLastFour,
		CardType:             rec.CardType,
		BankName:             rec.BankName,
		UPIID:                rec.UPIID,
		GatewayResponse:      rec.GatewayResponse,
		FailureReason:        rec.FailureReason,
		CreatedAt:            rec.CreatedAt,
	}
}
