package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PaymentRecord struct {
	ID                   uint    `gorm:"primaryKey"`
	RegistrationID       uint    `gorm:"not null;index"`
	TransactionID        string  `gorm:"unique;not null"`
	GatewayTransactionID string  `gorm:"not null"`
	Method               string  `gorm:"not null"`
	Amount               float64 `gorm:"not null"`
	ProcessingFee        float64 `gorm:"not null"`
	NetAmount            float64 `gorm:"not null"`
	Status               string  `gorm:"not null"`
	CardLastFour         string
	CardType             string
	BankName             string
	UPIID                string `gorm:"column:upi_id"`
	GatewayResponse      string
	FailureReason        string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

// CreateWithStatusUpdate inserts the payment record and updates the owning
// registration's payment status in one transaction, so a crash between the
// two writes cannot leave a paid registration without its record.
func (d *PaymentDAO) CreateWithStatusUpdate(ctx context.Context, record PaymentRecord, paymentStatus string) (PaymentRecord, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var registration Registration
		if err := tx.First(&registration, record.RegistrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}

			return err
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"payment_status":    paymentStatus,
			"payment_record_id": record.ID,
		}

		return tx.Model(&Registration{}).
			Where("id = ?", record.RegistrationID).
			Updates(updates).Error
	})
	if err != nil {
		return PaymentRecord{}, err
	}

	return record, nil
}

func (d *PaymentDAO) FindByRegistrationID(ctx context.Context, registrationID uint) ([]PaymentRecord, error) {
	var records []PaymentRecord

	result := d.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

type revenueTotals struct {
	Total float64
	Fees  float64
}

// RevenueTotals sums gross revenue and processing fees over successful
// payments.
func (d *PaymentDAO) RevenueTotals(ctx context.Context) (total, fees float64, err error) {
	var row revenueTotals

	result := d.db.WithContext(ctx).Model(&PaymentRecord{}).
		Select("COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(processing_fee), 0) AS fees").
		Where("status = ?", "Success").
		Scan(&row)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	return row.Total, row.Fees, nil
}
