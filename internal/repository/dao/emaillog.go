package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type EmailLog struct {
	ID             uint   `gorm:"primaryKey"`
	Recipient      string `gorm:"not null"`
	Subject        string `gorm:"not null"`
	Body           string `gorm:"not null"`
	EmailType      string `gorm:"not null"`
	RegistrationID *uint
	CreatedAt      time.Time
}

type EmailLogDAO struct {
	db *gorm.DB
}

func NewEmailLogDAO(db *gorm.DB) *EmailLogDAO {
	return &EmailLogDAO{
		db: db,
	}
}

func (d *EmailLogDAO) Insert(ctx context.Context, log EmailLog) (EmailLog, error) {
	result := d.db.WithContext(ctx).Create(&log)
	if result.Error != nil {
		return EmailLog{}, result.Error
	}

	return log, nil
}

func (d *EmailLogDAO) CountAll(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&EmailLog{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *EmailLogDAO) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&EmailLog{}).
		Where("created_at >= ?", since).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
