package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAttendeeNotFound    = errors.New("attendee not found")
	ErrAttendeeEmailExists = errors.New("attendee with this email already exists")
)

type Attendee struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Email          string `gorm:"unique;not null"`
	EmailVerified  bool   `gorm:"not null;default:false"`
	OTPCode        string
	OTPGeneratedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Preference struct {
	ID         uint   `gorm:"primaryKey"`
	AttendeeID uint   `gorm:"not null;uniqueIndex:idx_preferences_attendee_session"`
	SessionID  uint   `gorm:"not null;uniqueIndex:idx_preferences_attendee_session"`
	Type       string `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AttendeeDAO struct {
	db *gorm.DB
}

func NewAttendeeDAO(db *gorm.DB) *AttendeeDAO {
	return &AttendeeDAO{
		db: db,
	}
}

func (d *AttendeeDAO) Insert(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Create(&attendee)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_attendees_email"`) {
			return Attendee{}, ErrAttendeeEmailExists
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) Update(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Save(&attendee)
	if result.Error != nil {
		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByID(ctx context.Context, id uint) (Attendee, error) {
	var attendee Attendee

	result := d.db.WithContext(ctx).First(&attendee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByEmail(ctx context.Context, email string) (Attendee, error) {
	var attendee Attendee

	result := d.db.WithContext(ctx).First(&attendee, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

// UpsertPreference writes the (attendee, session) preference, overwriting
// any existing row. Last write wins.
func (d *AttendeeDAO) UpsertPreference(ctx context.Context, preference Preference) (Preference, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attendee_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
	}).Create(&preference)
	if result.Error != nil {
		return Preference{}, result.Error
	}

	return preference, nil
}

func (d *AttendeeDAO) FindPreferencesByAttendeeID(ctx context.Context, attendeeID uint) ([]Preference, error) {
	var preferences []Preference

	result := d.db.WithContext(ctx).
		Where("attendee_id = ?", attendeeID).
		Find(&preferences)
	if result.Error != nil {
		return nil, result.Error
	}

	return preferences, nil
}
