package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrCapacityExceeded     = errors.New("session is full")
	ErrInvalidCapacity      = errors.New("session has invalid capacity")
	ErrDuplicateID          = errors.New("generated identifier already exists")
)

type Registration struct {
	ID               uint    `gorm:"primaryKey"`
	ConferenceID     uint    `gorm:"not null;index"`
	SessionID        uint    `gorm:"not null;index"`
	AttendeeID       uint    `gorm:"not null;index"`
	Amount           float64 `gorm:"not null"`
	PaymentStatus    string  `gorm:"not null;default:Pending"`
	InvoiceID        string  `gorm:"unique;not null"`
	JoinLink         string  `gorm:"unique;not null"`
	RegistrationDate time.Time
	PaymentRecordID  *uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RegistrationRow joins a registration with its conference, session, attendee
// and latest successful payment attempt.
type RegistrationRow struct {
	Registration

	ConferenceName string
	SessionName    string
	Speaker        string
	SessionDate    time.Time
	StartTime      string
	EndTime        string
	AttendeeName   string
	AttendeeEmail  string
	PaymentMethod  string
	TransactionID  string
	ProcessingFee  float64
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// CreateWithCapacityCheck inserts a registration only if the session still has
// room. The session row is locked FOR UPDATE for the duration of the
// transaction so that two concurrent registrations for the last spot cannot
// both pass the count check.
func (d *RegistrationDAO) CreateWithCapacityCheck(ctx context.Context, registration Registration) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, registration.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}

			return err
		}

		if session.MaxAttendees <= 0 {
			return ErrInvalidCapacity
		}

		var count int64
		if err := tx.Model(&Registration{}).
			Where("session_id = ?", registration.SessionID).
			Count(&count).Error; err != nil {
			return err
		}

		if count >= int64(session.MaxAttendees) {
			return ErrCapacityExceeded
		}

		if err := tx.Create(&registration).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrDuplicateID
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).First(&registration, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindBySessionAndAttendee(ctx context.Context, sessionID, attendeeID uint) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).
		First(&registration, "session_id = ? AND attendee_id = ?", sessionID, attendeeID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByAttendeeID(ctx context.Context, attendeeID uint) ([]RegistrationRow, error) {
	var rows []RegistrationRow

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Select(`registrations.*,
			conferences.name AS conference_name,
			sessions.name AS session_name,
			sessions.speaker AS speaker,
			sessions.date AS session_date,
			sessions.start_time AS start_time,
			sessions.end_time AS end_time,
			payment_records.method AS payment_method,
			payment_records.transaction_id AS transaction_id,
			payment_records.processing_fee AS processing_fee`).
		Joins("JOIN conferences ON conferences.id = registrations.conference_id").
		Joins("JOIN sessions ON sessions.id = registrations.session_id").
		Joins("LEFT JOIN payment_records ON payment_records.id = registrations.payment_record_id").
		Where("registrations.attendee_id = ?", attendeeID).
		Order("registrations.registration_date DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// FindOverlapCandidates returns the attendee's paid-or-pending registrations
// in a conference on a given date, with session times, so the caller can run
// interval checks.
func (d *RegistrationDAO) FindOverlapCandidates(ctx context.Context, attendeeID, conferenceID uint, date time.Time) ([]Session, error) {
	var sessions []Session

	result := d.db.WithContext(ctx).Model(&Session{}).
		Joins("JOIN registrations ON registrations.session_id = sessions.id").
		Where("registrations.attendee_id = ? AND registrations.conference_id = ? AND sessions.date = ?",
			attendeeID, conferenceID, date).
		Where("registrations.payment_status IN ?", []string{"Pending", "Paid"}).
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}

	return sessions, nil
}

func (d *RegistrationDAO) CountBySessionID(ctx context.Context, sessionID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("session_id = ?", sessionID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

type sessionCount struct {
	SessionID uint
	Count     int64
}

// CountBySessionIDs returns registration counts keyed by session ID.
func (d *RegistrationDAO) CountBySessionIDs(ctx context.Context, sessionIDs []uint) (map[uint]int64, error) {
	if len(sessionIDs) == 0 {
		return map[uint]int64{}, nil
	}

	var rows []sessionCount

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Select("session_id, COUNT(*) AS count").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SessionID] = row.Count
	}

	return counts, nil
}

func (d *RegistrationDAO) CountRegistrations(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Registration{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RegistrationDAO) FindRecent(ctx context.Context, limit int) ([]RegistrationRow, error) {
	var rows []RegistrationRow

	result := d.db.WithContext(ctx).Model(&Registration{}).
		Select(`registrations.*,
			conferences.name AS conference_name,
			sessions.name AS session_name,
			attendees.name AS attendee_name,
			attendees.email AS attendee_email,
			payment_records.method AS payment_method,
			payment_records.transaction_id AS transaction_id`).
		Joins("JOIN conferences ON conferences.id = registrations.conference_id").
		Joins("JOIN sessions ON sessions.id = registrations.session_id").
		Joins("JOIN attendees ON attendees.id = registrations.attendee_id").
		Joins("LEFT JOIN payment_records ON payment_records.id = registrations.payment_record_id").
		Order("registrations.registration_date DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
