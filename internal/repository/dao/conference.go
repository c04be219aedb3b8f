package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrConferenceNotFound = errors.New("conference not found")
	ErrSessionNotFound    = errors.New("session not found")
)

type Conference struct {
	ID              uint      `gorm:"primaryKey"`
	Name            string    `gorm:"not null"`
	StartDate       time.Time `gorm:"not null"`
	EndDate         time.Time `gorm:"not null"`
	Location        string    `gorm:"not null"`
	Description     string
	Status          string    `gorm:"not null;default:Upcoming"`
	RegistrationFee float64   `gorm:"not null;default:0"`
	Sessions        []Session `gorm:"foreignKey:ConferenceID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Session struct {
	ID           uint       `gorm:"primaryKey"`
	ConferenceID uint       `gorm:"not null;index"`
	Conference   Conference `gorm:"foreignKey:ConferenceID"`
	Name         string     `gorm:"not null"`
	Speaker      string     `gorm:"not null"`
	Date         time.Time  `gorm:"not null"`
	StartTime    string     `gorm:"not null"` // "15:04"
	EndTime      string     `gorm:"not null"`
	MaxAttendees int        `gorm:"not null"`
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ConferenceDAO struct {
	db *gorm.DB
}

func NewConferenceDAO(db *gorm.DB) *ConferenceDAO {
	return &ConferenceDAO{
		db: db,
	}
}

func (d *ConferenceDAO) Insert(ctx context.Context, conference Conference) (Conference, error) {
	result := d.db.WithContext(ctx).Create(&conference)
	if result.Error != nil {
		return Conference{}, result.Error
	}

	return conference, nil
}

func (d *ConferenceDAO) Update(ctx context.Context, conference Conference) (Conference, error) {
	result := d.db.WithContext(ctx).Save(&conference)
	if result.Error != nil {
		return Conference{}, result.Error
	}

	return conference, nil
}

func (d *ConferenceDAO) FindByID(ctx context.Context, id uint) (Conference, error) {
	var conference Conference

	result := d.db.WithContext(ctx).First(&conference, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Conference{}, ErrConferenceNotFound
		}

		return Conference{}, result.Error
	}

	return conference, nil
}

// FindActive returns Upcoming/Ongoing conferences with their sessions,
// ordered by start date.
func (d *ConferenceDAO) FindActive(ctx context.Context) ([]Conference, error) {
	var conferences []Conference

	result := d.db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sessions.date ASC, sessions.start_time ASC")
		}).
		Where("status IN ?", []string{"Upcoming", "Ongoing"}).
		Order("start_date ASC").
		Find(&conferences)
	if result.Error != nil {
		return nil, result.Error
	}

	return conferences, nil
}

func (d *ConferenceDAO) InsertSession(ctx context.Context, session Session) (Session, error) {
	result := d.db.WithContext(ctx).Create(&session)
	if result.Error != nil {
		return Session{}, result.Error
	}

	return session, nil
}

func (d *ConferenceDAO) FindSessionByID(ctx context.Context, id uint) (Session, error) {
	var session Session

	result := d.db.WithContext(ctx).First(&session, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return session, nil
}

func (d *ConferenceDAO) FindSessionsByConferenceID(ctx context.Context, conferenceID uint) ([]Session, error) {
	var sessions []Session

	result := d.db.WithContext(ctx).
		Where("conference_id = ?", conferenceID).
		Order("date ASC, start_time ASC").
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}

	return sessions, nil
}

// FindSiblingSessions returns the other sessions of a conference on a given
// date, for overlap validation.
func (d *ConferenceDAO) FindSiblingSessions(ctx context.Context, conferenceID uint, date time.Time, excludeID uint) ([]Session, error) {
	var sessions []Session

	result := d.db.WithContext(ctx).
		Where("conference_id = ? AND date = ? AND id != ?", conferenceID, date, excludeID).
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}

	return sessions, nil
}

func (d *ConferenceDAO) CountConferences(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Conference{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *ConferenceDAO) CountActiveConferences(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Conference{}).
		Where("status IN ?", []string{"Upcoming", "Ongoing"}).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *ConferenceDAO) CountSessions(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Session{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
