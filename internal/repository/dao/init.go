package dao

import (
	"gorm.io/gorm"
)

// InitTables runs the schema migrations.
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Conference{},
		&Session{},
		&Attendee{},
		&Registration{},
		&PaymentRecord{},
		&Preference{},
		&EmailLog{},
	)
}
