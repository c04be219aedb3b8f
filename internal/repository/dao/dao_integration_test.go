package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, skipping dao integration tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=conference_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	_ = resource.Expire(300)

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=conference_test sslmode=disable",
			resource.GetPort("5432/tcp"))

		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if testDB == nil {
		t.Skip("docker unavailable")
	}

	return testDB
}

func seedSession(t *testing.T, db *gorm.DB, maxAttendees int) Session {
	t.Helper()

	conference := Conference{
		Name:      "GopherCon",
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Location:  "Berlin",
		Status:    "Upcoming",
	}
	require.NoError(t, db.Create(&conference).Error)

	session := Session{
		ConferenceID: conference.ID,
		Name:         "Concurrency Patterns",
		Speaker:      "Ana Ribeiro",
		Date:         time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    "10:00",
		EndTime:      "11:00",
		MaxAttendees: maxAttendees,
	}
	require.NoError(t, db.Create(&session).Error)

	return session
}

func seedAttendee(t *testing.T, db *gorm.DB, email string) Attendee {
	t.Helper()

	attendee := Attendee{Name: "Jordan Blake", Email: email}
	require.NoError(t, db.Create(&attendee).Error)

	return attendee
}

func TestRegistrationDAO_CreateWithCapacityCheck(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	d := NewRegistrationDAO(db)

	t.Run("admits until the session is full", func(t *testing.T) {
		session := seedSession(t, db, 1)
		first := seedAttendee(t, db, "cap-first@example.com")
		second := seedAttendee(t, db, "cap-second@example.com")

		created, err := d.CreateWithCapacityCheck(ctx, Registration{
			ConferenceID:     session.ConferenceID,
			SessionID:        session.ID,
			AttendeeID:       first.ID,
			Amount:           250,
			PaymentStatus:    "Pending",
			InvoiceID:        "INV-CAP00001",
			JoinLink:         "https://meet.example.com/join/cap00001",
			RegistrationDate: time.Now(),
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		_, err = d.CreateWithCapacityCheck(ctx, Registration{
			ConferenceID:     session.ConferenceID,
			SessionID:        session.ID,
			AttendeeID:       second.ID,
			Amount:           250,
			PaymentStatus:    "Pending",
			InvoiceID:        "INV-CAP00002",
			JoinLink:         "https://meet.example.com/join/cap00002",
			RegistrationDate: time.Now(),
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := d.CreateWithCapacityCheck(ctx, Registration{
			SessionID:  999999,
			InvoiceID:  "INV-NOSESS01",
			JoinLink:   "https://meet.example.com/join/nosess01",
			AttendeeID: 1,
		})
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("duplicate invoice surfaces as a duplicate ID", func(t *testing.T) {
		session := seedSession(t, db, 10)
		attendee := seedAttendee(t, db, "dup-invoice@example.com")

		_, err := d.CreateWithCapacityCheck(ctx, Registration{
			ConferenceID:     session.ConferenceID,
			SessionID:        session.ID,
			AttendeeID:       attendee.ID,
			PaymentStatus:    "Pending",
			InvoiceID:        "INV-DUP00001",
			JoinLink:         "https://meet.example.com/join/dup00001",
			RegistrationDate: time.Now(),
		})
		require.NoError(t, err)

		_, err = d.CreateWithCapacityCheck(ctx, Registration{
			ConferenceID:     session.ConferenceID,
			SessionID:        session.ID,
			AttendeeID:       attendee.ID,
			PaymentStatus:    "Pending",
			InvoiceID:        "INV-DUP00001",
			JoinLink:         "https://meet.example.com/join/dup00002",
			RegistrationDate: time.Now(),
		})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})
}

func TestPaymentDAO_CreateWithStatusUpdate(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	registrations := NewRegistrationDAO(db)
	payments := NewPaymentDAO(db)

	t.Run("flips the registration status atomically", func(t *testing.T) {
		session := seedSession(t, db, 10)
		attendee := seedAttendee(t, db, "pay-flip@example.com")

		registration, err := registrations.CreateWithCapacityCheck(ctx, Registration{
			ConferenceID:     session.ConferenceID,
			SessionID:        session.ID,
			AttendeeID:       attendee.ID,
			Amount:           100,
			PaymentStatus:    "Pending",
			InvoiceID:        "INV-PAY00001",
			JoinLink:         "https://meet.example.com/join/pay00001",
			RegistrationDate: time.Now(),
		})
		require.NoError(t, err)

		record, err := payments.CreateWithStatusUpdate(ctx, PaymentRecord{
			RegistrationID:       registration.ID,
			TransactionID:        "TXN_PAY00000001",
			GatewayTransactionID: "GW_PAY0000000001",
			Method:               "Credit Card",
			Amount:               100,
			ProcessingFee:        2.5,
			NetAmount:            97.5,
			Status:               "Success",
		}, "Paid")
		require.NoError(t, err)
		assert.NotZero(t, record.ID)

		updated, err := registrations.FindByID(ctx, registration.ID)
		require.NoError(t, err)
		assert.Equal(t, "Paid", updated.PaymentStatus)
		require.NotNil(t, updated.PaymentRecordID)
		assert.Equal(t, record.ID, *updated.PaymentRecordID)
	})

	t.Run("unknown registration leaves no record", func(t *testing.T) {
		_, err := payments.CreateWithStatusUpdate(ctx, PaymentRecord{
			RegistrationID: 999999,
			TransactionID:  "TXN_PAYORPHAN1",
		}, "Paid")
		assert.ErrorIs(t, err, ErrRegistrationNotFound)

		records, err := payments.FindByRegistrationID(ctx, 999999)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestAttendeeDAO_Insert_DuplicateEmail(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	d := NewAttendeeDAO(db)

	_, err := d.Insert(ctx, Attendee{Name: "Jordan Blake", Email: "dup-email@example.com"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, Attendee{Name: "Jordan Blake", Email: "dup-email@example.com"})
	assert.ErrorIs(t, err, ErrAttendeeEmailExists)
}

func TestAttendeeDAO_UpsertPreference(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	d := NewAttendeeDAO(db)

	session := seedSession(t, db, 10)
	attendee := seedAttendee(t, db, "prefs@example.com")

	_, err := d.UpsertPreference(ctx, Preference{
		AttendeeID: attendee.ID,
		SessionID:  session.ID,
		Type:       "Interested",
	})
	require.NoError(t, err)

	_, err = d.UpsertPreference(ctx, Preference{
		AttendeeID: attendee.ID,
		SessionID:  session.ID,
		Type:       "Not Interested",
	})
	require.NoError(t, err)

	preferences, err := d.FindPreferencesByAttendeeID(ctx, attendee.ID)
	require.NoError(t, err)
	require.Len(t, preferences, 1)
	assert.Equal(t, "Not Interested", preferences[0].Type)
}
