package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/confera/conference-api/internal/domain"
)

type EmailLogRepository interface {
	Create(ctx context.Context, log domain.EmailLog) (domain.EmailLog, error)
}

// NotificationService is a mock email dispatcher. Nothing leaves the system;
// every "sent" email becomes an EmailLog row.
type NotificationService struct {
	repo EmailLogRepository
}

func NewNotificationService(repo EmailLogRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

func (s *NotificationService) SendRegistrationConfirmation(ctx context.Context, attendee domain.Attendee, registration domain.Registration, conference domain.Conference, session domain.Session) error {
	var body strings.Builder

	fmt.Fprintf(&body, "Dear %v,\n\n", attendee.Name)
	fmt.Fprintf(&body, "Your registration has been confirmed for:\n\n")
	fmt.Fprintf(&body, "%v\n", session.Name)
	fmt.Fprintf(&body, "Conference: %v\n", conference.Name)
	fmt.Fprintf(&body, "Speaker: %v\n", session.Speaker)
	fmt.Fprintf(&body, "Date: %v\n", session.Date.Format("2006-01-02"))
	fmt.Fprintf(&body, "Time: %v - %v\n", session.StartTime, session.EndTime)
	fmt.Fprintf(&body, "Location: %v\n\n", conference.Location)
	fmt.Fprintf(&body, "Registration ID: %v\n", registration.ID)
	fmt.Fprintf(&body, "Invoice ID: %v\n", registration.InvoiceID)
	fmt.Fprintf(&body, "Amount: %.2f\n", registration.Amount)
	fmt.Fprintf(&body, "Payment Status: %v\n", registration.PaymentStatus)
	if registration.JoinLink != "" {
		fmt.Fprintf(&body, "Join Link: %v\n", registration.JoinLink)
	}
	fmt.Fprintf(&body, "\nThank you for registering!\n")

	_, err := s.repo.Create(ctx, domain.EmailLog{
		Recipient:      attendee.Email,
		Subject:        fmt.Sprintf("Registration Confirmed - %v", session.Name),
		Body:           body.String(),
		EmailType:      domain.EmailRegistrationConfirmation,
		RegistrationID: &registration.ID,
	})
	if err != nil {
		return fmt.Errorf("s.repo.Create -> %w", err)
	}

	return nil
}

func (s *NotificationService) SendPaymentConfirmation(ctx context.Context, attendee domain.Attendee, registration domain.Registration, record domain.PaymentRecord) error {
	var body strings.Builder

	fmt.Fprintf(&body, "Dear %v,\n\n", attendee.Name)
	fmt.Fprintf(&body, "Your payment has been successfully processed!\n\n")
	fmt.Fprintf(&body, "Amount Paid: %.2f\n", record.Amount)
	fmt.Fprintf(&body, "Processing Fee: %.2f\n", record.ProcessingFee)
	fmt.Fprintf(&body, "Transaction ID: %v\n", record.TransactionID)
	fmt.Fprintf(&body, "Invoice ID: %v\n", registration.InvoiceID)
	fmt.Fprintf(&body, "Payment Method: %v\n", record.Method)
	fmt.Fprintf(&body, "Status: Confirmed\n")
	if registration.JoinLink != "" {
		fmt.Fprintf(&body, "Join Link: %v\n", registration.JoinLink)
	}
	fmt.Fprintf(&body, "\nWe look forward to seeing you at the conference!\n")

	_, err := s.repo.Create(ctx, domain.EmailLog{
		Recipient:      attendee.Email,
		Subject:        fmt.Sprintf("Payment Confirmed - Invoice %v", registration.InvoiceID),
		Body:           body.String(),
		EmailType:      domain.EmailPaymentConfirmation,
		RegistrationID: &registration.ID,
	})
	if err != nil {
		return fmt.Errorf("s.repo.Create -> %w", err)
	}

	return nil
}

func (s *NotificationService) SendOTP(ctx context.Context, attendee domain.Attendee, code string) error {
	var body strings.Builder

	fmt.Fprintf(&body, "Dear %v,\n\n", attendee.Name)
	fmt.Fprintf(&body, "Your verification code is: %v\n\n", code)
	fmt.Fprintf(&body, "The code expires in 10 minutes.\n")

	_, err := s.repo.Create(ctx, domain.EmailLog{
		Recipient: attendee.Email,
		Subject:   "Your Email Verification Code",
		Body:      body.String(),
		EmailType: domain.EmailOTP,
	})
	if err != nil {
		return fmt.Errorf("s.repo.Create -> %w", err)
	}

	return nil
}
