package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/confera/conference-api/internal/domain"
	"github.com/confera/conference-api/internal/pkg/token"
	"github.com/confera/conference-api/internal/repository"
)

var (
	ErrAlreadyPaid          = errors.New("registration is already paid")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Source is the randomness behind the simulated gateway. *rand.Rand
// satisfies it; tests seed it to pin outcomes.
type Source interface {
	Float64() float64
	Intn(n int) int
}

type gatewayScenario struct {
	success bool
	message string
	code    string
	weight  float64
}

// Roughly an 80% success rate overall.
var gatewayScenarios = []gatewayScenario{
	{success: true, message: "Payment processed successfully", code: "00", weight: 0.30},
	{success: true, message: "Payment completed via UPI", code: "00", weight: 0.25},
	{success: true, message: "Card payment successful", code: "00", weight: 0.25},
	{success: false, message: "Insufficient funds", code: "51", weight: 0.08},
	{success: false, message: "Card declined", code: "05", weight: 0.07},
	{success: false, message: "Network timeout", code: "91", weight: 0.05},
}

var cardTypes = []string{"Visa", "MasterCard", "RuPay", "American Express"}

var bankNames = []string{"HDFC Bank", "ICICI Bank", "SBI", "Axis Bank", "Kotak Bank"}

var upiProviders = []string{"@paytm", "@phonepe", "@googlepay", "@amazonpay"}

// PaymentResult is the outcome of one charge attempt.
type PaymentResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Record  domain.PaymentRecord `json:"payment_record"`
}

type PaymentRepository interface {
	RecordAttempt(ctx context.Context, record domain.PaymentRecord, status domain.PaymentStatus) (domain.PaymentRecord, error)
	FindByRegistrationID(ctx context.Context, registrationID uint) ([]domain.PaymentRecord, error)
}

type PaymentRegistrationRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
}

type PaymentAttendeeRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Attendee, error)
}

type PaymentNotifier interface {
	SendPaymentConfirmation(ctx context.Context, attendee domain.Attendee, registration domain.Registration, record domain.PaymentRecord) error
}

type PaymentService struct {
	repo             PaymentRepository
	registrationRepo PaymentRegistrationRepository
	attendeeRepo     PaymentAttendeeRepository
	notifier         PaymentNotifier

	src              Source
	newTransactionID func() string
	newGatewayID     func() string
	now              func() time.Time
}

func NewPaymentService(
	repo PaymentRepository,
	registrationRepo PaymentRegistrationRepository,
	attendeeRepo PaymentAttendeeRepository,
	notifier PaymentNotifier,
	src Source,
) *PaymentService {
	return &PaymentService{
		repo:             repo,
		registrationRepo: registrationRepo,
		attendeeRepo:     attendeeRepo,
		notifier:         notifier,
		src:              src,
		newTransactionID: token.TransactionID,
		newGatewayID:     token.GatewayTransactionID,
		now:              time.Now,
	}
}

// Charge runs one simulated payment attempt against a registration. Every
// attempt leaves a PaymentRecord; a Failed registration may be charged again.
func (s *PaymentService) Charge(ctx context.Context, registrationID uint, method string) (PaymentResult, error) {
	if !validPaymentMethod(method) {
		return PaymentResult{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	registration, err := s.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return PaymentResult{}, ErrRegistrationNotFound
		}

		return PaymentResult{}, fmt.Errorf("s.registrationRepo.FindByID -> %w", err)
	}

	if registration.IsPaid() {
		return PaymentResult{}, ErrAlreadyPaid
	}

	scenario := s.drawScenario()
	fee := domain.ProcessingFee(registration.Amount)

	record := domain.PaymentRecord{
		RegistrationID:       registration.ID,
		TransactionID:        s.newTransactionID(),
		GatewayTransactionID: s.newGatewayID(),
		Method:               method,
		Amount:               registration.Amount,
		ProcessingFee:        fee,
		NetAmount:            registration.Amount - fee,
		Status:               domain.PaymentRecordSuccess,
	}

	status := domain.PaymentPaid
	if !scenario.success {
		record.Status = domain.PaymentRecordFailed
		record.FailureReason = scenario.message
		status = domain.PaymentFailed
	}

	s.fillMethodDetails(&record, method)
	record.GatewayResponse = s.gatewayResponse(scenario, record.GatewayTransactionID)

	saved, err := s.repo.RecordAttempt(ctx, record, status)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("s.repo.RecordAttempt -> %w", err)
	}

	if scenario.success {
		s.notifySuccess(ctx, registration, saved)
	}

	return PaymentResult{
		Success: scenario.success,
		Message: scenario.message,
		Record:  saved,
	}, nil
}

func (s *PaymentService) History(ctx context.Context, registrationID uint) ([]domain.PaymentRecord, error) {
	records, err := s.repo.FindByRegistrationID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRegistrationID -> %w", err)
	}

	return records, nil
}

func (s *PaymentService) drawScenario() gatewayScenario {
	roll := s.src.Float64()

	var cumulative float64
	for _, scenario := range gatewayScenarios {
		cumulative += scenario.weight
		if roll < cumulative {
			return scenario
		}
	}

	return gatewayScenarios[len(gatewayScenarios)-1]
}

func (s *PaymentService) fillMethodDetails(record *domain.PaymentRecord, method string) {
	switch method {
	case domain.MethodCreditCard, domain.MethodDebitCard:
		record.CardLastFour = fmt.Sprintf("%04d", 1000+s.src.Intn(9000))
		record.CardType = cardTypes[s.src.Intn(len(cardTypes))]
		record.BankName = bankNames[s.src.Intn(len(bankNames))]
	case domain.MethodUPI:
		record.UPIID = fmt.Sprintf("user%d%v", 1000+s.src.Intn(9000), upiProviders[s.src.Intn(len(upiProviders))])
	case domain.MethodNetBanking:
		record.BankName = bankNames[s.src.Intn(len(bankNames))]
	}
}

func (s *PaymentService) gatewayResponse(scenario gatewayScenario, gatewayID string) string {
	status := "success"
	if !scenario.success {
		status = "failed"
	}

	payload, err := json.Marshal(map[string]string{
		"status":         status,
		"message":        scenario.message,
		"gateway_code":   scenario.code,
		"transaction_id": gatewayID,
		"timestamp":      s.now().Format(time.RFC3339),
	})
	if err != nil {
		return ""
	}

	return string(payload)
}

func (s *PaymentService) notifySuccess(ctx context.Context, registration domain.Registration, record domain.PaymentRecord) {
	attendee, err := s.attendeeRepo.FindByID(ctx, registration.AttendeeID)
	if err != nil {
		zap.L().Warn("failed to load attendee for payment confirmation",
			zap.Uint("registration_id", registration.ID),
			zap.Error(err))

		return
	}

	if err := s.notifier.SendPaymentConfirmation(ctx, attendee, registration, record); err != nil {
		zap.L().Warn("failed to send payment confirmation",
			zap.Uint("registration_id", registration.ID),
			zap.Error(err))
	}
}

func validPaymentMethod(method string) bool {
	switch method {
	case domain.MethodCreditCard, domain.MethodDebitCard, domain.MethodUPI, domain.MethodNetBanking:
		return true
	}

	return false
}
