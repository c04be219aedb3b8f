package service

import (
	"context"
	"fmt"
	"time"

	"github.com/confera/conference-api/internal/domain"
)

// DefaultRecentRegistrations caps the admin recent-registrations listing.
const DefaultRecentRegistrations = 20

type AdminConferenceRepository interface {
	CountConferences(ctx context.Context) (int64, error)
	CountActiveConferences(ctx context.Context) (int64, error)
	CountSessions(ctx context.Context) (int64, error)
}

type AdminRegistrationRepository interface {
	CountRegistrations(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]domain.AdminRegistration, error)
}

type AdminPaymentRepository interface {
	RevenueTotals(ctx context.Context) (total, fees float64, err error)
}

type AdminEmailLogRepository interface {
	CountAll(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type AdminService struct {
	conferenceRepo   AdminConferenceRepository
	registrationRepo AdminRegistrationRepository
	paymentRepo      AdminPaymentRepository
	emailLogRepo     AdminEmailLogRepository

	now func() time.Time
}

func NewAdminService(
	conferenceRepo AdminConferenceRepository,
	registrationRepo AdminRegistrationRepository,
	paymentRepo AdminPaymentRepository,
	emailLogRepo AdminEmailLogRepository,
) *AdminService {
	return &AdminService{
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
		paymentRepo:      paymentRepo,
		emailLogRepo:     emailLogRepo,
		now:              time.Now,
	}
}

// Dashboard aggregates entity counts and revenue over successful payments.
func (s *AdminService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	var err error

	if stats.Conferences, err = s.conferenceRepo.CountConferences(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.conferenceRepo.CountConferences -> %w", err)
	}

	if stats.ActiveConferences, err = s.conferenceRepo.CountActiveConferences(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.conferenceRepo.CountActiveConferences -> %w", err)
	}

	if stats.Sessions, err = s.conferenceRepo.CountSessions(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.conferenceRepo.CountSessions -> %w", err)
	}

	if stats.Registrations, err = s.registrationRepo.CountRegistrations(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.registrationRepo.CountRegistrations -> %w", err)
	}

	total, fees, err := s.paymentRepo.RevenueTotals(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.paymentRepo.RevenueTotals -> %w", err)
	}
	stats.TotalRevenue = total
	stats.ProcessingFees = fees
	stats.NetRevenue = total - fees

	if stats.EmailLogs, err = s.emailLogRepo.CountAll(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.emailLogRepo.CountAll -> %w", err)
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	if stats.RecentEmails, err = s.emailLogRepo.CountSince(ctx, weekAgo); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.emailLogRepo.CountSince -> %w", err)
	}

	return stats, nil
}

func (s *AdminService) RecentRegistrations(ctx context.Context, limit int) ([]domain.AdminRegistration, error) {
	if limit <= 0 || limit > DefaultRecentRegistrations {
		limit = DefaultRecentRegistrations
	}

	registrations, err := s.registrationRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.registrationRepo.FindRecent -> %w", err)
	}

	return registrations, nil
}
