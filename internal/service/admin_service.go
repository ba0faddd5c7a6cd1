// FILE: internal/service/admin_service.go
package service

import (
	"context"
	"errors"
	"time"

	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/pkg/logger"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetAllUsers(ctx context.Context, search string, limit, offset int) (*dto.AdminUserListResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
	GetTransactions(ctx context.Context, status string, limit, offset int) ([]*dto.TransactionListItem, error)
	GetSystemLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error)
	GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *adminService) GetAllUsers(ctx context.Context, search string, limit, offset int) (*dto.AdminUserListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().SearchUsers(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminUserListItem, len(users))
	for i, u := range users {
		item := dto.AdminUserListItem{
			Id:        u.Id,
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      string(u.Role),
			Status:    string(u.Status),
			PlanSlug:  "free",
			CreatedAt: u.CreatedAt,
		}

		// Per-row lookups are fine at admin-page scale
		if counters, err := uow.UsageRepository().GetOrCreate(ctx, u.Id); err == nil {
			item.LifetimeCount = counters.LifetimeGenerationCount
		}
		sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
			specification.UserOwnedBy{UserID: u.Id},
			specification.ActiveSubscriptionAt{At: time.Now()},
		)
		if err == nil && sub != nil {
			if plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId}); err == nil && plan != nil {
				item.PlanSlug = plan.Slug
			}
		}

		items[i] = item
	}

	return &dto.AdminUserListResponse{
		Users:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return err
	}

	s.logger.Info("ADMIN", "User status updated", map[string]interface{}{
		"user_id": userId,
		"status":  status,
	})
	return nil
}

func (s *adminService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	activeSubs, err := uow.SubscriptionRepository().CountActiveSubscribers(ctx)
	if err != nil {
		return nil, err
	}
	monthStart := time.Now().AddDate(0, 0, -30)
	canceled, err := uow.SubscriptionRepository().CountCanceledSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	revenue, err := uow.SubscriptionRepository().GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	generationsTotal, err := uow.UsageRepository().SumLifetime(ctx)
	if err != nil {
		return nil, err
	}
	today := time.Now().Truncate(24 * time.Hour)
	generationsToday, err := uow.GenerationRepository().Count(ctx, specification.CreatedAfter{After: today})
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalUsers:        totalUsers,
		ActiveSubscribers: activeSubs,
		CanceledThisMonth: canceled,
		TotalRevenue:      revenue,
		GenerationsTotal:  generationsTotal,
		GenerationsToday:  generationsToday,
	}, nil
}

func (s *adminService) GetTransactions(ctx context.Context, status string, limit, offset int) ([]*dto.TransactionListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.SubscriptionRepository().GetTransactions(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TransactionListItem, len(rows))
	for i, r := range rows {
		items[i] = &dto.TransactionListItem{
			Id:            r.Id,
			UserEmail:     r.UserEmail,
			PlanName:      r.PlanName,
			Amount:        r.Amount,
			PaymentStatus: string(r.PaymentStatus),
			CreatedAt:     r.CreatedAt,
		}
	}
	return items, nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.logger.GetLogs(level, limit, offset)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(logId)
}
