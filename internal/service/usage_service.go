// FILE: internal/service/usage_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"
	"cv-adapter-be/pkg/events"
	pktNats "cv-adapter-be/pkg/nats"

	"github.com/google/uuid"
)

type IUsageService interface {
	// TryConsume charges one generation against the caller's quota. For
	// limited tiers the check and the increment are a single atomic store
	// operation; under the cap it never over-admits regardless of
	// concurrency. Unlimited tiers always succeed.
	TryConsume(ctx context.Context, identity *entity.UserIdentity, ent *entity.Entitlement) (*dto.ConsumeResult, error)

	// GetStatus reports the caller's plan and counters for the UI.
	GetStatus(ctx context.Context, identity *entity.UserIdentity, ent *entity.Entitlement) (*dto.UsageStatusResponse, error)

	// Reset zeroes the target's counters. Allowed for admins on anyone and
	// for a test account on itself; anything else is Forbidden. Safe to
	// repeat: a second reset is a no-op apart from the timestamp.
	Reset(ctx context.Context, caller *entity.UserIdentity, targetUserId uuid.UUID) (*dto.ResetUsageResponse, error)
}

type usageService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IUsageService {
	return &usageService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *usageService) TryConsume(ctx context.Context, identity *entity.UserIdentity, ent *entity.Entitlement) (*dto.ConsumeResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if ent.Unlimited() {
		if _, err := uow.UsageRepository().IncrementUnlimited(ctx, identity.Id); err != nil {
			return nil, &dto.StoreUnavailableError{Cause: err}
		}
		return &dto.ConsumeResult{Allowed: true, Remaining: nil}, nil
	}

	limit := *ent.MaxLifetimeGenerations
	consumed, counters, err := uow.UsageRepository().ConsumeOne(ctx, identity.Id, limit)
	if err != nil {
		return nil, &dto.StoreUnavailableError{Cause: err}
	}

	if !consumed {
		if s.eventPublisher != nil {
			event := events.NewEvent(events.TypeQuotaExhausted, map[string]interface{}{
				"user_id": identity.Id,
				"limit":   limit,
				"used":    counters.LifetimeGenerationCount,
			})
			if err := s.eventPublisher.Publish(ctx, event); err != nil {
				fmt.Printf("[WARN] Failed to publish QUOTA_EXHAUSTED event: %v\n", err)
			}
		}
		return &dto.ConsumeResult{
			Allowed: false,
			Reason:  dto.ReasonQuotaExhausted,
			Used:    counters.LifetimeGenerationCount,
			Limit:   limit,
		}, nil
	}

	remaining := limit - counters.LifetimeGenerationCount
	if remaining < 0 {
		remaining = 0
	}
	return &dto.ConsumeResult{Allowed: true, Remaining: &remaining}, nil
}

func (s *usageService) GetStatus(ctx context.Context, identity *entity.UserIdentity, ent *entity.Entitlement) (*dto.UsageStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	counters, err := uow.UsageRepository().GetOrCreate(ctx, identity.Id)
	if err != nil {
		return nil, &dto.StoreUnavailableError{Cause: err}
	}

	limit := -1
	canUse := true
	if !ent.Unlimited() {
		limit = *ent.MaxLifetimeGenerations
		canUse = counters.LifetimeGenerationCount < limit
	}

	planInfo := dto.PlanInfo{Name: "Free", Slug: "free"}
	switch ent.Tier {
	case entity.PlanTierPro:
		planInfo = dto.PlanInfo{Name: "Pro", Slug: "pro"}
	case entity.PlanTierAdminOverride:
		planInfo = dto.PlanInfo{Name: "Admin", Slug: "admin_override"}
	}
	if plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.BySlug{Slug: planInfo.Slug}); err == nil && plan != nil {
		planInfo.Id = plan.Id
		planInfo.Name = plan.Name
	}

	return &dto.UsageStatusResponse{
		Plan: planInfo,
		Generations: dto.UsageLimit{
			Used:   counters.LifetimeGenerationCount,
			Limit:  limit,
			CanUse: canUse,
		},
		LifetimeCount:    counters.LifetimeGenerationCount,
		LastResetAt:      counters.LastResetAt,
		UpgradeAvailable: ent.Tier == entity.PlanTierFree,
	}, nil
}

func (s *usageService) Reset(ctx context.Context, caller *entity.UserIdentity, targetUserId uuid.UUID) (*dto.ResetUsageResponse, error) {
	if caller == nil {
		return nil, &dto.UnauthenticatedError{Detail: "missing identity"}
	}
	selfReset := caller.IsTestAccount && caller.Id == targetUserId
	if !caller.IsAdmin && !selfReset {
		return nil, &dto.ForbiddenError{Detail: "usage reset requires admin, or a test account acting on itself"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	counters, err := uow.UsageRepository().Reset(ctx, targetUserId)
	if err != nil {
		return nil, &dto.StoreUnavailableError{Cause: err}
	}

	if s.eventPublisher != nil {
		event := events.NewEvent(events.TypeUsageReset, map[string]interface{}{
			"user_id":  targetUserId,
			"reset_by": caller.Id,
			"time":     time.Now().Format(time.RFC822),
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USAGE_RESET event: %v\n", err)
		}
	}

	return &dto.ResetUsageResponse{
		UserId:      targetUserId,
		LastResetAt: counters.LastResetAt,
	}, nil
}
