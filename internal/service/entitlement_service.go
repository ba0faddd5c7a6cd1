// FILE: internal/service/entitlement_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"

	"github.com/redis/go-redis/v9"
)

type IEntitlementService interface {
	// ResolveEntitlement returns the plan tier and limits applicable to the
	// caller right now. A store failure is returned as
	// EntitlementUnavailableError; callers must deny on it, never grant.
	ResolveEntitlement(ctx context.Context, identity *entity.UserIdentity) (*entity.Entitlement, error)

	// InvalidateCache drops the cached tier, called after payment webhooks.
	InvalidateCache(ctx context.Context, userId string)
}

type entitlementService struct {
	uowFactory unitofwork.RepositoryFactory
	redis      *redis.Client
	usageCfg   config.UsageConfig
}

const entitlementCacheTTL = 5 * time.Minute

func NewEntitlementService(uowFactory unitofwork.RepositoryFactory, redisClient *redis.Client, usageCfg config.UsageConfig) IEntitlementService {
	return &entitlementService{
		uowFactory: uowFactory,
		redis:      redisClient,
		usageCfg:   usageCfg,
	}
}

func entitlementCacheKey(userId string) string {
	return fmt.Sprintf("entitlement:tier:%s", userId)
}

func (s *entitlementService) ResolveEntitlement(ctx context.Context, identity *entity.UserIdentity) (*entity.Entitlement, error) {
	if identity == nil {
		return nil, &dto.UnauthenticatedError{Detail: "missing identity"}
	}

	// Admins bypass the subscription lookup entirely.
	if identity.IsAdmin {
		return &entity.Entitlement{Tier: entity.PlanTierAdminOverride}, nil
	}

	// Redis is an accelerator, not an authority. A hit short-circuits the DB;
	// any Redis failure falls through to the DB, never to "allow".
	if s.redis != nil {
		if tier, err := s.redis.Get(ctx, entitlementCacheKey(identity.Id.String())).Result(); err == nil {
			switch entity.PlanTier(tier) {
			case entity.PlanTierPro:
				return &entity.Entitlement{Tier: entity.PlanTierPro}, nil
			case entity.PlanTierFree:
				return s.freeEntitlement(), nil
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: identity.Id},
		specification.ActiveSubscriptionAt{At: time.Now()},
	)
	if err != nil {
		// Fail closed: the caller gets a retryable error, not a free pass.
		return nil, &dto.EntitlementUnavailableError{Cause: err}
	}

	ent := s.freeEntitlement()
	tier := entity.PlanTierFree
	if sub != nil {
		ent = &entity.Entitlement{Tier: entity.PlanTierPro}
		tier = entity.PlanTierPro
	}

	if s.redis != nil {
		// Best effort; a failed SET just means the next call hits the DB.
		s.redis.Set(ctx, entitlementCacheKey(identity.Id.String()), string(tier), entitlementCacheTTL)
	}

	return ent, nil
}

func (s *entitlementService) InvalidateCache(ctx context.Context, userId string) {
	if s.redis != nil {
		s.redis.Del(ctx, entitlementCacheKey(userId))
	}
}

func (s *entitlementService) freeEntitlement() *entity.Entitlement {
	if s.usageCfg.FreeGenerationLimit < 0 {
		// Cap disabled by config: free behaves like unlimited.
		return &entity.Entitlement{Tier: entity.PlanTierFree}
	}
	limit := s.usageCfg.FreeGenerationLimit
	return &entity.Entitlement{
		Tier:                   entity.PlanTierFree,
		MaxLifetimeGenerations: &limit,
	}
}
