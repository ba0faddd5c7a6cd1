// FILE: internal/service/entitlement_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func defaultUsageConfig() config.UsageConfig {
	return config.UsageConfig{FreeGenerationLimit: 2}
}

func TestResolveEntitlement_FreeByDefault(t *testing.T) {
	factory := newFakeFactory()
	svc := NewEntitlementService(factory, nil, defaultUsageConfig())
	identity := &entity.UserIdentity{Id: uuid.New()}

	ent, err := svc.ResolveEntitlement(context.Background(), identity)

	assert.NoError(t, err)
	assert.Equal(t, entity.PlanTierFree, ent.Tier)
	if assert.NotNil(t, ent.MaxLifetimeGenerations) {
		assert.Equal(t, 2, *ent.MaxLifetimeGenerations)
	}
	assert.False(t, ent.Unlimited())
}

func TestResolveEntitlement_ActiveSubscriptionIsPro(t *testing.T) {
	factory := newFakeFactory()
	identity := &entity.UserIdentity{Id: uuid.New()}
	factory.uow.subscriptions.subs = []*entity.UserSubscription{{
		Id:                 uuid.New(),
		UserId:             identity.Id,
		Status:             entity.SubscriptionStatusActive,
		PaymentStatus:      entity.PaymentStatusPaid,
		CurrentPeriodStart: time.Now().Add(-time.Hour),
		CurrentPeriodEnd:   time.Now().Add(24 * time.Hour),
	}}
	svc := NewEntitlementService(factory, nil, defaultUsageConfig())

	ent, err := svc.ResolveEntitlement(context.Background(), identity)

	assert.NoError(t, err)
	assert.Equal(t, entity.PlanTierPro, ent.Tier)
	assert.True(t, ent.Unlimited())
}

func TestResolveEntitlement_ExpiredSubscriptionFallsBackToFree(t *testing.T) {
	factory := newFakeFactory()
	identity := &entity.UserIdentity{Id: uuid.New()}
	factory.uow.subscriptions.subs = []*entity.UserSubscription{{
		Id:                 uuid.New(),
		UserId:             identity.Id,
		Status:             entity.SubscriptionStatusActive,
		PaymentStatus:      entity.PaymentStatusPaid,
		CurrentPeriodStart: time.Now().Add(-48 * time.Hour),
		CurrentPeriodEnd:   time.Now().Add(-time.Hour),
	}}
	svc := NewEntitlementService(factory, nil, defaultUsageConfig())

	ent, err := svc.ResolveEntitlement(context.Background(), identity)

	assert.NoError(t, err)
	assert.Equal(t, entity.PlanTierFree, ent.Tier)
}

func TestResolveEntitlement_AdminOverride(t *testing.T) {
	factory := newFakeFactory()
	// A store that would blow up if touched: admins must never hit it
	factory.uow.subscriptions.err = assert.AnError
	svc := NewEntitlementService(factory, nil, defaultUsageConfig())
	admin := &entity.UserIdentity{Id: uuid.New(), IsAdmin: true}

	ent, err := svc.ResolveEntitlement(context.Background(), admin)

	assert.NoError(t, err)
	assert.Equal(t, entity.PlanTierAdminOverride, ent.Tier)
	assert.True(t, ent.Unlimited())
}

func TestResolveEntitlement_FailsClosedOnStoreError(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.subscriptions.err = assert.AnError
	svc := NewEntitlementService(factory, nil, defaultUsageConfig())
	identity := &entity.UserIdentity{Id: uuid.New()}

	ent, err := svc.ResolveEntitlement(context.Background(), identity)

	assert.Nil(t, ent)
	var unavailable *dto.EntitlementUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestResolveEntitlement_CapDisabledByConfig(t *testing.T) {
	factory := newFakeFactory()
	svc := NewEntitlementService(factory, nil, config.UsageConfig{FreeGenerationLimit: -1})
	identity := &entity.UserIdentity{Id: uuid.New()}

	ent, err := svc.ResolveEntitlement(context.Background(), identity)

	assert.NoError(t, err)
	assert.Equal(t, entity.PlanTierFree, ent.Tier)
	assert.True(t, ent.Unlimited())
}

func TestResolveEntitlement_MissingIdentity(t *testing.T) {
	svc := NewEntitlementService(newFakeFactory(), nil, defaultUsageConfig())

	_, err := svc.ResolveEntitlement(context.Background(), nil)

	var unauthenticated *dto.UnauthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
}
