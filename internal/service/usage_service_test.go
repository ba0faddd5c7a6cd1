// FILE: internal/service/usage_service_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func freeEntitlementWithLimit(limit int) *entity.Entitlement {
	return &entity.Entitlement{
		Tier:                   entity.PlanTierFree,
		MaxLifetimeGenerations: &limit,
	}
}

func TestTryConsume_UnderCap(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}

	res, err := svc.TryConsume(context.Background(), identity, freeEntitlementWithLimit(2))

	assert.NoError(t, err)
	assert.True(t, res.Allowed)
	if assert.NotNil(t, res.Remaining) {
		assert.Equal(t, 1, *res.Remaining)
	}
}

func TestTryConsume_ExhaustsAtCap(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ent := freeEntitlementWithLimit(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := svc.TryConsume(ctx, identity, ent)
		assert.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	res, err := svc.TryConsume(ctx, identity, ent)
	assert.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, dto.ReasonQuotaExhausted, res.Reason)

	// Denied attempts must not move the counter
	counters := factory.uow.usage.rows[identity.Id]
	assert.Equal(t, 2, counters.LifetimeGenerationCount)
}

func TestTryConsume_ConcurrentNeverOverAdmits(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ent := freeEntitlementWithLimit(2)

	const workers = 20
	var wg sync.WaitGroup
	allowed := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.TryConsume(context.Background(), identity, ent)
			if err == nil && res.Allowed {
				allowed <- true
			}
		}()
	}
	wg.Wait()
	close(allowed)

	admitted := 0
	for range allowed {
		admitted++
	}
	assert.Equal(t, 2, admitted)
	assert.Equal(t, 2, factory.uow.usage.rows[identity.Id].LifetimeGenerationCount)
}

func TestTryConsume_ConcurrentRemainingIsExact(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ent := freeEntitlementWithLimit(5)

	const workers = 10
	var wg sync.WaitGroup
	remaining := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.TryConsume(context.Background(), identity, ent)
			if err == nil && res.Allowed && res.Remaining != nil {
				remaining <- *res.Remaining
			}
		}()
	}
	wg.Wait()
	close(remaining)

	// Each admission reports the counter its own increment produced:
	// the five Remaining values are exactly 4,3,2,1,0 with no repeats.
	seen := make(map[int]int)
	for r := range remaining {
		seen[r]++
	}
	assert.Len(t, seen, 5)
	for want := 0; want < 5; want++ {
		assert.Equal(t, 1, seen[want], "remaining=%d reported %d times", want, seen[want])
	}
}

func TestTryConsume_DeniedReportsActualUsage(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}

	// Counter already past the cap (e.g. the limit was lowered after use)
	factory.uow.usage.rows[identity.Id] = &entity.UsageCounters{
		UserId:                  identity.Id,
		LifetimeGenerationCount: 5,
	}

	res, err := svc.TryConsume(context.Background(), identity, freeEntitlementWithLimit(2))

	assert.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 5, res.Used)
	assert.Equal(t, 2, res.Limit)
}

func TestTryConsume_UnlimitedAlwaysAllowed(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ent := &entity.Entitlement{Tier: entity.PlanTierPro}
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		res, err := svc.TryConsume(ctx, identity, ent)
		assert.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Nil(t, res.Remaining)
	}

	// Lifetime count still tracks usage for analytics
	assert.Equal(t, 10, factory.uow.usage.rows[identity.Id].LifetimeGenerationCount)
}

func TestTryConsume_StoreFailure(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.usage.err = assert.AnError
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}

	_, err := svc.TryConsume(context.Background(), identity, freeEntitlementWithLimit(2))

	var storeErr *dto.StoreUnavailableError
	assert.ErrorAs(t, err, &storeErr)
}

func TestReset_AdminCanResetAnyone(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	admin := &entity.UserIdentity{Id: uuid.New(), IsAdmin: true}
	target := uuid.New()
	ctx := context.Background()

	// Burn the target's quota first
	user := &entity.UserIdentity{Id: target}
	ent := freeEntitlementWithLimit(2)
	svc.TryConsume(ctx, user, ent)
	svc.TryConsume(ctx, user, ent)

	res, err := svc.Reset(ctx, admin, target)

	assert.NoError(t, err)
	assert.Equal(t, target, res.UserId)
	assert.Equal(t, 0, factory.uow.usage.rows[target].LifetimeGenerationCount)

	// Quota is usable again after the reset
	consume, err := svc.TryConsume(ctx, user, ent)
	assert.NoError(t, err)
	assert.True(t, consume.Allowed)
}

func TestReset_TestAccountSelfOnly(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	ctx := context.Background()

	tester := &entity.UserIdentity{Id: uuid.New(), IsTestAccount: true}

	// Self reset is allowed
	_, err := svc.Reset(ctx, tester, tester.Id)
	assert.NoError(t, err)

	// The same test account cannot reset someone else
	_, err = svc.Reset(ctx, tester, uuid.New())
	var forbidden *dto.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestReset_RegularUserForbidden(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	user := &entity.UserIdentity{Id: uuid.New()}

	// Not even on themselves
	_, err := svc.Reset(context.Background(), user, user.Id)

	var forbidden *dto.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestReset_Idempotent(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	admin := &entity.UserIdentity{Id: uuid.New(), IsAdmin: true}
	target := uuid.New()
	ctx := context.Background()

	first, err := svc.Reset(ctx, admin, target)
	assert.NoError(t, err)

	second, err := svc.Reset(ctx, admin, target)
	assert.NoError(t, err)

	// Same end state both times, only the timestamp may move forward
	assert.Equal(t, 0, factory.uow.usage.rows[target].LifetimeGenerationCount)
	assert.Equal(t, 0, factory.uow.usage.rows[target].GenerationCountSinceReset)
	assert.False(t, second.LastResetAt.Before(first.LastResetAt))
}

func TestGetStatus_ReportsCountersAndCap(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUsageService(factory, nil)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ent := freeEntitlementWithLimit(2)
	ctx := context.Background()

	svc.TryConsume(ctx, identity, ent)

	status, err := svc.GetStatus(ctx, identity, ent)

	assert.NoError(t, err)
	assert.Equal(t, 1, status.Generations.Used)
	assert.Equal(t, 2, status.Generations.Limit)
	assert.True(t, status.Generations.CanUse)
	assert.True(t, status.UpgradeAvailable)

	svc.TryConsume(ctx, identity, ent)
	status, err = svc.GetStatus(ctx, identity, ent)
	assert.NoError(t, err)
	assert.False(t, status.Generations.CanUse)
}
