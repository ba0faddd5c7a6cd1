// FILE: internal/entity/usage_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type PlanTier string

const (
	PlanTierFree          PlanTier = "free"
	PlanTierPro           PlanTier = "pro"
	PlanTierAdminOverride PlanTier = "admin_override"
)

// UserIdentity is the resolved caller identity. It is produced by the
// identity service from a verified bearer token plus the configured
// admin/test-account allow-lists, and is read-only everywhere else.
type UserIdentity struct {
	Id            uuid.UUID
	Email         string
	IsAdmin       bool
	IsTestAccount bool
}

// Entitlement is the plan and limits applicable to a user right now.
// MaxLifetimeGenerations == nil means unlimited (pro and admin override).
type Entitlement struct {
	Tier                   PlanTier
	MaxLifetimeGenerations *int
	ResetIntervalDays      *int
}

func (e Entitlement) Unlimited() bool {
	return e.MaxLifetimeGenerations == nil
}

// UsageCounters is one row per user. Invariants:
// both counters >= 0, GenerationCountSinceReset <= LifetimeGenerationCount.
// Mutated only through the usage repository's atomic operations.
type UsageCounters struct {
	UserId                    uuid.UUID
	GenerationCountSinceReset int
	LifetimeGenerationCount   int
	LastResetAt               time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
