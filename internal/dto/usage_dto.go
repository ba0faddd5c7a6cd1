// FILE: internal/dto/usage_dto.go
// DTOs for generation quota and usage status.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// ConsumeResult is what the usage meter returns to the generation flow.
// Remaining == nil means unlimited.
type ConsumeResult struct {
	Allowed   bool   `json:"allowed"`
	Remaining *int   `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
	// Real counter values on denial, so the upgrade prompt reports actual
	// usage rather than assuming used == limit.
	Used  int `json:"used,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type UsageLimit struct {
	Used   int  `json:"used"`
	Limit  int  `json:"limit"` // -1 = unlimited
	CanUse bool `json:"can_use"`
}

// UsageStatusResponse is returned by GET /api/user/usage-status
type UsageStatusResponse struct {
	Plan             PlanInfo   `json:"plan"`
	Generations      UsageLimit `json:"generations"`
	LifetimeCount    int        `json:"lifetime_count"`
	LastResetAt      time.Time  `json:"last_reset_at"`
	UpgradeAvailable bool       `json:"upgrade_available"`
}

type PlanInfo struct {
	Id   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ResetUsageResponse is returned by the admin reset endpoint.
type ResetUsageResponse struct {
	UserId      uuid.UUID `json:"user_id"`
	LastResetAt time.Time `json:"last_reset_at"`
}
