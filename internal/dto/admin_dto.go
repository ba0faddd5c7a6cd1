// FILE: internal/dto/admin_dto.go
// DTOs for the admin dashboard (user management, churn/retention stats, logs).
package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminUserListItem struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	PlanSlug      string    `json:"plan_slug"`
	LifetimeCount int       `json:"lifetime_generation_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminUserListResponse struct {
	Users  []AdminUserListItem `json:"users"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

// DashboardResponse aggregates the churn/retention numbers the marketing
// dashboard reads.
type DashboardResponse struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveSubscribers int     `json:"active_subscribers"`
	CanceledThisMonth int     `json:"canceled_this_month"`
	TotalRevenue      float64 `json:"total_revenue"`
	GenerationsTotal  int64   `json:"generations_total"`
	GenerationsToday  int64   `json:"generations_today"`
}

type TransactionListItem struct {
	Id            uuid.UUID `json:"id"`
	UserEmail     string    `json:"user_email"`
	PlanName      string    `json:"plan_name"`
	Amount        float64   `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}
