// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PaymentStatus string
type BillingPeriod string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"

	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

type SubscriptionPlan struct {
	Id            uuid.UUID
	Name          string
	Slug          string // "free" or "pro"
	Description   string
	Tagline       string
	Price         float64
	TaxRate       float64
	BillingPeriod BillingPeriod
	// Lifetime generation cap. Only meaningful for the free plan;
	// -1 = unlimited (pro).
	GenerationLimit int
	IsMostPopular   bool
	IsActive        bool
	SortOrder       int
}

type UserSubscription struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	PlanId                uuid.UUID
	Status                SubscriptionStatus
	CurrentPeriodStart    time.Time
	CurrentPeriodEnd      time.Time
	PaymentStatus         PaymentStatus
	MidtransTransactionId *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SubscriptionTransaction is a read model joining subscription, user and plan
// for the admin transactions table.
type SubscriptionTransaction struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	UserEmail       string
	PlanName        string
	Amount          float64
	Status          SubscriptionStatus
	PaymentStatus   PaymentStatus
	CreatedAt       time.Time
	MidtransOrderId *string
}
