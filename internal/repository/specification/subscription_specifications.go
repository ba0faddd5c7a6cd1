package specification

import (
	"time"

	"gorm.io/gorm"
)

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ActivePlansOnly struct{}

func (s ActivePlansOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ActiveSubscriptionAt matches subscriptions that are active, paid,
// and whose period covers the given instant.
type ActiveSubscriptionAt struct {
	At time.Time
}

func (s ActiveSubscriptionAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND payment_status = ? AND current_period_end > ?",
		"active", "success", s.At)
}

type ByPaymentStatus struct {
	PaymentStatus string
}

func (s ByPaymentStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ?", s.PaymentStatus)
}
