package model

import (
	"time"

	"github.com/google/uuid"
)

// UsageCounter is keyed by user id (one row per user). All mutations go
// through conditional UPDATEs in the usage repository; see
// implementation/usage_repository_impl.go.
type UsageCounter struct {
	UserId                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	GenerationCountSinceReset int       `gorm:"not null;default:0;check:generation_count_since_reset >= 0"`
	LifetimeGenerationCount   int       `gorm:"not null;default:0;check:lifetime_generation_count >= 0"`
	LastResetAt               time.Time `gorm:"not null"`
	CreatedAt                 time.Time `gorm:"autoCreateTime"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}
