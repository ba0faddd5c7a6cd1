package mapper

import (
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(c *model.UsageCounter) *entity.UsageCounters {
	if c == nil {
		return nil
	}
	return &entity.UsageCounters{
		UserId:                    c.UserId,
		GenerationCountSinceReset: c.GenerationCountSinceReset,
		LifetimeGenerationCount:   c.LifetimeGenerationCount,
		LastResetAt:               c.LastResetAt,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}

func (m *UsageMapper) ToModel(c *entity.UsageCounters) *model.UsageCounter {
	if c == nil {
		return nil
	}
	return &model.UsageCounter{
		UserId:                    c.UserId,
		GenerationCountSinceReset: c.GenerationCountSinceReset,
		LifetimeGenerationCount:   c.LifetimeGenerationCount,
		LastResetAt:               c.LastResetAt,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}
