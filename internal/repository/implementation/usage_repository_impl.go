// FILE: internal/repository/implementation/usage_repository_impl.go
package implementation

import (
	"context"
	"time"

	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/mapper"
	"cv-adapter-be/internal/model"
	"cv-adapter-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepositoryImpl owns the usage_counters table. Every mutation is a
// single conditional UPDATE so concurrent requests against the same row
// serialize inside Postgres instead of in application code.
type UsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

// GetOrCreate returns the counter row for the user, inserting a zeroed one
// on first touch. ON CONFLICT DO NOTHING keeps it race-safe when two
// requests arrive for a brand-new user.
func (r *UsageRepositoryImpl) GetOrCreate(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	counterModel := model.UsageCounter{
		UserId:      userId,
		LastResetAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&counterModel).Error; err != nil {
		return nil, err
	}
	return r.find(ctx, userId)
}

// ConsumeOne atomically increments both counters, but only while the
// lifetime count is still below the limit. RETURNING hands back the exact
// row this statement wrote, so the reported counters can't drift under
// concurrent consumers. On a cap hit it returns consumed=false with the
// current row so the caller can report used/limit.
func (r *UsageRepositoryImpl) ConsumeOne(ctx context.Context, userId uuid.UUID, limit int) (bool, *entity.UsageCounters, error) {
	if _, err := r.GetOrCreate(ctx, userId); err != nil {
		return false, nil, err
	}

	var counterModel model.UsageCounter
	result := r.db.WithContext(ctx).
		Model(&counterModel).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND lifetime_generation_count < ?", userId, limit).
		Updates(map[string]interface{}{
			"generation_count_since_reset": gorm.Expr("generation_count_since_reset + 1"),
			"lifetime_generation_count":    gorm.Expr("lifetime_generation_count + 1"),
		})
	if result.Error != nil {
		return false, nil, result.Error
	}

	if result.RowsAffected == 0 {
		counters, err := r.find(ctx, userId)
		if err != nil {
			return false, nil, err
		}
		return false, counters, nil
	}
	return true, r.mapper.ToEntity(&counterModel), nil
}

// IncrementUnlimited is the no-cap variant used for pro and admin tiers.
// Counters still advance so usage stats stay truthful.
func (r *UsageRepositoryImpl) IncrementUnlimited(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	if _, err := r.GetOrCreate(ctx, userId); err != nil {
		return nil, err
	}
	var counterModel model.UsageCounter
	if err := r.db.WithContext(ctx).
		Model(&counterModel).
		Clauses(clause.Returning{}).
		Where("user_id = ?", userId).
		Updates(map[string]interface{}{
			"generation_count_since_reset": gorm.Expr("generation_count_since_reset + 1"),
			"lifetime_generation_count":    gorm.Expr("lifetime_generation_count + 1"),
		}).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&counterModel), nil
}

// Reset zeroes both counters and stamps last_reset_at. Resetting an
// already-zeroed row is a no-op apart from the timestamp, so repeated
// resets are safe.
func (r *UsageRepositoryImpl) Reset(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	if _, err := r.GetOrCreate(ctx, userId); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.UsageCounter{}).
		Where("user_id = ?", userId).
		Updates(map[string]interface{}{
			"generation_count_since_reset": 0,
			"lifetime_generation_count":    0,
			"last_reset_at":                time.Now(),
		}).Error; err != nil {
		return nil, err
	}
	return r.find(ctx, userId)
}

func (r *UsageRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.UsageCounter{}).Error
}

func (r *UsageRepositoryImpl) SumLifetime(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.UsageCounter{}).
		Select("COALESCE(SUM(lifetime_generation_count), 0)").
		Scan(&total).Error
	return total, err
}

func (r *UsageRepositoryImpl) find(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	var counterModel model.UsageCounter
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		First(&counterModel).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&counterModel), nil
}
