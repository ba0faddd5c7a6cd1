// FILE: internal/repository/implementation/subscription_repository_impl.go
package implementation

import (
	"context"
	"errors"
	"time"

	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/mapper"
	"cv-adapter-be/internal/model"
	"cv-adapter-be/internal/repository/contract"
	"cv-adapter-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	return query
}

// --- Plans ---

func (r *SubscriptionRepositoryImpl) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	planModel := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Create(planModel).Error; err != nil {
		return err
	}
	plan.Id = planModel.Id
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	planModel := r.mapper.PlanToModel(plan)
	return r.db.WithContext(ctx).
		Model(&model.SubscriptionPlan{}).
		Where("id = ?", plan.Id).
		Updates(planModel).Error
}

func (r *SubscriptionRepositoryImpl) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	var planModel model.SubscriptionPlan
	query := r.applySpecifications(ctx, specs...)
	if err := query.First(&planModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanToEntity(&planModel), nil
}

func (r *SubscriptionRepositoryImpl) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var planModels []*model.SubscriptionPlan
	query := r.applySpecifications(ctx, specs...)
	if err := query.Order("sort_order ASC").Find(&planModels).Error; err != nil {
		return nil, err
	}
	plans := make([]*entity.SubscriptionPlan, len(planModels))
	for i, p := range planModels {
		plans[i] = r.mapper.PlanToEntity(p)
	}
	return plans, nil
}

// --- User subscriptions ---

func (r *SubscriptionRepositoryImpl) CreateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	subModel := r.mapper.UserSubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Create(subModel).Error; err != nil {
		return err
	}
	subscription.Id = subModel.Id
	subscription.CreatedAt = subModel.CreatedAt
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	subModel := r.mapper.UserSubscriptionToModel(subscription)
	return r.db.WithContext(ctx).
		Model(&model.UserSubscription{}).
		Where("id = ?", subscription.Id).
		Updates(map[string]interface{}{
			"status":                  subModel.Status,
			"payment_status":          subModel.PaymentStatus,
			"current_period_start":    subModel.CurrentPeriodStart,
			"current_period_end":      subModel.CurrentPeriodEnd,
			"midtrans_transaction_id": subModel.MidtransTransactionId,
		}).Error
}

func (r *SubscriptionRepositoryImpl) DeleteAllSubscriptionsByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.UserSubscription{}).Error
}

func (r *SubscriptionRepositoryImpl) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	var subModel model.UserSubscription
	query := r.applySpecifications(ctx, specs...)
	if err := query.Order("created_at DESC").First(&subModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserSubscriptionToEntity(&subModel), nil
}

func (r *SubscriptionRepositoryImpl) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	var subModels []*model.UserSubscription
	query := r.applySpecifications(ctx, specs...)
	if err := query.Find(&subModels).Error; err != nil {
		return nil, err
	}
	subs := make([]*entity.UserSubscription, len(subModels))
	for i, s := range subModels {
		subs[i] = r.mapper.UserSubscriptionToEntity(s)
	}
	return subs, nil
}

// --- Dashboard / admin stats ---

func (r *SubscriptionRepositoryImpl) GetTotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.UserSubscription{}).
		Select("COALESCE(SUM(subscription_plans.price), 0)").
		Joins("JOIN subscription_plans ON subscription_plans.id = user_subscriptions.plan_id").
		Where("user_subscriptions.payment_status = ?", string(entity.PaymentStatusPaid)).
		Scan(&total).Error
	return total, err
}

func (r *SubscriptionRepositoryImpl) CountActiveSubscribers(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserSubscription{}).
		Where("status = ? AND payment_status = ? AND current_period_end > ?",
			string(entity.SubscriptionStatusActive), string(entity.PaymentStatusPaid), time.Now()).
		Distinct("user_id").
		Count(&count).Error
	return int(count), err
}

func (r *SubscriptionRepositoryImpl) CountCanceledSince(ctx context.Context, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserSubscription{}).
		Where("status = ? AND updated_at >= ?", string(entity.SubscriptionStatusCanceled), since).
		Count(&count).Error
	return int(count), err
}

func (r *SubscriptionRepositoryImpl) GetTransactions(ctx context.Context, status string, limit, offset int) ([]*entity.SubscriptionTransaction, error) {
	var rows []*entity.SubscriptionTransaction
	query := r.db.WithContext(ctx).
		Model(&model.UserSubscription{}).
		Select(`user_subscriptions.id,
			user_subscriptions.user_id,
			users.email AS user_email,
			subscription_plans.name AS plan_name,
			subscription_plans.price AS amount,
			user_subscriptions.status,
			user_subscriptions.payment_status,
			user_subscriptions.created_at,
			user_subscriptions.midtrans_transaction_id AS midtrans_order_id`).
		Joins("JOIN users ON users.id = user_subscriptions.user_id").
		Joins("JOIN subscription_plans ON subscription_plans.id = user_subscriptions.plan_id")
	if status != "" {
		query = query.Where("user_subscriptions.payment_status = ?", status)
	}
	if err := query.Order("user_subscriptions.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
