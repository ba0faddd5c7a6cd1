// FILE: internal/repository/implementation/generation_repository_impl.go
package implementation

import (
	"context"
	"errors"

	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/mapper"
	"cv-adapter-be/internal/model"
	"cv-adapter-be/internal/repository/contract"
	"cv-adapter-be/internal/repository/scope"
	"cv-adapter-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenerationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationMapper
}

func NewGenerationRepository(db *gorm.DB) contract.GenerationRepository {
	return &GenerationRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationMapper(),
	}
}

func (r *GenerationRepositoryImpl) applySpecifications(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	return query
}

func (r *GenerationRepositoryImpl) Create(ctx context.Context, generation *entity.Generation) error {
	genModel := r.mapper.ToModel(generation)
	if err := r.db.WithContext(ctx).Create(genModel).Error; err != nil {
		return err
	}
	generation.Id = genModel.Id
	generation.CreatedAt = genModel.CreatedAt
	return nil
}

func (r *GenerationRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.Generation{}).Error
}

func (r *GenerationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Generation, error) {
	var genModel model.Generation
	query := r.applySpecifications(ctx, specs...)
	if err := query.First(&genModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&genModel), nil
}

func (r *GenerationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Generation, error) {
	var genModels []*model.Generation
	query := r.applySpecifications(ctx, specs...).Scopes(scope.OrderByCreatedDesc)
	if err := query.Find(&genModels).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(genModels), nil
}

func (r *GenerationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(ctx, specs...).Model(&model.Generation{})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
