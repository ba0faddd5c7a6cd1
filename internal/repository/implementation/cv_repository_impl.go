// FILE: internal/repository/implementation/cv_repository_impl.go
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

type CVRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CVMapper
}

func NewCVRepository(db *gorm.DB) contract.CVRepository {
	return &CVRepositoryImpl{
		db:     db,
		mapper: mapper.NewCVMapper(),
	}
}

func (r *CVRepositoryImpl) applySpecifications(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	return query
}

func (r *CVRepositoryImpl) Create(ctx context.Context, cv *entity.CV) error {
	cvModel := r.mapper.ToModel(cv)
	if err := r.db.WithContext(ctx).Create(cvModel).Error; err != nil {
		return err
	}
	cv.Id = cvModel.Id
	cv.CreatedAt = cvModel.CreatedAt
	return nil
}

func (r *CVRepositoryImpl) Update(ctx context.Context, cv *entity.CV) error {
	cvModel := r.mapper.ToModel(cv)
	return r.db.WithContext(ctx).
		Model(&model.CV{}).
		Where("id = ?", cv.Id).
		Updates(map[string]interface{}{
			"title":   cvModel.Title,
			"content": cvModel.Content,
		}).Error
}

func (r *CVRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CV{}, "id = ?", id).Error
}

func (r *CVRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.CV{}).Error
}

func (r *CVRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CV, error) {
	var cvModel model.CV
	query := r.applySpecifications(ctx, specs...)
	if err := query.First(&cvModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&cvModel), nil
}

func (r *CVRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CV, error) {
	var cvModels []*model.CV
	query := r.applySpecifications(ctx, specs...).Scopes(scope.OrderByCreatedDesc)
	if err := query.Find(&cvModels).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(cvModels), nil
}

func (r *CVRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(ctx, specs...).Model(&model.CV{})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
