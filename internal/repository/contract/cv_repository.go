package contract

import (
	"context"

	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CVRepository interface {
	Create(ctx context.Context, cv *entity.CV) error
	Update(ctx context.Context, cv *entity.CV) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CV, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CV, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
