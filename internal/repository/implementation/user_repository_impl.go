// FILE: internal/repository/implementation/user_repository_impl.go
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
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	return query
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	userModel := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return err
	}
	user.Id = userModel.Id
	user.CreatedAt = userModel.CreatedAt
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	userModel := r.mapper.ToModel(user)
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.Id).
		Updates(map[string]interface{}{
			"email":             userModel.Email,
			"full_name":         userModel.FullName,
			"role":              userModel.Role,
			"status":            userModel.Status,
			"email_verified":    userModel.EmailVerified,
			"email_verified_at": userModel.EmailVerifiedAt,
		}).Error
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

// DeleteUnscoped hard-deletes the row, used by the account deletion flow
// after all owned data is gone.
func (r *UserRepositoryImpl) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.User{}, "id = ?", id).Error
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var userModel model.User
	query := r.applySpecifications(ctx, specs...)
	if err := query.First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&userModel), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var userModels []*model.User
	query := r.applySpecifications(ctx, specs...)
	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(userModels), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(ctx, specs...).Model(&model.User{})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --- Token management ---

func (r *UserRepositoryImpl) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	tokenModel := r.mapper.PasswordResetTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(tokenModel).Error; err != nil {
		return err
	}
	token.Id = tokenModel.Id
	return nil
}

func (r *UserRepositoryImpl) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	var tokenModel model.PasswordResetToken
	query := r.applySpecifications(ctx, specs...)
	if err := query.First(&tokenModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PasswordResetTokenToEntity(&tokenModel), nil
}

func (r *UserRepositoryImpl) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (r *UserRepositoryImpl) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	tokenModel := r.mapper.EmailVerificationTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(tokenModel).Error; err != nil {
		return err
	}
	token.Id = tokenModel.Id
	return nil
}

func (r *UserRepositoryImpl) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	var tokenModel model.EmailVerificationToken
	query := r.applySpecifications(ctx, specs...)
	if err := query.First(&tokenModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EmailVerificationTokenToEntity(&tokenModel), nil
}

func (r *UserRepositoryImpl) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.EmailVerificationToken{}, "id = ?", id).Error
}

func (r *UserRepositoryImpl) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	tokenModel := r.mapper.UserRefreshTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(tokenModel).Error; err != nil {
		return err
	}
	token.Id = tokenModel.Id
	return nil
}

func (r *UserRepositoryImpl) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.UserRefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// --- Business specific ---

func (r *UserRepositoryImpl) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userId).
		Updates(map[string]interface{}{
			"status":            string(entity.UserStatusActive),
			"email_verified":    true,
			"email_verified_at": &now,
		}).Error
}

func (r *UserRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userId).
		Update("password_hash", hash).Error
}

func (r *UserRepositoryImpl) TouchLastActive(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userId).
		Update("last_active_at", time.Now()).Error
}

// SaveUserProvider upserts the OAuth link so repeated logins with the same
// provider don't pile up rows.
func (r *UserRepositoryImpl) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	providerModel := r.mapper.UserProviderToModel(provider)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider_name"}},
			DoNothing: true,
		}).
		Create(providerModel).Error
}

// --- Queries ---

func (r *UserRepositoryImpl) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	var userModels []*model.User
	q := r.db.WithContext(ctx).Model(&model.User{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("email ILIKE ? OR full_name ILIKE ?", pattern, pattern)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(userModels), nil
}
