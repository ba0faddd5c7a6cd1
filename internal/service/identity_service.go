// FILE: internal/service/identity_service.go
package service

import (
	"context"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IIdentityService interface {
	// Resolve turns an authenticated user id (already verified by the JWT
	// middleware) into a full identity with admin/test-account flags.
	Resolve(ctx context.Context, userId string) (*entity.UserIdentity, error)
}

type identityService struct {
	uowFactory unitofwork.RepositoryFactory
	access     config.AccessConfig
}

func NewIdentityService(uowFactory unitofwork.RepositoryFactory, access config.AccessConfig) IIdentityService {
	return &identityService{
		uowFactory: uowFactory,
		access:     access,
	}
}

func (s *identityService) Resolve(ctx context.Context, userId string) (*entity.UserIdentity, error) {
	id, err := uuid.Parse(userId)
	if err != nil {
		return nil, &dto.UnauthenticatedError{Detail: "invalid user id in token"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, &dto.StoreUnavailableError{Cause: err}
	}
	if user == nil {
		return nil, &dto.UnauthenticatedError{Detail: "user no longer exists"}
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, &dto.UnauthenticatedError{Detail: "account blocked"}
	}

	// Admin comes from the allow-list OR the role column; the allow-list wins
	// so operators can grant access without touching the database.
	isAdmin := user.Role == entity.UserRoleAdmin || s.access.IsAdminEmail(user.Email)

	return &entity.UserIdentity{
		Id:            user.Id,
		Email:         user.Email,
		IsAdmin:       isAdmin,
		IsTestAccount: s.access.IsTestAccountEmail(user.Email),
	}, nil
}
