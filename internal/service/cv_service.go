// FILE: internal/service/cv_service.go
package service

import (
	"context"
	"errors"
	"time"

	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICVService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCVRequest) (*dto.CVResponse, error)
	GetById(ctx context.Context, userId, cvId uuid.UUID) (*dto.CVResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.CVResponse, error)
	Delete(ctx context.Context, userId, cvId uuid.UUID) error
}

type cvService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCVService(uowFactory unitofwork.RepositoryFactory) ICVService {
	return &cvService{
		uowFactory: uowFactory,
	}
}

func (s *cvService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCVRequest) (*dto.CVResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cv := &entity.CV{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := uow.CVRepository().Create(ctx, cv); err != nil {
		return nil, err
	}

	return cvToResponse(cv, true), nil
}

func (s *cvService) GetById(ctx context.Context, userId, cvId uuid.UUID) (*dto.CVResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cv, err := uow.CVRepository().FindOne(ctx,
		specification.ByID{ID: cvId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if cv == nil {
		return nil, errors.New("cv not found")
	}

	return cvToResponse(cv, true), nil
}

func (s *cvService) List(ctx context.Context, userId uuid.UUID) ([]*dto.CVResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cvs, err := uow.CVRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.CVResponse, len(cvs))
	for i, cv := range cvs {
		// Content omitted in listings to keep payloads small
		out[i] = cvToResponse(cv, false)
	}
	return out, nil
}

func (s *cvService) Delete(ctx context.Context, userId, cvId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cv, err := uow.CVRepository().FindOne(ctx,
		specification.ByID{ID: cvId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if cv == nil {
		return errors.New("cv not found")
	}

	return uow.CVRepository().Delete(ctx, cvId)
}

func cvToResponse(cv *entity.CV, withContent bool) *dto.CVResponse {
	res := &dto.CVResponse{
		Id:        cv.Id,
		Title:     cv.Title,
		CreatedAt: cv.CreatedAt,
		UpdatedAt: cv.UpdatedAt,
	}
	if withContent {
		res.Content = cv.Content
	}
	return res
}
