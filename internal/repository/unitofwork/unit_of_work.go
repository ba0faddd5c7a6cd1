package unitofwork

import (
	"context"

	"cv-adapter-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	UsageRepository() contract.UsageRepository
	CVRepository() contract.CVRepository
	GenerationRepository() contract.GenerationRepository
}
