// FILE: internal/service/service_fakes_test.go
// In-memory repository fakes shared by the service tests.
package service

import (
	"context"
	"sync"
	"time"

	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/contract"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// --- usage counters ---

type fakeUsageRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.UsageCounters
	err  error // when set, every call fails with it
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{rows: make(map[uuid.UUID]*entity.UsageCounters)}
}

func (r *fakeUsageRepo) getOrCreateLocked(userId uuid.UUID) *entity.UsageCounters {
	row, ok := r.rows[userId]
	if !ok {
		row = &entity.UsageCounters{UserId: userId, LastResetAt: time.Now()}
		r.rows[userId] = row
	}
	return row
}

func copyCounters(row *entity.UsageCounters) *entity.UsageCounters {
	c := *row
	return &c
}

func (r *fakeUsageRepo) GetOrCreate(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyCounters(r.getOrCreateLocked(userId)), nil
}

func (r *fakeUsageRepo) ConsumeOne(ctx context.Context, userId uuid.UUID, limit int) (bool, *entity.UsageCounters, error) {
	if r.err != nil {
		return false, nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.getOrCreateLocked(userId)
	if row.LifetimeGenerationCount >= limit {
		return false, copyCounters(row), nil
	}
	row.GenerationCountSinceReset++
	row.LifetimeGenerationCount++
	return true, copyCounters(row), nil
}

func (r *fakeUsageRepo) IncrementUnlimited(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.getOrCreateLocked(userId)
	row.GenerationCountSinceReset++
	row.LifetimeGenerationCount++
	return copyCounters(row), nil
}

func (r *fakeUsageRepo) Reset(ctx context.Context, userId uuid.UUID) (*entity.UsageCounters, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.getOrCreateLocked(userId)
	row.GenerationCountSinceReset = 0
	row.LifetimeGenerationCount = 0
	row.LastResetAt = time.Now()
	return copyCounters(row), nil
}

func (r *fakeUsageRepo) Delete(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userId)
	return nil
}

func (r *fakeUsageRepo) SumLifetime(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, row := range r.rows {
		sum += int64(row.LifetimeGenerationCount)
	}
	return sum, nil
}

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	err   error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.Id] = u
	}
	return r
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if userMatches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != sp.Email {
				return false
			}
		case specification.ActiveUsers:
			if u.Status != entity.UserStatusActive {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *fakeUserRepo) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if userMatches(u, specs) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	return nil
}
func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}
func (r *fakeUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	return nil
}
func (r *fakeUserRepo) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	return nil, nil
}
func (r *fakeUserRepo) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	return nil
}
func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	return nil
}
func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error { return nil }
func (r *fakeUserRepo) ActivateUser(ctx context.Context, userId uuid.UUID) error       { return nil }
func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return nil
}
func (r *fakeUserRepo) TouchLastActive(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userId]; ok {
		now := time.Now()
		u.LastActiveAt = &now
	}
	return nil
}
func (r *fakeUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}
func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	return r.FindAll(ctx)
}

// --- subscriptions ---

type fakeSubscriptionRepo struct {
	subs  []*entity.UserSubscription
	plans []*entity.SubscriptionPlan
	err   error
}

func (r *fakeSubscriptionRepo) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, sub := range r.subs {
		if subscriptionMatches(sub, specs) {
			return sub, nil
		}
	}
	return nil, nil
}

func subscriptionMatches(sub *entity.UserSubscription, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.UserOwnedBy:
			if sub.UserId != sp.UserID {
				return false
			}
		case specification.ActiveSubscriptionAt:
			if sub.Status != entity.SubscriptionStatusActive ||
				sub.PaymentStatus != entity.PaymentStatusPaid ||
				!sub.CurrentPeriodEnd.After(sp.At) {
				return false
			}
		case specification.ByID:
			if sub.Id != sp.ID {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.plans = append(r.plans, plan)
	return nil
}
func (r *fakeSubscriptionRepo) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	return nil
}
func (r *fakeSubscriptionRepo) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	for _, p := range r.plans {
		if planMatches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func planMatches(p *entity.SubscriptionPlan, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.BySlug:
			if p.Slug != sp.Slug {
				return false
			}
		case specification.ByID:
			if p.Id != sp.ID {
				return false
			}
		case specification.ActivePlansOnly:
			if !p.IsActive {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var out []*entity.SubscriptionPlan
	for _, p := range r.plans {
		if planMatches(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) CreateSubscription(ctx context.Context, sub *entity.UserSubscription) error {
	r.subs = append(r.subs, sub)
	return nil
}
func (r *fakeSubscriptionRepo) UpdateSubscription(ctx context.Context, sub *entity.UserSubscription) error {
	return nil
}
func (r *fakeSubscriptionRepo) DeleteAllSubscriptionsByUserId(ctx context.Context, userId uuid.UUID) error {
	return nil
}
func (r *fakeSubscriptionRepo) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	var out []*entity.UserSubscription
	for _, sub := range r.subs {
		if subscriptionMatches(sub, specs) {
			out = append(out, sub)
		}
	}
	return out, nil
}
func (r *fakeSubscriptionRepo) GetTotalRevenue(ctx context.Context) (float64, error) { return 0, nil }
func (r *fakeSubscriptionRepo) CountActiveSubscribers(ctx context.Context) (int, error) {
	return 0, nil
}
func (r *fakeSubscriptionRepo) CountCanceledSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}
func (r *fakeSubscriptionRepo) GetTransactions(ctx context.Context, status string, limit, offset int) ([]*entity.SubscriptionTransaction, error) {
	return nil, nil
}

// --- cvs ---

type fakeCVRepo struct {
	cvs []*entity.CV
	err error
}

func (r *fakeCVRepo) Create(ctx context.Context, cv *entity.CV) error {
	r.cvs = append(r.cvs, cv)
	return nil
}
func (r *fakeCVRepo) Update(ctx context.Context, cv *entity.CV) error { return nil }
func (r *fakeCVRepo) Delete(ctx context.Context, id uuid.UUID) error  { return nil }
func (r *fakeCVRepo) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (r *fakeCVRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CV, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, cv := range r.cvs {
		if cvMatches(cv, specs) {
			return cv, nil
		}
	}
	return nil, nil
}

func cvMatches(cv *entity.CV, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if cv.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if cv.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeCVRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CV, error) {
	var out []*entity.CV
	for _, cv := range r.cvs {
		if cvMatches(cv, specs) {
			out = append(out, cv)
		}
	}
	return out, nil
}

func (r *fakeCVRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	cvs, _ := r.FindAll(ctx, specs...)
	return int64(len(cvs)), nil
}

// --- generations ---

type fakeGenerationRepo struct {
	mu   sync.Mutex
	list []*entity.Generation
	err  error
}

func (r *fakeGenerationRepo) Create(ctx context.Context, g *entity.Generation) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, g)
	return nil
}

func (r *fakeGenerationRepo) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (r *fakeGenerationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Walk newest-first so OrderBy created_at DESC callers get the latest.
	for i := len(r.list) - 1; i >= 0; i-- {
		if generationMatches(r.list[i], specs) {
			return r.list[i], nil
		}
	}
	return nil, nil
}

func generationMatches(g *entity.Generation, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if g.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if g.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeGenerationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Generation
	for _, g := range r.list {
		if generationMatches(g, specs) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGenerationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	gens, _ := r.FindAll(ctx, specs...)
	return int64(len(gens)), nil
}

// --- unit of work ---

type fakeUnitOfWork struct {
	users         *fakeUserRepo
	subscriptions *fakeSubscriptionRepo
	usage         *fakeUsageRepo
	cvs           *fakeCVRepo
	generations   *fakeGenerationRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return u.subscriptions
}
func (u *fakeUnitOfWork) UsageRepository() contract.UsageRepository           { return u.usage }
func (u *fakeUnitOfWork) CVRepository() contract.CVRepository                 { return u.cvs }
func (u *fakeUnitOfWork) GenerationRepository() contract.GenerationRepository { return u.generations }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: &fakeUnitOfWork{
		users:         newFakeUserRepo(),
		subscriptions: &fakeSubscriptionRepo{},
		usage:         newFakeUsageRepo(),
		cvs:           &fakeCVRepo{},
		generations:   &fakeGenerationRepo{},
	}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }
