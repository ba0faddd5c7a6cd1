// FILE: internal/service/generation_service_test.go
package service

import (
	"context"
	"testing"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/memory"
	"cv-adapter-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func newGenerationFixture(provider llm.LLMProvider) (*fakeFactory, IGenerationService) {
	factory := newFakeFactory()
	entitlementSvc := NewEntitlementService(factory, nil, config.UsageConfig{FreeGenerationLimit: 2})
	usageSvc := NewUsageService(factory, nil)
	svc := NewGenerationService(
		factory,
		entitlementSvc,
		usageSvc,
		provider,
		memory.NewResultCache(),
		nil,
		nil,
	)
	return factory, svc
}

func validRequest() *dto.GenerateRequest {
	return &dto.GenerateRequest{
		Kind:           string(entity.GenerationKindCVTailor),
		JobDescription: "Senior Go engineer, payments platform, Jakarta or remote.",
	}
}

func TestGenerate_Success(t *testing.T) {
	provider := &stubLLM{response: "Tailored CV text"}
	factory, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}

	res, err := svc.Generate(context.Background(), identity, validRequest())

	assert.NoError(t, err)
	assert.Equal(t, "Tailored CV text", res.Result)
	if assert.NotNil(t, res.Remaining) {
		assert.Equal(t, 1, *res.Remaining)
	}

	// Attempt persisted as completed
	gens := factory.uow.generations.list
	if assert.Len(t, gens, 1) {
		assert.Equal(t, entity.GenerationStatusCompleted, gens[0].Status)
	}
}

func TestGenerate_QuotaExhaustedAfterCap(t *testing.T) {
	provider := &stubLLM{response: "ok"}
	_, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Generate(ctx, identity, validRequest())
		assert.NoError(t, err)
	}

	_, err := svc.Generate(ctx, identity, validRequest())

	var quotaErr *dto.QuotaExhaustedError
	assert.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 2, quotaErr.Limit)
	assert.Equal(t, 2, quotaErr.Used)

	// The third attempt never reached the model
	assert.Equal(t, 2, provider.calls)
}

func TestGenerate_QuotaErrorCarriesRealCounters(t *testing.T) {
	provider := &stubLLM{response: "ok"}
	factory, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}

	// Counter beyond the current cap: the denial must report what the
	// store says, not echo the limit back as usage
	factory.uow.usage.rows[identity.Id] = &entity.UsageCounters{
		UserId:                  identity.Id,
		LifetimeGenerationCount: 5,
	}

	_, err := svc.Generate(context.Background(), identity, validRequest())

	var quotaErr *dto.QuotaExhaustedError
	assert.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 5, quotaErr.Used)
	assert.Equal(t, 2, quotaErr.Limit)
	assert.Equal(t, 0, provider.calls)
}

func TestGenerate_ChargesOnFailedAttempt(t *testing.T) {
	provider := &stubLLM{err: assert.AnError}
	factory, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ctx := context.Background()

	_, err := svc.Generate(ctx, identity, validRequest())
	assert.Error(t, err)

	// Failed attempt still consumed one generation and left an audit row
	assert.Equal(t, 1, factory.uow.usage.rows[identity.Id].LifetimeGenerationCount)
	gens := factory.uow.generations.list
	if assert.Len(t, gens, 1) {
		assert.Equal(t, entity.GenerationStatusFailed, gens[0].Status)
		assert.Empty(t, gens[0].Result)
	}
}

func TestGenerate_AdminBypassesQuota(t *testing.T) {
	provider := &stubLLM{response: "ok"}
	_, svc := newGenerationFixture(provider)
	admin := &entity.UserIdentity{Id: uuid.New(), IsAdmin: true}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := svc.Generate(ctx, admin, validRequest())
		assert.NoError(t, err)
		assert.Nil(t, res.Remaining)
	}
}

func TestGenerate_UsesReferencedCV(t *testing.T) {
	provider := &stubLLM{response: "ok"}
	factory, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}

	cv := &entity.CV{Id: uuid.New(), UserId: identity.Id, Title: "Base CV", Content: "experience..."}
	factory.uow.cvs.cvs = append(factory.uow.cvs.cvs, cv)

	req := validRequest()
	req.CvId = &cv.Id

	res, err := svc.Generate(context.Background(), identity, req)

	assert.NoError(t, err)
	assert.NotNil(t, res)
}

func TestGenerate_RejectsForeignCV(t *testing.T) {
	provider := &stubLLM{response: "ok"}
	factory, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}

	// CV owned by someone else
	cv := &entity.CV{Id: uuid.New(), UserId: uuid.New(), Content: "not yours"}
	factory.uow.cvs.cvs = append(factory.uow.cvs.cvs, cv)

	req := validRequest()
	req.CvId = &cv.Id

	_, err := svc.Generate(context.Background(), identity, req)

	assert.EqualError(t, err, "cv not found")
	assert.Equal(t, 0, provider.calls)
}

func TestGetLatest_WarmAndColdPath(t *testing.T) {
	provider := &stubLLM{response: "latest result"}
	_, svc := newGenerationFixture(provider)
	identity := &entity.UserIdentity{Id: uuid.New()}
	ctx := context.Background()

	generated, err := svc.Generate(ctx, identity, validRequest())
	assert.NoError(t, err)

	latest, err := svc.GetLatest(ctx, identity.Id)
	assert.NoError(t, err)
	assert.Equal(t, generated.Id, latest.Id)
	assert.Equal(t, "latest result", latest.Result)
}
