// FILE: internal/service/generation_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cv-adapter-be/internal/dto"
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/repository/memory"
	"cv-adapter-be/internal/repository/specification"
	"cv-adapter-be/internal/repository/unitofwork"
	"cv-adapter-be/pkg/events"
	"cv-adapter-be/pkg/llm"
	pktNats "cv-adapter-be/pkg/nats"

	"github.com/google/uuid"
)

type IGenerationService interface {
	// Generate runs the full pipeline: quota charge, LLM call, persistence.
	// The quota is charged on attempt; a failed LLM call does not refund it.
	Generate(ctx context.Context, identity *entity.UserIdentity, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.GenerationListItem, error)
	GetLatest(ctx context.Context, userId uuid.UUID) (*dto.GenerateResponse, error)
}

type generationService struct {
	uowFactory         unitofwork.RepositoryFactory
	entitlementService IEntitlementService
	usageService       IUsageService
	llmProvider        llm.LLMProvider
	resultCache        *memory.ResultCache
	eventPublisher     *pktNats.Publisher
	publisherService   IPublisherService
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	entitlementService IEntitlementService,
	usageService IUsageService,
	llmProvider llm.LLMProvider,
	resultCache *memory.ResultCache,
	eventPublisher *pktNats.Publisher,
	publisherService IPublisherService,
) IGenerationService {
	return &generationService{
		uowFactory:         uowFactory,
		entitlementService: entitlementService,
		usageService:       usageService,
		llmProvider:        llmProvider,
		resultCache:        resultCache,
		eventPublisher:     eventPublisher,
		publisherService:   publisherService,
	}
}

func (s *generationService) Generate(ctx context.Context, identity *entity.UserIdentity, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	// 1. Resolve entitlement (fails closed on store trouble)
	ent, err := s.entitlementService.ResolveEntitlement(ctx, identity)
	if err != nil {
		return nil, err
	}

	// 2. Charge the quota before doing any expensive work
	consume, err := s.usageService.TryConsume(ctx, identity, ent)
	if err != nil {
		return nil, err
	}
	if !consume.Allowed {
		return nil, &dto.QuotaExhaustedError{Limit: consume.Limit, Used: consume.Used}
	}

	// 3. Load the CV content if one was referenced
	uow := s.uowFactory.NewUnitOfWork(ctx)
	var cvContent string
	if req.CvId != nil {
		cv, err := uow.CVRepository().FindOne(ctx,
			specification.ByID{ID: *req.CvId},
			specification.UserOwnedBy{UserID: identity.Id},
		)
		if err != nil {
			return nil, &dto.StoreUnavailableError{Cause: err}
		}
		if cv == nil {
			return nil, errors.New("cv not found")
		}
		cvContent = cv.Content
	}

	// 4. Call the model
	start := time.Now()
	result, llmErr := s.llmProvider.Chat(ctx, buildMessages(req.Kind, cvContent, req.JobDescription),
		llm.WithTemperature(0.4),
	)
	durationMs := time.Since(start).Milliseconds()

	// 5. Persist the attempt either way (charge-on-attempt)
	generation := &entity.Generation{
		Id:             uuid.New(),
		UserId:         identity.Id,
		CvId:           req.CvId,
		Kind:           entity.GenerationKind(req.Kind),
		Status:         entity.GenerationStatusCompleted,
		JobDescription: req.JobDescription,
		Result:         result,
		Metadata: map[string]interface{}{
			"duration_ms": durationMs,
		},
		CreatedAt: time.Now(),
	}
	if llmErr != nil {
		generation.Status = entity.GenerationStatusFailed
		generation.Result = ""
		generation.Metadata["error"] = llmErr.Error()
	}

	if err := uow.GenerationRepository().Create(ctx, generation); err != nil {
		return nil, &dto.StoreUnavailableError{Cause: err}
	}

	if llmErr != nil {
		s.publishEvent(ctx, events.TypeGenerationFailed, identity.Id, generation)
		return nil, fmt.Errorf("generation failed: %w", llmErr)
	}

	s.resultCache.Save(identity.Id.String(), generation)
	s.publishEvent(ctx, events.TypeGenerationCompleted, identity.Id, generation)

	// Queue the activity touch off the request path
	if s.publisherService != nil {
		msgPayload := dto.GenerationActivityMessage{
			UserId:       identity.Id,
			GenerationId: generation.Id,
			Kind:         string(generation.Kind),
		}
		if msgJson, err := json.Marshal(msgPayload); err == nil {
			if err := s.publisherService.Publish(ctx, msgJson); err != nil {
				fmt.Printf("[WARN] Failed to queue activity message: %v\n", err)
			}
		}
	}

	return &dto.GenerateResponse{
		Id:        generation.Id,
		Kind:      string(generation.Kind),
		Result:    generation.Result,
		Remaining: consume.Remaining,
		CreatedAt: generation.CreatedAt,
	}, nil
}

func (s *generationService) List(ctx context.Context, userId uuid.UUID) ([]*dto.GenerationListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	generations, err := uow.GenerationRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.GenerationListItem, len(generations))
	for i, g := range generations {
		out[i] = &dto.GenerationListItem{
			Id:        g.Id,
			Kind:      string(g.Kind),
			Status:    string(g.Status),
			CreatedAt: g.CreatedAt,
		}
	}
	return out, nil
}

func (s *generationService) GetLatest(ctx context.Context, userId uuid.UUID) (*dto.GenerateResponse, error) {
	// Serve from the in-process cache when warm
	if cached, found := s.resultCache.Get(userId.String()); found {
		return generationToResponse(cached), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	generation, err := uow.GenerationRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if generation == nil {
		return nil, errors.New("no generations yet")
	}

	s.resultCache.Save(userId.String(), generation)
	return generationToResponse(generation), nil
}

func (s *generationService) publishEvent(ctx context.Context, eventType string, userId uuid.UUID, g *entity.Generation) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(eventType, map[string]interface{}{
		"user_id":       userId,
		"generation_id": g.Id,
		"kind":          string(g.Kind),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func generationToResponse(g *entity.Generation) *dto.GenerateResponse {
	return &dto.GenerateResponse{
		Id:        g.Id,
		Kind:      string(g.Kind),
		Result:    g.Result,
		CreatedAt: g.CreatedAt,
	}
}

// buildMessages assembles the chat history for each generation kind.
func buildMessages(kind, cvContent, jobDescription string) []llm.Message {
	var system string
	switch kind {
	case string(entity.GenerationKindCoverLetter):
		system = "You are a career writing assistant. Write a concise, specific cover letter tailored to the job description. Use only facts present in the CV."
	case string(entity.GenerationKindInterviewPrep):
		system = "You are an interview coach. Produce likely interview questions for this job description with suggested answers grounded in the candidate's CV."
	default:
		system = "You are a CV tailoring assistant. Rewrite the CV to emphasize the experience most relevant to the job description. Never invent experience."
	}

	user := fmt.Sprintf("Job description:\n%s", jobDescription)
	if cvContent != "" {
		user = fmt.Sprintf("CV:\n%s\n\n%s", cvContent, user)
	}

	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
