// FILE: internal/dto/generation_dto.go
// DTOs for the AI generation endpoint.
package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateRequest struct {
	Kind           string     `json:"kind" validate:"required,oneof=cv_tailor cover_letter interview_prep"`
	CvId           *uuid.UUID `json:"cv_id"`
	JobDescription string     `json:"job_description" validate:"required,min=20"`
}

type GenerateResponse struct {
	Id        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Result    string    `json:"result"`
	Remaining *int      `json:"remaining"` // nil = unlimited
	CreatedAt time.Time `json:"created_at"`
}

// GenerationActivityMessage rides the in-process queue from the generation
// flow to the activity consumer.
type GenerationActivityMessage struct {
	UserId       uuid.UUID `json:"user_id"`
	GenerationId uuid.UUID `json:"generation_id"`
	Kind         string    `json:"kind"`
}

type GenerationListItem struct {
	Id        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
