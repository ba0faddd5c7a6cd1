// FILE: internal/entity/generation_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type GenerationKind string
type GenerationStatus string

const (
	GenerationKindCVTailor      GenerationKind = "cv_tailor"
	GenerationKindCoverLetter   GenerationKind = "cover_letter"
	GenerationKindInterviewPrep GenerationKind = "interview_prep"

	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// Generation is one completed (or failed) AI generation attempt.
// A failed attempt is persisted too: quota is charged on attempt.
type Generation struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	CvId           *uuid.UUID
	Kind           GenerationKind
	Status         GenerationStatus
	JobDescription string
	Result         string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}
