// FILE: internal/entity/cv_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CV holds the uploaded resume as plain text. Parsing/rendering of source
// documents happens client-side; the backend only stores content.
type CV struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
