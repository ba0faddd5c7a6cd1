package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Generation struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	CvId           *uuid.UUID     `gorm:"type:uuid;index"`
	Kind           string         `gorm:"type:varchar(50);not null;index"`
	Status         string         `gorm:"type:varchar(50);not null"`
	JobDescription string         `gorm:"type:text"`
	Result         string         `gorm:"type:text"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
}

func (Generation) TableName() string {
	return "generations"
}
