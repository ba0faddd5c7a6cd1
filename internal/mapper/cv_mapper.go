package mapper

import (
	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/model"
)

type CVMapper struct{}

func NewCVMapper() *CVMapper {
	return &CVMapper{}
}

func (m *CVMapper) ToEntity(c *model.CV) *entity.CV {
	if c == nil {
		return nil
	}
	return &entity.CV{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CVMapper) ToModel(c *entity.CV) *model.CV {
	if c == nil {
		return nil
	}
	return &model.CV{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CVMapper) ToEntities(cvs []*model.CV) []*entity.CV {
	entities := make([]*entity.CV, len(cvs))
	for i, c := range cvs {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
