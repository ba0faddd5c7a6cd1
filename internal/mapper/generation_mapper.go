package mapper

import (
	"encoding/json"

	"cv-adapter-be/internal/entity"
	"cv-adapter-be/internal/model"

	"gorm.io/datatypes"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) ToEntity(g *model.Generation) *entity.Generation {
	if g == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(g.Metadata) > 0 {
		// Best effort; a row with corrupt metadata still maps.
		_ = json.Unmarshal(g.Metadata, &meta)
	}
	return &entity.Generation{
		Id:             g.Id,
		UserId:         g.UserId,
		CvId:           g.CvId,
		Kind:           entity.GenerationKind(g.Kind),
		Status:         entity.GenerationStatus(g.Status),
		JobDescription: g.JobDescription,
		Result:         g.Result,
		Metadata:       meta,
		CreatedAt:      g.CreatedAt,
	}
}

func (m *GenerationMapper) ToModel(g *entity.Generation) *model.Generation {
	if g == nil {
		return nil
	}
	var meta datatypes.JSON
	if g.Metadata != nil {
		if raw, err := json.Marshal(g.Metadata); err == nil {
			meta = raw
		}
	}
	return &model.Generation{
		Id:             g.Id,
		UserId:         g.UserId,
		CvId:           g.CvId,
		Kind:           string(g.Kind),
		Status:         string(g.Status),
		JobDescription: g.JobDescription,
		Result:         g.Result,
		Metadata:       meta,
		CreatedAt:      g.CreatedAt,
	}
}

func (m *GenerationMapper) ToEntities(gens []*model.Generation) []*entity.Generation {
	entities := make([]*entity.Generation, len(gens))
	for i, g := range gens {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
