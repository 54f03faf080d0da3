package mapper

import (
	"encoding/json"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityLogMapper struct{}

func NewActivityLogMapper() *ActivityLogMapper {
	return &ActivityLogMapper{}
}

func (m *ActivityLogMapper) ToEntity(a *model.ActivityLog) *entity.ActivityLog {
	if a == nil {
		return nil
	}

	details := make(map[string]interface{})
	if len(a.Details) > 0 {
		// Malformed JSON leaves details empty rather than failing the read.
		_ = json.Unmarshal(a.Details, &details)
	}

	return &entity.ActivityLog{
		Id:        a.Id,
		UserId:    a.UserId,
		EventType: a.EventType,
		SubjectId: a.SubjectId,
		Details:   details,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityLogMapper) ToModel(a *entity.ActivityLog) (*model.ActivityLog, error) {
	if a == nil {
		return nil, nil
	}

	var details datatypes.JSON
	if a.Details != nil {
		raw, err := json.Marshal(a.Details)
		if err != nil {
			return nil, err
		}
		details = datatypes.JSON(raw)
	}

	return &model.ActivityLog{
		Id:        a.Id,
		UserId:    a.UserId,
		EventType: a.EventType,
		SubjectId: a.SubjectId,
		Details:   details,
		CreatedAt: a.CreatedAt,
	}, nil
}

func (m *ActivityLogMapper) ToEntities(logs []*model.ActivityLog) []*entity.ActivityLog {
	entities := make([]*entity.ActivityLog, len(logs))
	for i, a := range logs {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
