package service

import (
	"context"
	"fmt"

	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/pkg/apperror"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultActivityLimit = 50

type IActivityService interface {
	List(ctx context.Context, userId uuid.UUID, req *dto.ListActivityRequest) ([]*dto.ActivityResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory) IActivityService {
	return &activityService{uowFactory: uowFactory}
}

func (c *activityService) List(ctx context.Context, userId uuid.UUID, req *dto.ListActivityRequest) ([]*dto.ActivityResponse, error) {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if req.SubjectId != "" {
		subjectId, err := uuid.Parse(req.SubjectId)
		if err != nil {
			return nil, fmt.Errorf("subject_id must be a uuid: %w", apperror.ErrInvalid)
		}
		specs = append(specs, specification.BySubjectID{SubjectID: subjectId})
	}
	if req.EventType != "" {
		specs = append(specs, specification.ByEventType{EventType: req.EventType})
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)

	uow := c.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.ActivityLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ActivityResponse, 0, len(logs))
	for _, log := range logs {
		result = append(result, &dto.ActivityResponse{
			Id:        log.Id,
			EventType: log.EventType,
			SubjectId: log.SubjectId,
			Details:   log.Details,
			CreatedAt: log.CreatedAt,
		})
	}
	return result, nil
}
