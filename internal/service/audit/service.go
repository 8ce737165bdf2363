package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

// Service appends immutable lifecycle records to the request log. The log is
// write-only from this service's point of view; a failed append never rolls
// back the operation that triggered it.
type Service struct {
	repo repository.RequestLogRepository
}

func NewService(repo repository.RequestLogRepository) *Service {
	return &Service{repo: repo}
}

// Record appends one audit entry.
func (s *Service) Record(ctx context.Context, patientID string, requestID uuid.UUID, action string) error {
	entry := &model.RequestLog{
		ID:        uuid.New(),
		PatientID: patientID,
		RequestID: requestID,
		Action:    action,
		CreatedAt: time.Now(),
	}
	return s.repo.Create(ctx, entry)
}
