package postgres

import (
	"context"
	"fmt"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

type requestLogRepository struct {
	BaseRepository
}

func NewRequestLogRepository(base BaseRepository) repository.RequestLogRepository {
	return &requestLogRepository{base}
}

// Create appends an audit entry. There is deliberately no update or delete.
func (r *requestLogRepository) Create(ctx context.Context, entry *model.RequestLog) error {
	query := `
		INSERT INTO clinic_request_logs (
			id, patient_id, request_id, action, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB().ExecContext(ctx, query,
		entry.ID,
		entry.PatientID,
		entry.RequestID,
		entry.Action,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create request log: %w", err)
	}
	return nil
}
