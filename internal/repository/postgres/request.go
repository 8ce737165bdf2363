package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

// uniqueViolation is the postgres error code raised by the partial unique
// index on (patient_id) WHERE status = 'pending'.
const uniqueViolation = "23505"

type clinicRequestRepository struct {
	BaseRepository
}

func NewClinicRequestRepository(base BaseRepository) repository.ClinicRequestRepository {
	return &clinicRequestRepository{base}
}

func (r *clinicRequestRepository) Create(ctx context.Context, req *model.ClinicRequest) error {
	query := `
		INSERT INTO clinic_requests (
			id, patient_id, patient_name, contact_phone, contact_email,
			preferred_date, reason, additional_notes, assigned_physician_id,
			urgency, status, medical_record_link, status_last_updated, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.DB().ExecContext(ctx, query,
		req.ID,
		req.PatientID,
		req.PatientName,
		req.ContactPhone,
		req.ContactEmail,
		req.PreferredDate,
		req.Reason,
		req.AdditionalNotes,
		req.AssignedPhysicianID,
		req.Urgency,
		req.Status,
		req.MedicalRecordLink,
		req.StatusLastUpdated,
		req.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicatePending
		}
		return fmt.Errorf("failed to create clinic request: %w", err)
	}
	return nil
}

func (r *clinicRequestRepository) Get(ctx context.Context, id uuid.UUID) (*model.ClinicRequest, error) {
	query := `
		SELECT id, patient_id, patient_name, contact_phone, contact_email,
			   preferred_date, reason, additional_notes, assigned_physician_id,
			   urgency, status, medical_record_link, status_last_updated, created_at
		FROM clinic_requests
		WHERE id = $1
	`
	var req model.ClinicRequest
	err := r.DB().GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get clinic request: %w", err)
	}
	return &req, nil
}

func (r *clinicRequestRepository) Update(ctx context.Context, req *model.ClinicRequest) error {
	query := `
		UPDATE clinic_requests
		SET status = $1, assigned_physician_id = $2, additional_notes = $3,
			status_last_updated = $4
		WHERE id = $5
	`
	result, err := r.DB().ExecContext(ctx, query,
		req.Status,
		req.AssignedPhysicianID,
		req.AdditionalNotes,
		req.StatusLastUpdated,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *clinicRequestRepository) ListForPatient(ctx context.Context, patientID string) ([]*model.ClinicRequest, error) {
	query := `
		SELECT id, patient_id, patient_name, contact_phone, contact_email,
			   preferred_date, reason, additional_notes, assigned_physician_id,
			   urgency, status, medical_record_link, status_last_updated, created_at
		FROM clinic_requests
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	requests := []*model.ClinicRequest{}
	if err := r.DB().SelectContext(ctx, &requests, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list clinic requests: %w", err)
	}
	return requests, nil
}

func (r *clinicRequestRepository) CountActive(ctx context.Context, patientID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clinic_requests
		WHERE patient_id = $1 AND status = $2
	`
	var count int
	if err := r.DB().GetContext(ctx, &count, query, patientID, model.RequestStatusPending); err != nil {
		return 0, fmt.Errorf("failed to count active clinic requests: %w", err)
	}
	return count, nil
}

func (r *clinicRequestRepository) CountSince(ctx context.Context, patientID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clinic_requests
		WHERE patient_id = $1 AND created_at >= $2
	`
	var count int
	if err := r.DB().GetContext(ctx, &count, query, patientID, since); err != nil {
		return 0, fmt.Errorf("failed to count recent clinic requests: %w", err)
	}
	return count, nil
}
