package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, patient_name, doctor_id, scheduled_for, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB().ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.PatientName,
		apt.DoctorID,
		apt.ScheduledFor,
		apt.Status,
		apt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, patient_name, doctor_id, scheduled_for, status, created_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.DB().GetContext(ctx, &apt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET scheduled_for = $1, status = $2
		WHERE id = $3
	`
	result, err := r.DB().ExecContext(ctx, query, apt.ScheduledFor, apt.Status, apt.ID)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
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

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, patient_name, doctor_id, scheduled_for, status, created_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY scheduled_for DESC
	`
	appointments := []*model.Appointment{}
	if err := r.DB().SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
