package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// ClinicRequestRepository persists clinic requests. Implementations must
	// enforce the single-pending-request-per-patient constraint at the store
	// level and report a violation as ErrDuplicatePending from Create.
	ClinicRequestRepository interface {
		Create(ctx context.Context, req *model.ClinicRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.ClinicRequest, error)
		Update(ctx context.Context, req *model.ClinicRequest) error
		ListForPatient(ctx context.Context, patientID string) ([]*model.ClinicRequest, error)
		CountActive(ctx context.Context, patientID string) (int, error)
		CountSince(ctx context.Context, patientID string, since time.Time) (int, error)
	}

	// RequestLogRepository is the append-only audit collection.
	RequestLogRepository interface {
		Create(ctx context.Context, entry *model.RequestLog) error
	}

	DoctorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error)
	}
)
