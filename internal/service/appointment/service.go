package appointment

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
	"github.com/medipoint/clinic-api/internal/service/doctor"
	"github.com/medipoint/clinic-api/internal/service/request"
	"github.com/medipoint/clinic-api/pkg/errors"
)

// Service books appointments. This is the simpler sibling of the
// clinic-request flow: a date check and a doctor lookup, no rate limiting,
// no duplicate guard.
type Service struct {
	repo      repository.AppointmentRepository
	doctorSvc *doctor.Service
	clock     request.Clock
}

func NewService(repo repository.AppointmentRepository, doctorSvc *doctor.Service, clock request.Clock) *Service {
	if clock == nil {
		clock = request.SystemClock()
	}
	return &Service{
		repo:      repo,
		doctorSvc: doctorSvc,
		clock:     clock,
	}
}

func (s *Service) Schedule(ctx context.Context, input *model.CreateAppointmentRequest) (*model.Appointment, error) {
	now := s.clock.Now()
	if !input.ScheduledFor.After(now) {
		return nil, errors.NewInvalidDate("appointment time must be in the future")
	}

	if _, err := s.doctorSvc.Get(ctx, input.DoctorID); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:           uuid.New(),
		PatientID:    input.PatientID,
		PatientName:  input.PatientName,
		DoctorID:     input.DoctorID,
		ScheduledFor: input.ScheduledFor,
		Status:       model.AppointmentStatusScheduled,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, errors.NewStore(err)
	}
	return apt, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, errors.NewStore(err)
	}
	return appointments, nil
}

func (s *Service) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFound("appointment", err)
		}
		return errors.NewStore(err)
	}

	if !actor.Staff() && actor.SubjectID != apt.PatientID {
		return errors.NewUnauthorized(nil)
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return errors.NewInvalidTransition(string(apt.Status), string(model.AppointmentStatusCancelled))
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		return errors.NewStore(err)
	}
	return nil
}
