package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository/memory"
	"github.com/medipoint/clinic-api/internal/service/doctor"
	"github.com/medipoint/clinic-api/pkg/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, model.Doctor, fixedClock) {
	t.Helper()

	doc := model.Doctor{ID: uuid.New(), Name: "Dr. Osei", Specialty: "cardiology", Email: "osei@clinic.example"}
	clock := fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := NewService(
		memory.NewAppointmentRepository(),
		doctor.NewService(memory.NewDoctorRepository(doc)),
		clock,
	)
	return svc, doc, clock
}

func TestSchedule(t *testing.T) {
	svc, doc, clock := newTestService(t)
	ctx := context.Background()

	apt, err := svc.Schedule(ctx, &model.CreateAppointmentRequest{
		PatientID:    "patient-1",
		PatientName:  "Ana Marquez",
		DoctorID:     doc.ID,
		ScheduledFor: clock.now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, doc.ID, apt.DoctorID)
	assert.Equal(t, clock.now, apt.CreatedAt)

	listed, err := svc.ListForPatient(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, apt.ID, listed[0].ID)
}

func TestScheduleRejectsPastDate(t *testing.T) {
	svc, doc, clock := newTestService(t)

	_, err := svc.Schedule(context.Background(), &model.CreateAppointmentRequest{
		PatientID:    "patient-1",
		PatientName:  "Ana Marquez",
		DoctorID:     doc.ID,
		ScheduledFor: clock.now.Add(-time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidDate, errors.Code(err))
}

func TestScheduleUnknownDoctor(t *testing.T) {
	svc, _, clock := newTestService(t)

	_, err := svc.Schedule(context.Background(), &model.CreateAppointmentRequest{
		PatientID:    "patient-1",
		PatientName:  "Ana Marquez",
		DoctorID:     uuid.New(),
		ScheduledFor: clock.now.Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.Code(err))
}

func TestCancel(t *testing.T) {
	svc, doc, clock := newTestService(t)
	ctx := context.Background()
	owner := model.Actor{SubjectID: "patient-1", Role: model.RolePatient}
	other := model.Actor{SubjectID: "patient-2", Role: model.RolePatient}

	apt, err := svc.Schedule(ctx, &model.CreateAppointmentRequest{
		PatientID:    "patient-1",
		PatientName:  "Ana Marquez",
		DoctorID:     doc.ID,
		ScheduledFor: clock.now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	err = svc.Cancel(ctx, other, apt.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrUnauthorized, errors.Code(err))

	require.NoError(t, svc.Cancel(ctx, owner, apt.ID))

	// Already cancelled, cancelling again is rejected.
	err = svc.Cancel(ctx, owner, apt.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidTransition, errors.Code(err))
}

func TestCancelUnknownAppointment(t *testing.T) {
	svc, _, _ := newTestService(t)
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	err := svc.Cancel(context.Background(), staff, uuid.New())
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.Code(err))
}
