package request

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository/memory"
	"github.com/medipoint/clinic-api/internal/service/audit"
	"github.com/medipoint/clinic-api/pkg/errors"
	"github.com/medipoint/clinic-api/pkg/lock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (n *recordingNotifier) Notify(ctx context.Context, patientID, patientName string, requestID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, requestID)
	return n.err
}

func (n *recordingNotifier) Calls() []uuid.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]uuid.UUID, len(n.calls))
	copy(out, n.calls)
	return out
}

type fixture struct {
	svc      *Service
	clock    *fakeClock
	notifier *recordingNotifier
	logs     *memory.RequestLogRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	logs := memory.NewRequestLogRepository()
	notifier := &recordingNotifier{}

	svc := NewService(
		memory.NewClinicRequestRepository(),
		audit.NewService(logs),
		notifier,
		lock.NewLocalSubjectLocker(),
		clock,
		Config{},
	)
	return &fixture{svc: svc, clock: clock, notifier: notifier, logs: logs}
}

func validInput(patientID string, clock *fakeClock) *model.CreateClinicRequestRequest {
	return &model.CreateClinicRequestRequest{
		PatientID:     patientID,
		PatientName:   "Ana Marquez",
		ContactPhone:  "+15551234567",
		ContactEmail:  "ana@example.com",
		PreferredDate: clock.Now().Add(48 * time.Hour),
		Reason:        "persistent migraines",
		Urgency:       model.UrgencyRoutine,
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := validInput("patient-1", f.clock)
	req, err := f.svc.Submit(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, req)

	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, model.RequestStatusPending, req.Status)
	assert.Equal(t, "/patients/patient-1/medical-record", req.MedicalRecordLink)
	assert.Equal(t, f.clock.Now(), req.CreatedAt)
	assert.Equal(t, req.CreatedAt, req.StatusLastUpdated)
	assert.Equal(t, input.ContactPhone, req.ContactPhone)
	assert.Equal(t, input.ContactEmail, req.ContactEmail)

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, req.ID, stored[0].ID)

	// The side channel fired and the audit log recorded the admission.
	assert.Equal(t, []uuid.UUID{req.ID}, f.notifier.Calls())
	entries := f.logs.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "patient-1", entries[0].PatientID)
	assert.Equal(t, req.ID, entries[0].RequestID)
	assert.Equal(t, model.AuditActionCreated, entries[0].Action)
}

func TestSubmitDuplicatePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	second, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.Error(t, err)
	assert.Nil(t, second)
	assert.Equal(t, errors.ErrDuplicateRequest, errors.Code(err))

	// Nothing new was persisted, notified or audited.
	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.Len(t, f.notifier.Calls(), 1)
	assert.Len(t, f.logs.Entries(), 1)
}

func TestSubmitDuplicateOnlyBlocksSamePatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, validInput("patient-2", f.clock))
	assert.NoError(t, err)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *model.CreateClinicRequestRequest, clock *fakeClock)
		code   errors.ErrorCode
	}{
		{
			name: "malformed phone",
			mutate: func(in *model.CreateClinicRequestRequest, _ *fakeClock) {
				in.ContactPhone = "555-CALL-NOW"
			},
			code: errors.ErrInvalidPhone,
		},
		{
			name: "malformed email",
			mutate: func(in *model.CreateClinicRequestRequest, _ *fakeClock) {
				in.ContactEmail = "ana@@example"
			},
			code: errors.ErrInvalidEmail,
		},
		{
			name: "preferred date in the past",
			mutate: func(in *model.CreateClinicRequestRequest, clock *fakeClock) {
				in.PreferredDate = clock.Now().Add(-time.Hour)
			},
			code: errors.ErrInvalidDate,
		},
		{
			name: "preferred date equal to now",
			mutate: func(in *model.CreateClinicRequestRequest, clock *fakeClock) {
				in.PreferredDate = clock.Now()
			},
			code: errors.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			input := validInput("patient-1", f.clock)
			tt.mutate(input, f.clock)

			req, err := f.svc.Submit(ctx, input)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.Equal(t, tt.code, errors.Code(err))

			stored, err := f.svc.ListForSubject(ctx, "patient-1")
			require.NoError(t, err)
			assert.Empty(t, stored)
			assert.Empty(t, f.notifier.Calls())
			assert.Empty(t, f.logs.Entries())
		})
	}
}

func TestSubmitRateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	// Three admissions inside the hour. Each is cancelled so the pending
	// guard does not mask the rate limit.
	for i := 0; i < 3; i++ {
		req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
		require.NoError(t, err, "submission %d", i+1)

		err = f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: model.RequestStatusCancelled})
		require.NoError(t, err)
		f.clock.Advance(5 * time.Minute)
	}

	_, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.Error(t, err)
	assert.Equal(t, errors.ErrRateLimited, errors.Code(err))

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	// Once the window has rolled past the earliest submission the next
	// attempt is admitted again.
	f.clock.Advance(50 * time.Minute)
	_, err = f.svc.Submit(ctx, validInput("patient-1", f.clock))
	assert.NoError(t, err)
}

func TestSubmitRateLimitIsPerPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	for i := 0; i < 3; i++ {
		req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
		require.NoError(t, err)
		require.NoError(t, f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: model.RequestStatusCancelled}))
	}

	_, err := f.svc.Submit(ctx, validInput("patient-2", f.clock))
	assert.NoError(t, err)
}

func TestSubmitConcurrentSameSubject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		if err == nil {
			admitted++
			continue
		}
		assert.Equal(t, errors.ErrDuplicateRequest, errors.Code(err))
	}
	assert.Equal(t, 1, admitted)

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmitNotifierFailureDoesNotFailAdmission(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = stderrors.New("broker down")
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)
	require.NotNil(t, req)

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	// The admission itself is still audited.
	assert.Len(t, f.logs.Entries(), 1)
}

func TestUpdateStatusByStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	physician := uuid.New()
	notes := "assigned to Dr. Osei, cardiology"
	f.clock.Advance(10 * time.Minute)

	err = f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{
		Status:              model.RequestStatusApproved,
		AssignedPhysicianID: &physician,
		AdditionalNotes:     &notes,
	})
	require.NoError(t, err)

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	got := stored[0]
	assert.Equal(t, model.RequestStatusApproved, got.Status)
	require.NotNil(t, got.AssignedPhysicianID)
	assert.Equal(t, physician, *got.AssignedPhysicianID)
	assert.Equal(t, notes, got.AdditionalNotes)
	assert.True(t, got.StatusLastUpdated.After(got.CreatedAt))
	// The snapshot taken at submission does not change.
	assert.Equal(t, req.ContactPhone, got.ContactPhone)
	assert.Equal(t, req.PreferredDate, got.PreferredDate)

	entries := f.logs.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditActionCreated, entries[0].Action)
	assert.Equal(t, string(model.RequestStatusApproved), entries[1].Action)
}

func TestUpdateStatusStaffMaySkipStages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	// pending straight to completed, no approve/schedule in between.
	err = f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: model.RequestStatusCompleted})
	assert.NoError(t, err)
}

func TestUpdateStatusTerminalIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	for _, terminal := range []model.RequestStatus{model.RequestStatusCompleted, model.RequestStatusCancelled} {
		req, err := f.svc.Submit(ctx, validInput(fmt.Sprintf("patient-%s", terminal), f.clock))
		require.NoError(t, err)
		require.NoError(t, f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: terminal}))

		for _, next := range []model.RequestStatus{
			model.RequestStatusPending, model.RequestStatusApproved,
			model.RequestStatusScheduled, model.RequestStatusCompleted,
			model.RequestStatusCancelled,
		} {
			err := f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: next})
			require.Error(t, err, "from %s to %s", terminal, next)
			assert.Equal(t, errors.ErrInvalidTransition, errors.Code(err))
		}
	}
}

func TestUpdateStatusPatientCancelsOwnPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := model.Actor{SubjectID: "patient-1", Role: model.RolePatient}

	req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	err = f.svc.UpdateStatus(ctx, patient, req.ID, &model.StatusUpdate{Status: model.RequestStatusCancelled})
	require.NoError(t, err)

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCancelled, stored[0].Status)
}

func TestUpdateStatusPatientRestrictions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := model.Actor{SubjectID: "patient-1", Role: model.RolePatient}
	other := model.Actor{SubjectID: "patient-2", Role: model.RolePatient}

	req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	// Owner may not move the request anywhere but cancelled.
	err = f.svc.UpdateStatus(ctx, owner, req.ID, &model.StatusUpdate{Status: model.RequestStatusApproved})
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidTransition, errors.Code(err))

	// Another patient may not cancel it.
	err = f.svc.UpdateStatus(ctx, other, req.ID, &model.StatusUpdate{Status: model.RequestStatusCancelled})
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidTransition, errors.Code(err))

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, stored[0].Status)
	// Rejected transitions are never audited.
	assert.Len(t, f.logs.Entries(), 1)
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	f := newFixture(t)
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	err := f.svc.UpdateStatus(context.Background(), staff, uuid.New(), &model.StatusUpdate{Status: model.RequestStatusApproved})
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.Code(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	err = f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: "archived"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidTransition, errors.Code(err))
}

func TestListForSubjectNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := model.Actor{SubjectID: "staff-1", Role: model.RoleStaff}

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		req, err := f.svc.Submit(ctx, validInput("patient-1", f.clock))
		require.NoError(t, err)
		ids = append(ids, req.ID)
		require.NoError(t, f.svc.UpdateStatus(ctx, staff, req.ID, &model.StatusUpdate{Status: model.RequestStatusCompleted}))
		f.clock.Advance(10 * time.Minute)
	}

	stored, err := f.svc.ListForSubject(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, ids[2], stored[0].ID)
	assert.Equal(t, ids[1], stored[1].ID)
	assert.Equal(t, ids[0], stored[2].ID)
}

func TestCountActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	count, err := f.svc.CountActive(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = f.svc.Submit(ctx, validInput("patient-1", f.clock))
	require.NoError(t, err)

	count, err = f.svc.CountActive(ctx, "patient-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
