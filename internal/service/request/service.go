package request

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
	"github.com/medipoint/clinic-api/internal/service/audit"
	"github.com/medipoint/clinic-api/internal/service/notification"
	"github.com/medipoint/clinic-api/pkg/errors"
	"github.com/medipoint/clinic-api/pkg/lock"
)

// Admission limits: a patient may hold one pending request at a time and
// submit at most MaxPerWindow requests per rolling Window.
const (
	DefaultMaxPerWindow = 3
	DefaultWindow       = time.Hour
)

// Config tunes the admission limits.
type Config struct {
	MaxPerWindow int
	Window       time.Duration
}

// Service is the clinic-request lifecycle manager: it admits new requests
// (duplicate guard, validation, rate limit) and applies status transitions.
type Service struct {
	repo         repository.ClinicRequestRepository
	auditor      *audit.Service
	notifier     notification.Notifier
	locker       lock.SubjectLocker
	clock        Clock
	maxPerWindow int
	window       time.Duration
}

func NewService(repo repository.ClinicRequestRepository, auditor *audit.Service, notifier notification.Notifier, locker lock.SubjectLocker, clock Clock, cfg Config) *Service {
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = DefaultMaxPerWindow
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		repo:         repo,
		auditor:      auditor,
		notifier:     notifier,
		locker:       locker,
		clock:        clock,
		maxPerWindow: cfg.MaxPerWindow,
		window:       cfg.Window,
	}
}

// Submit admits a new clinic request. Admission order: duplicate guard,
// contact/date validation, rate limit, persist. Submissions are serialized
// per patient so two concurrent submits cannot both pass the duplicate
// check; the store's uniqueness constraint backstops the lock.
func (s *Service) Submit(ctx context.Context, input *model.CreateClinicRequestRequest) (*model.ClinicRequest, error) {
	var created *model.ClinicRequest

	err := s.locker.WithSubjectLock(ctx, input.PatientID, func(ctx context.Context) error {
		active, err := s.repo.CountActive(ctx, input.PatientID)
		if err != nil {
			return errors.NewStore(err)
		}
		if active > 0 {
			return errors.NewDuplicateRequest(input.PatientID)
		}

		now := s.clock.Now()
		if err := Validate(input.ContactPhone, input.ContactEmail, input.PreferredDate, now); err != nil {
			return err
		}

		recent, err := s.repo.CountSince(ctx, input.PatientID, now.Add(-s.window))
		if err != nil {
			return errors.NewStore(err)
		}
		if recent >= s.maxPerWindow {
			return errors.NewRateLimited("too many clinic requests, please wait before submitting another")
		}

		req := &model.ClinicRequest{
			ID:                  uuid.New(),
			PatientID:           input.PatientID,
			PatientName:         input.PatientName,
			ContactPhone:        input.ContactPhone,
			ContactEmail:        input.ContactEmail,
			PreferredDate:       input.PreferredDate,
			Reason:              input.Reason,
			AdditionalNotes:     input.AdditionalNotes,
			AssignedPhysicianID: input.AssignedPhysicianID,
			Urgency:             input.Urgency,
			Status:              model.RequestStatusPending,
			MedicalRecordLink:   fmt.Sprintf("/patients/%s/medical-record", input.PatientID),
			StatusLastUpdated:   now,
			CreatedAt:           now,
		}

		if err := s.repo.Create(ctx, req); err != nil {
			if stderrors.Is(err, repository.ErrDuplicatePending) {
				return errors.NewDuplicateRequest(input.PatientID)
			}
			return errors.NewStore(err)
		}

		created = req
		return nil
	})
	if err != nil {
		if stderrors.Is(err, lock.ErrNotAcquired) {
			// Another submission for this patient is in flight; callers treat
			// this the same as an existing pending request.
			return nil, errors.NewDuplicateRequest(input.PatientID)
		}
		return nil, err
	}

	// Side channel is best-effort: the request exists even when the
	// notification or the audit append fails.
	s.notify(ctx, created)
	s.audit(ctx, created.PatientID, created.ID, model.AuditActionCreated)

	return created, nil
}

// UpdateStatus applies a status transition on behalf of an actor and merges
// the optional extra fields. The audit entry is tagged with the new status.
func (s *Service) UpdateStatus(ctx context.Context, actor model.Actor, requestID uuid.UUID, update *model.StatusUpdate) error {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFound("clinic request", err)
		}
		return errors.NewStore(err)
	}

	if err := checkTransition(actor, req, update.Status); err != nil {
		return err
	}

	req.Status = update.Status
	if update.AssignedPhysicianID != nil {
		req.AssignedPhysicianID = update.AssignedPhysicianID
	}
	if update.AdditionalNotes != nil {
		req.AdditionalNotes = *update.AdditionalNotes
	}
	req.StatusLastUpdated = s.clock.Now()

	if err := s.repo.Update(ctx, req); err != nil {
		return errors.NewStore(err)
	}

	s.audit(ctx, req.PatientID, req.ID, string(update.Status))
	return nil
}

// ListForSubject returns the patient's requests, most recent first. Each
// call is a fresh snapshot of the store.
func (s *Service) ListForSubject(ctx context.Context, patientID string) ([]*model.ClinicRequest, error) {
	requests, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, errors.NewStore(err)
	}
	return requests, nil
}

// CountActive reports the patient's pending requests, exposed for UI-level
// duplicate warnings.
func (s *Service) CountActive(ctx context.Context, patientID string) (int, error) {
	count, err := s.repo.CountActive(ctx, patientID)
	if err != nil {
		return 0, errors.NewStore(err)
	}
	return count, nil
}

func (s *Service) notify(ctx context.Context, req *model.ClinicRequest) {
	if err := s.notifier.Notify(ctx, req.PatientID, req.PatientName, req.ID); err != nil {
		log.Warn().Err(err).
			Str("request_id", req.ID.String()).
			Str("patient_id", req.PatientID).
			Msg("notification failed")
	}
}

func (s *Service) audit(ctx context.Context, patientID string, requestID uuid.UUID, action string) {
	if err := s.auditor.Record(ctx, patientID, requestID, action); err != nil {
		log.Warn().Err(err).
			Str("request_id", requestID.String()).
			Str("patient_id", patientID).
			Str("action", action).
			Msg("audit append failed")
	}
}
