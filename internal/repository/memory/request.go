package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

type clinicRequestRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]model.ClinicRequest
}

// NewClinicRequestRepository returns an in-memory store that enforces the
// same single-pending-per-patient constraint the postgres schema does.
func NewClinicRequestRepository() repository.ClinicRequestRepository {
	return &clinicRequestRepo{
		byID: make(map[uuid.UUID]model.ClinicRequest),
	}
}

func (r *clinicRequestRepo) Create(ctx context.Context, req *model.ClinicRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.Status == model.RequestStatusPending {
		for _, existing := range r.byID {
			if existing.PatientID == req.PatientID && existing.Status == model.RequestStatusPending {
				return repository.ErrDuplicatePending
			}
		}
	}

	r.byID[req.ID] = *req
	return nil
}

func (r *clinicRequestRepo) Get(ctx context.Context, id uuid.UUID) (*model.ClinicRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &req, nil
}

func (r *clinicRequestRepo) Update(ctx context.Context, req *model.ClinicRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[req.ID] = *req
	return nil
}

func (r *clinicRequestRepo) ListForPatient(ctx context.Context, patientID string) ([]*model.ClinicRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.ClinicRequest{}
	for _, req := range r.byID {
		if req.PatientID == patientID {
			req := req
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clinicRequestRepo) CountActive(ctx context.Context, patientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, req := range r.byID {
		if req.PatientID == patientID && req.Status == model.RequestStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *clinicRequestRepo) CountSince(ctx context.Context, patientID string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, req := range r.byID {
		if req.PatientID == patientID && !req.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
