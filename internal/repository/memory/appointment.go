package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

type appointmentRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]model.Appointment
}

func NewAppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepo{
		byID: make(map[uuid.UUID]model.Appointment),
	}
}

func (r *appointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[apt.ID] = *apt
	return nil
}

func (r *appointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apt, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &apt, nil
}

func (r *appointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[apt.ID] = *apt
	return nil
}

func (r *appointmentRepo) ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Appointment{}
	for _, apt := range r.byID {
		if apt.PatientID == patientID {
			apt := apt
			out = append(out, &apt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledFor.After(out[j].ScheduledFor)
	})
	return out, nil
}
