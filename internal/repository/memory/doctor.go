package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
)

type doctorRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]model.Doctor
}

func NewDoctorRepository(doctors ...model.Doctor) repository.DoctorRepository {
	r := &doctorRepo{byID: make(map[uuid.UUID]model.Doctor)}
	for _, d := range doctors {
		r.byID[d.ID] = d
	}
	return r
}

func (r *doctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *doctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Doctor, 0, len(r.byID))
	for _, d := range r.byID {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
