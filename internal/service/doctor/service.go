package doctor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/internal/repository"
	"github.com/medipoint/clinic-api/pkg/errors"
)

const (
	listCacheKey    = "doctors:all"
	cacheTTL        = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
)

// Service serves the doctor directory. The directory changes rarely, so
// reads go through a short-lived in-process cache.
type Service struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cleanupInterval),
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.Doctor), nil
	}

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFound("doctor", err)
		}
		return nil, errors.NewStore(err)
	}

	s.cache.SetDefault(id.String(), doc)
	return doc, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.Doctor), nil
	}

	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewStore(err)
	}

	s.cache.SetDefault(listCacheKey, doctors)
	return doctors, nil
}
