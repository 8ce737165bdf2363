package memory

import (
	"context"
	"sync"

	"github.com/medipoint/clinic-api/internal/model"
)

// RequestLogRepo is an in-memory append-only audit log. Exported so tests
// can inspect what was written.
type RequestLogRepo struct {
	mu      sync.RWMutex
	entries []model.RequestLog
}

func NewRequestLogRepository() *RequestLogRepo {
	return &RequestLogRepo{}
}

func (r *RequestLogRepo) Create(ctx context.Context, entry *model.RequestLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *entry)
	return nil
}

// Entries returns a copy of the appended log.
func (r *RequestLogRepo) Entries() []model.RequestLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.RequestLog, len(r.entries))
	copy(out, r.entries)
	return out
}
