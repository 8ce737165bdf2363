package lock

import (
	"context"
	"sync"
)

type localSubjectLocker struct {
	mu    sync.Mutex
	inUse map[string]*sync.Mutex
}

// NewLocalSubjectLocker returns an in-process locker. Suitable for a single
// instance deployment and for tests; multi-instance deployments need the
// Redis locker.
func NewLocalSubjectLocker() SubjectLocker {
	return &localSubjectLocker{
		inUse: make(map[string]*sync.Mutex),
	}
}

func (l *localSubjectLocker) WithSubjectLock(ctx context.Context, subjectID string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.inUse[subjectID]
	if !ok {
		m = &sync.Mutex{}
		l.inUse[subjectID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	return fn(ctx)
}
