package lock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSubjectLockerSerializesPerSubject(t *testing.T) {
	locker := NewLocalSubjectLocker()
	ctx := context.Background()

	const workers = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithSubjectLock(ctx, "patient-1", func(ctx context.Context) error {
				// Unsynchronized on purpose: the lock is the only thing
				// keeping this increment race-free.
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestLocalSubjectLockerPropagatesError(t *testing.T) {
	locker := NewLocalSubjectLocker()

	sentinel := assert.AnError
	err := locker.WithSubjectLock(context.Background(), "patient-1", func(ctx context.Context) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}
