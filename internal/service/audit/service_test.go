package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medipoint/clinic-api/internal/repository/memory"
)

func TestRecord(t *testing.T) {
	repo := memory.NewRequestLogRepository()
	svc := NewService(repo)

	requestID := uuid.New()
	err := svc.Record(context.Background(), "patient-1", requestID, "created")
	require.NoError(t, err)
	err = svc.Record(context.Background(), "patient-1", requestID, "approved")
	require.NoError(t, err)

	entries := repo.Entries()
	require.Len(t, entries, 2)

	assert.NotEqual(t, uuid.Nil, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, "patient-1", entries[0].PatientID)
	assert.Equal(t, requestID, entries[0].RequestID)
	assert.Equal(t, "created", entries[0].Action)
	assert.Equal(t, "approved", entries[1].Action)
	assert.False(t, entries[0].CreatedAt.IsZero())
}
