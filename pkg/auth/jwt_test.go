package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medipoint/clinic-api/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken("patient-1", model.RolePatient, time.Hour)
	require.NoError(t, err)

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "patient-1", actor.SubjectID)
	assert.Equal(t, model.RolePatient, actor.Role)
	assert.False(t, actor.Staff())

	token, err = svc.GenerateToken("staff-1", model.RoleStaff, time.Hour)
	require.NoError(t, err)
	actor, err = svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, actor.Staff())
}

func TestValidateRejectsBadTokens(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := NewJWTService("other-secret")
	token, err := other.GenerateToken("patient-1", model.RolePatient, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	expired, err := svc.GenerateToken("patient-1", model.RolePatient, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)
}
