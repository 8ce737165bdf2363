package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medipoint/clinic-api/pkg/errors"
)

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name  string
		phone string
		email string
		date  time.Time
		code  errors.ErrorCode
	}{
		{"ok", "+15551234567", "ana@example.com", future, 0},
		{"ok without plus", "15551234567", "ana@example.com", future, 0},
		{"ok short international", "+4912345", "ana@example.com", future, 0},
		{"phone with dashes", "+1-555-123-4567", "ana@example.com", future, errors.ErrInvalidPhone},
		{"phone leading zero", "+0551234567", "ana@example.com", future, errors.ErrInvalidPhone},
		{"phone too long", "+1234567890123456", "ana@example.com", future, errors.ErrInvalidPhone},
		{"phone empty", "", "ana@example.com", future, errors.ErrInvalidPhone},
		{"email without at", "+15551234567", "ana.example.com", future, errors.ErrInvalidEmail},
		{"email without domain dot", "+15551234567", "ana@example", future, errors.ErrInvalidEmail},
		{"email with spaces", "+15551234567", "ana maria@example.com", future, errors.ErrInvalidEmail},
		{"email empty", "+15551234567", "", future, errors.ErrInvalidEmail},
		{"date in the past", "+15551234567", "ana@example.com", now.Add(-time.Minute), errors.ErrInvalidDate},
		{"date equal to now", "+15551234567", "ana@example.com", now, errors.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.phone, tt.email, tt.date, now)
			if tt.code == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, errors.Code(err))
		})
	}
}

// Checks stop at the first failure, phone before email before date.
func TestValidateOrder(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	err := Validate("bad", "also-bad", now.Add(-time.Hour), now)
	assert.Equal(t, errors.ErrInvalidPhone, errors.Code(err))

	err = Validate("+15551234567", "also-bad", now.Add(-time.Hour), now)
	assert.Equal(t, errors.ErrInvalidEmail, errors.Code(err))
}
