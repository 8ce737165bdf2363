package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestLog is an append-only audit record of a lifecycle action. Entries
// are never mutated or deleted by this service.
type RequestLog struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	RequestID uuid.UUID `db:"request_id" json:"request_id"`
	Action    string    `db:"action" json:"action"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	AuditActionCreated = "created"
)
