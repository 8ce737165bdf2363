package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the closed set of clinic-request states.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusScheduled RequestStatus = "scheduled"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Valid reports whether s is one of the five known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusScheduled,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses admit no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// ClinicRequest is a patient-submitted request for a clinic visit. The
// contact snapshot is denormalized at submission time and immutable; only
// status, the assigned physician and notes change after creation.
type ClinicRequest struct {
	ID                  uuid.UUID     `db:"id" json:"id"`
	PatientID           string        `db:"patient_id" json:"patient_id"`
	PatientName         string        `db:"patient_name" json:"patient_name"`
	ContactPhone        string        `db:"contact_phone" json:"contact_phone"`
	ContactEmail        string        `db:"contact_email" json:"contact_email"`
	PreferredDate       time.Time     `db:"preferred_date" json:"preferred_date"`
	Reason              string        `db:"reason" json:"reason"`
	AdditionalNotes     string        `db:"additional_notes" json:"additional_notes,omitempty"`
	AssignedPhysicianID *uuid.UUID    `db:"assigned_physician_id" json:"assigned_physician_id,omitempty"`
	Urgency             Urgency       `db:"urgency" json:"urgency"`
	Status              RequestStatus `db:"status" json:"status"`
	MedicalRecordLink   string        `db:"medical_record_link" json:"medical_record_link"`
	StatusLastUpdated   time.Time     `db:"status_last_updated" json:"status_last_updated"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
}

// CreateClinicRequestRequest is the submission payload.
type CreateClinicRequestRequest struct {
	PatientID           string     `json:"patient_id" binding:"required"`
	PatientName         string     `json:"patient_name" binding:"required"`
	ContactPhone        string     `json:"contact_phone" binding:"required"`
	ContactEmail        string     `json:"contact_email" binding:"required"`
	PreferredDate       time.Time  `json:"preferred_date" binding:"required"`
	Reason              string     `json:"reason" binding:"required,max=500"`
	AssignedPhysicianID *uuid.UUID `json:"assigned_physician_id"`
	Urgency             Urgency    `json:"urgency" binding:"required,oneof=routine urgent emergency"`
	AdditionalNotes     string     `json:"additional_notes" binding:"max=1000"`
}

// UpdateRequestStatusRequest carries a status transition plus the optional
// fields that may be merged alongside it.
type UpdateRequestStatusRequest struct {
	Status              RequestStatus `json:"status" binding:"required"`
	AssignedPhysicianID *uuid.UUID    `json:"assigned_physician_id"`
	AdditionalNotes     *string       `json:"additional_notes"`
}

// StatusUpdate is the service-level form of a transition: the new status and
// the extra fields to merge.
type StatusUpdate struct {
	Status              RequestStatus
	AssignedPhysicianID *uuid.UUID
	AdditionalNotes     *string
}
