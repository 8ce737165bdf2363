package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked visit. Booking is structurally the simpler
// sibling of the clinic-request flow: no rate limiting, no duplicate guard.
type Appointment struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	PatientID    string            `db:"patient_id" json:"patient_id"`
	PatientName  string            `db:"patient_name" json:"patient_name"`
	DoctorID     uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	ScheduledFor time.Time         `db:"scheduled_for" json:"scheduled_for"`
	Status       AppointmentStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	PatientID    string    `json:"patient_id" binding:"required"`
	PatientName  string    `json:"patient_name" binding:"required"`
	DoctorID     uuid.UUID `json:"doctor_id" binding:"required"`
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
}
