package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicatePending is returned by ClinicRequestRepository.Create when
	// the store-level uniqueness constraint on (patient_id, status=pending)
	// rejects the insert.
	ErrDuplicatePending = errors.New("pending clinic request already exists for patient")
)
