package model

import "github.com/google/uuid"

// Doctor is a directory entry used for physician assignment.
type Doctor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Specialty string    `db:"specialty" json:"specialty"`
	Email     string    `db:"email" json:"email"`
}
