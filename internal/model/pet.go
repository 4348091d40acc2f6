package model

import (
	"time"

	"github.com/google/uuid"
)

// Pet is a read-only directory record.
type Pet struct {
	ID      uuid.UUID `db:"id" json:"id"`
	OwnerID uuid.UUID `db:"owner_id" json:"owner_id"`
	Name    string    `db:"name" json:"name"`
	Species string    `db:"species" json:"species"`
	Breed   string    `db:"breed" json:"breed,omitempty"`
}

// MedicalRecord is read-only enrichment attached to veterinarian day views.
type MedicalRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PetID     uuid.UUID `db:"pet_id" json:"pet_id"`
	Date      time.Time `db:"date" json:"date"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	Treatment string    `db:"treatment" json:"treatment,omitempty"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
}
