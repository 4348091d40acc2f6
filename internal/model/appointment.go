package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// Terminal reports whether no further lifecycle transition is allowed.
// COMPLETED is set outside this system but still blocks mutations.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted
}

type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	PetID           uuid.UUID         `db:"pet_id" json:"pet_id"`
	ClientID        uuid.UUID         `db:"client_id" json:"client_id"`
	VeterinarianID  uuid.UUID         `db:"veterinarian_id" json:"veterinarian_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
	ReminderSent    bool              `db:"reminder_sent" json:"reminder_sent"`
	Revision        int64             `db:"revision" json:"-"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

type CreateAppointmentRequest struct {
	PetID           uuid.UUID `json:"pet_id" binding:"required"`
	ClientID        uuid.UUID `json:"client_id" binding:"required"`
	VeterinarianID  uuid.UUID `json:"veterinarian_id" binding:"required"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required,future"`
	Reason          string    `json:"reason" binding:"required,max=500"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

type RescheduleAppointmentRequest struct {
	NewDate time.Time `json:"new_date" binding:"required,future"`
	Reason  string    `json:"reason" binding:"max=500"`
}

// AppointmentResponse is the enriched outward-facing shape: the raw record
// plus display data looked up from the directories.
type AppointmentResponse struct {
	ID              uuid.UUID         `json:"id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	Reason          string            `json:"reason"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	Client          *User             `json:"client,omitempty"`
	Veterinarian    *User             `json:"veterinarian,omitempty"`
	Pet             *Pet              `json:"pet,omitempty"`
	PetHistory      []*MedicalRecord  `json:"pet_history,omitempty"`
}

// DailyAppointment is the flattened receptionist day-view record. The
// CanCancel/CanReschedule booleans are advisory UI hints computed at query
// time; the authoritative checks run inside the lifecycle service.
type DailyAppointment struct {
	ID               uuid.UUID         `json:"id"`
	AppointmentTime  time.Time         `json:"appointment_time"`
	ClientID         uuid.UUID         `json:"client_id"`
	ClientName       string            `json:"client_name"`
	ClientEmail      string            `json:"client_email"`
	ClientPhone      string            `json:"client_phone"`
	PetID            uuid.UUID         `json:"pet_id"`
	PetName          string            `json:"pet_name"`
	PetSpecies       string            `json:"pet_species"`
	PetBreed         string            `json:"pet_breed"`
	VeterinarianID   uuid.UUID         `json:"veterinarian_id"`
	VeterinarianName string            `json:"veterinarian_name"`
	Status           AppointmentStatus `json:"status"`
	Reason           string            `json:"reason"`
	CanCancel        bool              `json:"can_cancel"`
	CanReschedule    bool              `json:"can_reschedule"`
}

// AppointmentsByPet groups a client's future appointments under one pet.
type AppointmentsByPet struct {
	Pet          *Pet                   `json:"pet"`
	Appointments []*AppointmentResponse `json:"appointments"`
	Count        int                    `json:"count"`
}

// ScheduleFilters narrows day-window queries. VeterinarianID and PetID are
// optional scopes; FilterField/FilterValue carry the single caller-supplied
// equality filter.
type ScheduleFilters struct {
	VeterinarianID uuid.UUID
	PetID          uuid.UUID
	Start          time.Time
	End            time.Time
	FilterField    string
	FilterValue    string
}

// AppointmentEvent is published to the broker after a persisted lifecycle
// transition.
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
