package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/model"
)

// Sentinel errors translated by implementations so services can map them to
// the caller-facing error taxonomy without knowing the storage engine.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("revision mismatch")
)

// All repository interfaces in one file
type (
	// AppointmentRepository is the store gateway for appointment records.
	// Update and MarkReminderSent assert the expected prior revision and
	// report ErrConflict on a lost race.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		ListWindow(ctx context.Context, filters *model.ScheduleFilters, page *model.PageRequest) ([]*model.Appointment, error)
		CountWindow(ctx context.Context, filters *model.ScheduleFilters) (int64, error)
		ListDueForReminder(ctx context.Context, before time.Time) ([]*model.Appointment, error)
		MarkReminderSent(ctx context.Context, id uuid.UUID, revision int64) error
	}

	// UserRepository is the read-only client/veterinarian directory.
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	}

	// PetRepository is the read-only pet directory.
	PetRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Pet, error)
		ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error)
		GetRecentMedicalRecords(ctx context.Context, petID uuid.UUID, limit int) ([]*model.MedicalRecord, error)
	}

	// ReminderConfigRepository handles the singleton sweep configuration.
	// Get creates the record with defaults when it does not exist yet.
	ReminderConfigRepository interface {
		Get(ctx context.Context) (*model.ReminderConfig, error)
		Update(ctx context.Context, cfg *model.ReminderConfig) error
	}

	// TokenRepository stores hashed confirmation tokens keyed by
	// appointment id.
	TokenRepository interface {
		StoreConfirmationToken(ctx context.Context, appointmentID uuid.UUID, tokenHash string, expiry time.Time) error
		GetConfirmationToken(ctx context.Context, appointmentID uuid.UUID) (string, error)
		InvalidateConfirmationToken(ctx context.Context, appointmentID uuid.UUID) error
	}
)
