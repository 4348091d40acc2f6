package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type petRepository struct {
	db *sqlx.DB
}

type reminderConfigRepository struct {
	db *sqlx.DB
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewPetRepository(db *sqlx.DB) repository.PetRepository {
	return &petRepository{db: db}
}

func NewReminderConfigRepository(db *sqlx.DB) repository.ReminderConfigRepository {
	return &reminderConfigRepository{db: db}
}

func NewTokenRepository(db *sqlx.DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}
