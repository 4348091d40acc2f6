package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

func (r *petRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed
		FROM pets
		WHERE id = $1
	`
	var pet model.Pet
	err := r.db.GetContext(ctx, &pet, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed
		FROM pets
		WHERE owner_id = $1
		ORDER BY name ASC
	`
	var pets []*model.Pet
	if err := r.db.SelectContext(ctx, &pets, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}

func (r *petRepository) GetRecentMedicalRecords(ctx context.Context, petID uuid.UUID, limit int) ([]*model.MedicalRecord, error) {
	query := `
		SELECT id, pet_id, date, diagnosis, treatment, notes
		FROM medical_records
		WHERE pet_id = $1
		ORDER BY date DESC
		LIMIT $2
	`
	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, petID, limit); err != nil {
		return nil, fmt.Errorf("failed to get medical records: %w", err)
	}
	return records, nil
}
