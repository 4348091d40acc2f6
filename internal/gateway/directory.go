package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

// Directory provides the read-only enrichment lookups. Records are display
// data only, so a short cache keeps repeated day-view queries from hitting
// the store once per appointment row.
type Directory struct {
	users repository.UserRepository
	pets  repository.PetRepository
	cache *cache.Cache
}

const (
	cacheTTL        = 5 * time.Minute
	cleanupInterval = 15 * time.Minute

	// RecentHistoryLimit is how many medical records are attached to a
	// veterinarian day-view row.
	RecentHistoryLimit = 5
)

func NewDirectory(users repository.UserRepository, pets repository.PetRepository) *Directory {
	return &Directory{
		users: users,
		pets:  pets,
		cache: cache.New(cacheTTL, cleanupInterval),
	}
}

func (d *Directory) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	key := "user:" + id.String()
	if cached, ok := d.cache.Get(key); ok {
		return cached.(*model.User), nil
	}

	user, err := d.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	d.cache.Set(key, user, cache.DefaultExpiration)
	return user, nil
}

func (d *Directory) GetPet(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	key := "pet:" + id.String()
	if cached, ok := d.cache.Get(key); ok {
		return cached.(*model.Pet), nil
	}

	pet, err := d.pets.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pet: %w", err)
	}

	d.cache.Set(key, pet, cache.DefaultExpiration)
	return pet, nil
}

func (d *Directory) ListPetsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	pets, err := d.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner pets: %w", err)
	}
	return pets, nil
}

// GetRecentHistory is not cached: medical records change during the day and
// staleness is more visible than for names.
func (d *Directory) GetRecentHistory(ctx context.Context, petID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := d.pets.GetRecentMedicalRecords(ctx, petID, RecentHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pet history: %w", err)
	}
	return records, nil
}
