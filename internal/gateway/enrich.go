package gateway

import (
	"context"
	"fmt"

	"github.com/vetcare/clinic-api/internal/model"
)

// Enrich assembles the outward-facing appointment payload. Lookups are
// best-effort only in the sense that the caller decides whether a failure
// aborts the whole response; the error is always reported.
func (d *Directory) Enrich(ctx context.Context, apt *model.Appointment, withHistory bool) (*model.AppointmentResponse, error) {
	resp := &model.AppointmentResponse{
		ID:              apt.ID,
		AppointmentDate: apt.AppointmentDate,
		Reason:          apt.Reason,
		Status:          apt.Status,
		Notes:           apt.Notes,
	}

	client, err := d.GetUser(ctx, apt.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich appointment %s: %w", apt.ID, err)
	}
	resp.Client = client

	vet, err := d.GetUser(ctx, apt.VeterinarianID)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich appointment %s: %w", apt.ID, err)
	}
	resp.Veterinarian = vet

	pet, err := d.GetPet(ctx, apt.PetID)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich appointment %s: %w", apt.ID, err)
	}
	resp.Pet = pet

	if withHistory {
		history, err := d.GetRecentHistory(ctx, apt.PetID)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich appointment %s: %w", apt.ID, err)
		}
		resp.PetHistory = history
	}

	return resp, nil
}
