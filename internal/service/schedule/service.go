package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/gateway"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/internal/service/appointment"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/timeutil"
)

// Service answers the role-scoped schedule queries. It never mutates
// appointment records.
type Service struct {
	repo      repository.AppointmentRepository
	directory *gateway.Directory
	logger    *logger.Logger
}

func NewService(repo repository.AppointmentRepository, directory *gateway.Directory, logger *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

// VeterinarianDayView returns one veterinarian's appointments for the
// calendar day containing date, enriched with client/pet display data and
// the pet's recent medical history.
func (s *Service) VeterinarianDayView(ctx context.Context, vetID uuid.UUID, date time.Time, page *model.PageRequest, filterField, filterValue string) ([]*model.AppointmentResponse, int64, error) {
	page.Normalize()
	start, end := timeutil.DayWindowUTC(date)

	filters := &model.ScheduleFilters{
		VeterinarianID: vetID,
		Start:          start,
		End:            end,
		FilterField:    filterField,
		FilterValue:    filterValue,
	}

	appointments, total, err := s.queryWindow(ctx, filters, page)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*model.AppointmentResponse, 0, len(appointments))
	for _, apt := range appointments {
		resp, err := s.directory.Enrich(ctx, apt, true)
		if err != nil {
			return nil, 0, apperrors.Internal(err)
		}
		responses = append(responses, resp)
	}

	return responses, total, nil
}

// ReceptionistDayView returns every appointment in the day window as a
// flattened record with advisory cancel/reschedule hints.
func (s *Service) ReceptionistDayView(ctx context.Context, date time.Time, page *model.PageRequest) ([]*model.DailyAppointment, int64, error) {
	page.Normalize()
	start, end := timeutil.DayWindowUTC(date)

	filters := &model.ScheduleFilters{Start: start, End: end}

	appointments, total, err := s.queryWindow(ctx, filters, page)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	daily := make([]*model.DailyAppointment, 0, len(appointments))
	for _, apt := range appointments {
		record, err := s.flatten(ctx, apt, now)
		if err != nil {
			return nil, 0, apperrors.Internal(err)
		}
		daily = append(daily, record)
	}

	return daily, total, nil
}

// ClientAppointmentsByPet returns the caller's future appointments grouped
// by pet. Rows that fail enrichment are skipped so one bad directory record
// does not hide the rest of the schedule.
func (s *Service) ClientAppointmentsByPet(ctx context.Context, clientID uuid.UUID, page *model.PageRequest) ([]*model.AppointmentsByPet, int64, error) {
	page.Normalize()
	now := time.Now().UTC()

	pets, err := s.directory.ListPetsByOwner(ctx, clientID)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	summaries := make([]*model.AppointmentsByPet, 0, len(pets))
	for _, pet := range pets {
		filters := &model.ScheduleFilters{
			PetID: pet.ID,
			Start: now,
		}

		appointments, err := s.repo.ListWindow(ctx, filters, page)
		if err != nil {
			return nil, 0, apperrors.Internal(fmt.Errorf("failed to query pet appointments: %w", err))
		}

		responses := make([]*model.AppointmentResponse, 0, len(appointments))
		for _, apt := range appointments {
			resp, err := s.directory.Enrich(ctx, apt, false)
			if err != nil {
				s.logger.Error(err, "skipping appointment in client view",
					"appointment_id", apt.ID.String())
				continue
			}
			responses = append(responses, resp)
		}

		if len(responses) > 0 {
			summaries = append(summaries, &model.AppointmentsByPet{
				Pet:          pet,
				Appointments: responses,
				Count:        len(responses),
			})
		}
	}

	return summaries, int64(len(summaries)), nil
}

func (s *Service) queryWindow(ctx context.Context, filters *model.ScheduleFilters, page *model.PageRequest) ([]*model.Appointment, int64, error) {
	appointments, err := s.repo.ListWindow(ctx, filters, page)
	if err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to query appointments: %w", err))
	}

	total, err := s.repo.CountWindow(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count appointments: %w", err))
	}

	return appointments, total, nil
}

func (s *Service) flatten(ctx context.Context, apt *model.Appointment, now time.Time) (*model.DailyAppointment, error) {
	client, err := s.directory.GetUser(ctx, apt.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten appointment %s: %w", apt.ID, err)
	}
	pet, err := s.directory.GetPet(ctx, apt.PetID)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten appointment %s: %w", apt.ID, err)
	}
	vet, err := s.directory.GetUser(ctx, apt.VeterinarianID)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten appointment %s: %w", apt.ID, err)
	}

	// Advisory hints only; the lifecycle service re-checks at mutation time.
	actionable := !apt.Status.Terminal() &&
		appointment.IsAtLeast(apt.AppointmentDate, now, appointment.MinCancelHours)

	return &model.DailyAppointment{
		ID:               apt.ID,
		AppointmentTime:  apt.AppointmentDate,
		ClientID:         client.ID,
		ClientName:       client.FullName(),
		ClientEmail:      client.Email,
		ClientPhone:      client.Phone,
		PetID:            pet.ID,
		PetName:          pet.Name,
		PetSpecies:       pet.Species,
		PetBreed:         pet.Breed,
		VeterinarianID:   vet.ID,
		VeterinarianName: vet.FullName(),
		Status:           apt.Status,
		Reason:           apt.Reason,
		CanCancel:        actionable,
		CanReschedule:    actionable,
	}, nil
}
