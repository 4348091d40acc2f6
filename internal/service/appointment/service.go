package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/gateway"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/internal/service/notification"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/messaging"
)

// EventsChannel is the broker channel lifecycle events are published to.
const EventsChannel = "appointment_events"

// Service is the appointment lifecycle manager. It owns every status,
// date and notes mutation; notifications and events are emitted only after
// the store write succeeded and never roll it back.
type Service struct {
	repo      repository.AppointmentRepository
	directory *gateway.Directory
	notifier  notification.Service
	broker    messaging.Broker
	logger    *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	directory *gateway.Directory,
	notifier notification.Service,
	broker messaging.Broker,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		broker:    broker,
		logger:    logger,
	}
}

// Create schedules a new appointment. The date must be strictly in the
// future; ownership of the pet is the boundary's concern, callerID is kept
// for the audit trail only.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest, callerID uuid.UUID) (*model.AppointmentResponse, error) {
	now := time.Now().UTC()
	if !req.AppointmentDate.After(now) {
		return nil, apperrors.BadRequest("appointment date must be in the future", nil)
	}

	apt := &model.Appointment{
		ID:              uuid.New(),
		PetID:           req.PetID,
		ClientID:        req.ClientID,
		VeterinarianID:  req.VeterinarianID,
		AppointmentDate: req.AppointmentDate,
		Reason:          req.Reason,
		Status:          model.AppointmentStatusScheduled,
		Notes:           req.Notes,
		ReminderSent:    false,
		Revision:        1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create appointment: %w", err))
	}

	s.logger.Info("appointment created",
		"appointment_id", apt.ID.String(), "caller_id", callerID.String())

	s.publishEvent(ctx, "appointment_created", apt.ID)
	s.notifier.NotifyCreated(apt)

	return s.enrich(ctx, apt)
}

// Reschedule moves an appointment to a new date. enforceOwnership is set on
// the client-facing path; staff permission checks happen at the boundary.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest, callerID uuid.UUID, enforceOwnership bool) (*model.AppointmentResponse, error) {
	apt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if enforceOwnership && apt.ClientID != callerID {
		return nil, apperrors.Unauthorized("appointment does not belong to caller", nil)
	}

	now := time.Now().UTC()
	if apt.Status.Terminal() {
		return nil, apperrors.PolicyViolation(
			fmt.Sprintf("appointment is %s and can no longer be changed", apt.Status))
	}
	if !IsAtLeast(apt.AppointmentDate, now, MinRescheduleHours) {
		return nil, apperrors.PolicyViolation(
			fmt.Sprintf("appointments can only be rescheduled at least %d hours in advance", MinRescheduleHours))
	}
	if !req.NewDate.After(now) {
		return nil, apperrors.BadRequest("new appointment date must be in the future", nil)
	}

	oldDate := apt.AppointmentDate
	apt.AppointmentDate = req.NewDate
	apt.Notes = apt.Notes + "\nRescheduled: " + req.Reason
	apt.UpdatedAt = now

	if err := s.persist(ctx, apt); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "appointment_rescheduled", apt.ID)
	s.notifier.NotifyRescheduled(apt, oldDate, req.NewDate)

	return s.enrich(ctx, apt)
}

// Cancel transitions an appointment to CANCELLED.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, callerID uuid.UUID, enforceOwnership bool) (*model.AppointmentResponse, error) {
	apt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if enforceOwnership && apt.ClientID != callerID {
		return nil, apperrors.Unauthorized("appointment does not belong to caller", nil)
	}

	now := time.Now().UTC()
	if apt.Status.Terminal() {
		return nil, apperrors.PolicyViolation(
			fmt.Sprintf("appointment is %s and can no longer be changed", apt.Status))
	}
	if !IsAtLeast(apt.AppointmentDate, now, MinCancelHours) {
		return nil, apperrors.PolicyViolation(
			fmt.Sprintf("appointments can only be cancelled at least %d hours in advance", MinCancelHours))
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.UpdatedAt = now

	if err := s.persist(ctx, apt); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "appointment_cancelled", apt.ID)
	s.notifier.NotifyCancelled(apt)

	return s.enrich(ctx, apt)
}

// Get returns the enriched appointment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentResponse, error) {
	apt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, apt)
}

// IsOwner is the capability check used by the authorization boundary.
// Any lookup failure reads as "not the owner", never as an error.
func (s *Service) IsOwner(ctx context.Context, id uuid.UUID, callerID uuid.UUID) bool {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return false
	}
	return apt.ClientID == callerID
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to load appointment: %w", err))
	}
	return apt, nil
}

func (s *Service) persist(ctx context.Context, apt *model.Appointment) error {
	err := s.repo.Update(ctx, apt)
	if err == repository.ErrConflict {
		return apperrors.Conflict("appointment", err)
	}
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to persist appointment: %w", err))
	}
	return nil
}

func (s *Service) enrich(ctx context.Context, apt *model.Appointment) (*model.AppointmentResponse, error) {
	resp, err := s.directory.Enrich(ctx, apt, true)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return resp, nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, id uuid.UUID) {
	if s.broker == nil {
		return
	}
	event := &model.AppointmentEvent{
		Type:          eventType,
		AppointmentID: id,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.broker.Publish(ctx, EventsChannel, event); err != nil {
		s.logger.Error(err, "failed to publish appointment event",
			"event", eventType, "appointment_id", id.String())
	}
}
