package confirmation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/security"
)

// Service validates emailed confirmation links and drives the
// SCHEDULED -> CONFIRMED transition. The endpoint is reached without an
// authenticated session, so the persisted single-use token is the only
// credential.
type Service struct {
	appointments repository.AppointmentRepository
	tokens       repository.TokenRepository
	hasher       security.TokenHasher
	logger       *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	tokens repository.TokenRepository,
	hasher security.TokenHasher,
	logger *logger.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		tokens:       tokens,
		hasher:       hasher,
		logger:       logger,
	}
}

// Confirm applies the confirmation transition for a valid token.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, token string) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to load appointment: %w", err))
	}

	if err := s.validateToken(ctx, id, token); err != nil {
		return nil, err
	}

	// A repeated click on the same link before invalidation lands here.
	if apt.Status == model.AppointmentStatusConfirmed {
		return apt, nil
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return nil, apperrors.PolicyViolation(
			fmt.Sprintf("appointment is %s and can no longer be confirmed", apt.Status))
	}

	apt.Status = model.AppointmentStatusConfirmed
	apt.UpdatedAt = time.Now().UTC()

	err = s.appointments.Update(ctx, apt)
	if err == repository.ErrConflict {
		return nil, apperrors.Conflict("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to confirm appointment: %w", err))
	}

	if err := s.tokens.InvalidateConfirmationToken(ctx, id); err != nil {
		s.logger.Error(err, "failed to invalidate confirmation token",
			"appointment_id", id.String())
	}

	s.logger.Info("appointment confirmed", "appointment_id", id.String())
	return apt, nil
}

func (s *Service) validateToken(ctx context.Context, id uuid.UUID, token string) error {
	hash, err := s.tokens.GetConfirmationToken(ctx, id)
	if err == repository.ErrNotFound {
		return apperrors.Unauthorized("invalid or expired confirmation link", err)
	}
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to load confirmation token: %w", err))
	}

	if err := s.hasher.Compare(hash, token); err != nil {
		return apperrors.Unauthorized("invalid or expired confirmation link", err)
	}
	return nil
}
