package reminder

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
	"github.com/vetcare/clinic-api/pkg/metrics"
	"github.com/vetcare/clinic-api/pkg/security"
)

// Service runs the reminder sweep and owns the reminder_sent flag. One
// candidate failing never aborts the rest of the cycle, and a failed send
// never marks the flag.
type Service struct {
	appointments repository.AppointmentRepository
	configs      repository.ReminderConfigRepository
	tokens       repository.TokenRepository
	directory    *gateway.Directory
	notifier     notification.Service
	hasher       security.TokenHasher
	metrics      *metrics.Metrics
	logger       *logger.Logger
	baseURL      string
	tokenTTL     time.Duration
}

type Options struct {
	ConfirmationBaseURL string
	TokenTTL            time.Duration
	Metrics             *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	configs repository.ReminderConfigRepository,
	tokens repository.TokenRepository,
	directory *gateway.Directory,
	notifier notification.Service,
	hasher security.TokenHasher,
	logger *logger.Logger,
	opts Options,
) *Service {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &Service{
		appointments: appointments,
		configs:      configs,
		tokens:       tokens,
		directory:    directory,
		notifier:     notifier,
		hasher:       hasher,
		metrics:      opts.Metrics,
		logger:       logger,
		baseURL:      opts.ConfirmationBaseURL,
		tokenTTL:     ttl,
	}
}

// Sweep runs one reminder cycle.
func (s *Service) Sweep(ctx context.Context) error {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reminder config: %w", err)
	}
	if !cfg.Enabled {
		s.logger.Debug("reminder sweep disabled")
		return nil
	}

	now := time.Now().UTC()
	threshold := now.Add(time.Duration(cfg.ReminderHoursBefore) * time.Hour)

	candidates, err := s.appointments.ListDueForReminder(ctx, threshold)
	if err != nil {
		return fmt.Errorf("failed to list reminder candidates: %w", err)
	}

	for _, apt := range candidates {
		if s.metrics != nil {
			s.metrics.ReminderCandidates.Inc()
		}

		if err := s.remind(ctx, apt, cfg); err != nil {
			if s.metrics != nil {
				s.metrics.RemindersFailed.Inc()
			}
			s.logger.Error(err, "failed to send reminder",
				"appointment_id", apt.ID.String())
			continue
		}

		if s.metrics != nil {
			s.metrics.RemindersSent.Inc()
		}
		s.logger.Info("reminder sent", "appointment_id", apt.ID.String())
	}

	return nil
}

func (s *Service) remind(ctx context.Context, apt *model.Appointment, cfg *model.ReminderConfig) error {
	client, err := s.directory.GetUser(ctx, apt.ClientID)
	if err != nil {
		return fmt.Errorf("client lookup: %w", err)
	}
	pet, err := s.directory.GetPet(ctx, apt.PetID)
	if err != nil {
		return fmt.Errorf("pet lookup: %w", err)
	}
	vet, err := s.directory.GetUser(ctx, apt.VeterinarianID)
	if err != nil {
		return fmt.Errorf("veterinarian lookup: %w", err)
	}

	link, err := s.issueConfirmationLink(ctx, apt.ID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(cfg.EmailTemplate,
		client.FirstName,
		notification.FormatDate(apt.AppointmentDate),
		pet.Name,
		vet.FullName(),
		link,
	)

	subject := "Veterinary Appointment Reminder - " + pet.Name
	if err := s.notifier.SendReminder(ctx, client.Email, subject, body); err != nil {
		return err
	}

	// Marked only after the send succeeded. A conflict means a concurrent
	// writer touched the record; the next sweep re-evaluates it.
	if err := s.appointments.MarkReminderSent(ctx, apt.ID, apt.Revision); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

// issueConfirmationLink persists a fresh single-use token and returns the
// capability URL embedded in the email.
func (s *Service) issueConfirmationLink(ctx context.Context, appointmentID uuid.UUID) (string, error) {
	token := uuid.New().String()

	hash, err := s.hasher.Hash(token)
	if err != nil {
		return "", fmt.Errorf("failed to hash confirmation token: %w", err)
	}

	expiry := time.Now().UTC().Add(s.tokenTTL)
	if err := s.tokens.StoreConfirmationToken(ctx, appointmentID, hash, expiry); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/confirm?id=%s&token=%s", s.baseURL, appointmentID, token), nil
}

// GetConfig returns the current sweep configuration.
func (s *Service) GetConfig(ctx context.Context) (*model.ReminderConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return cfg, nil
}

// UpdateConfig replaces the sweep configuration.
func (s *Service) UpdateConfig(ctx context.Context, req *model.UpdateReminderConfigRequest) (*model.ReminderConfig, error) {
	cfg := &model.ReminderConfig{
		ID:                  model.ReminderConfigID,
		ReminderHoursBefore: req.ReminderHoursBefore,
		Enabled:             req.Enabled,
		EmailTemplate:       req.EmailTemplate,
	}
	if cfg.EmailTemplate == "" {
		cfg.EmailTemplate = model.DefaultEmailTemplate
	}

	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("reminder configuration updated",
		"hours_before", cfg.ReminderHoursBefore, "enabled", cfg.Enabled)
	return cfg, nil
}
