package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/vetcare/clinic-api/internal/email"
	"github.com/vetcare/clinic-api/internal/gateway"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/logger"
)

// sendTimeout bounds every delivery attempt so a slow SMTP server cannot
// pile up goroutines behind request handlers.
const sendTimeout = 15 * time.Second

// Service formats and sends the lifecycle emails. The Notify* methods are
// fire-and-forget: they enrich and dispatch on a detached goroutine and
// never surface delivery failures to the caller. SendReminder is the one
// synchronous path, because the sweep must not mark a reminder as sent when
// delivery failed.
type Service interface {
	NotifyCreated(apt *model.Appointment)
	NotifyRescheduled(apt *model.Appointment, oldDate, newDate time.Time)
	NotifyCancelled(apt *model.Appointment)
	SendReminder(ctx context.Context, to, subject, htmlBody string) error
}

type service struct {
	emailSvc  email.Service
	directory *gateway.Directory
	logger    *logger.Logger
}

func NewService(emailSvc email.Service, directory *gateway.Directory, logger *logger.Logger) Service {
	return &service{
		emailSvc:  emailSvc,
		directory: directory,
		logger:    logger,
	}
}

type participants struct {
	client *model.User
	vet    *model.User
	pet    *model.Pet
}

func (s *service) lookup(ctx context.Context, apt *model.Appointment) (*participants, error) {
	client, err := s.directory.GetUser(ctx, apt.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client lookup: %w", err)
	}
	vet, err := s.directory.GetUser(ctx, apt.VeterinarianID)
	if err != nil {
		return nil, fmt.Errorf("veterinarian lookup: %w", err)
	}
	pet, err := s.directory.GetPet(ctx, apt.PetID)
	if err != nil {
		return nil, fmt.Errorf("pet lookup: %w", err)
	}
	return &participants{client: client, vet: vet, pet: pet}, nil
}

func (s *service) NotifyCreated(apt *model.Appointment) {
	go s.deliver(apt, "appointment_created", func(ctx context.Context, p *participants) {
		s.send(ctx, p.client.Email,
			"New appointment scheduled for "+p.pet.Name,
			newAppointmentClientEmail(p.pet.Name, apt.AppointmentDate, p.vet.FullName()))
		s.send(ctx, p.vet.Email,
			"New appointment scheduled",
			newAppointmentVetEmail(p.pet.Name, apt.AppointmentDate, p.client.FullName()))
	})
}

func (s *service) NotifyRescheduled(apt *model.Appointment, oldDate, newDate time.Time) {
	go s.deliver(apt, "appointment_rescheduled", func(ctx context.Context, p *participants) {
		s.send(ctx, p.client.Email,
			"Appointment rescheduled for "+p.pet.Name,
			rescheduledClientEmail(p.pet.Name, oldDate, newDate))
		s.send(ctx, p.vet.Email,
			"Appointment rescheduled - "+p.pet.Name,
			rescheduledVetEmail(p.pet.Name, oldDate, newDate))
	})
}

func (s *service) NotifyCancelled(apt *model.Appointment) {
	go s.deliver(apt, "appointment_cancelled", func(ctx context.Context, p *participants) {
		s.send(ctx, p.client.Email,
			"Appointment cancelled - "+p.pet.Name,
			cancelledClientEmail(p.pet.Name, apt.AppointmentDate))
		s.send(ctx, p.vet.Email,
			"Appointment cancelled - "+p.pet.Name,
			cancelledVetEmail(p.pet.Name, apt.AppointmentDate))
	})
}

// deliver runs on a detached context: the originating request has already
// committed its state change and must not be able to cancel the emails.
func (s *service) deliver(apt *model.Appointment, event string, fn func(context.Context, *participants)) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	p, err := s.lookup(ctx, apt)
	if err != nil {
		s.logger.Error(err, "failed to enrich notification",
			"event", event, "appointment_id", apt.ID.String())
		return
	}
	fn(ctx, p)
}

func (s *service) send(ctx context.Context, to, subject, body string) {
	if err := s.emailSvc.Send(ctx, to, subject, body); err != nil {
		s.logger.Error(err, "failed to send email", "recipient", to, "subject", subject)
	}
}

func (s *service) SendReminder(ctx context.Context, to, subject, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := s.emailSvc.Send(ctx, to, subject, htmlBody); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}
