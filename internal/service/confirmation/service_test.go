package confirmation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	apperrors "github.com/vetcare/clinic-api/pkg/errors"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/security"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *mockAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *mockAppointmentRepo) ListWindow(ctx context.Context, filters *model.ScheduleFilters, page *model.PageRequest) ([]*model.Appointment, error) {
	args := m.Called(ctx, filters, page)
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) CountWindow(ctx context.Context, filters *model.ScheduleFilters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) ListDueForReminder(ctx context.Context, before time.Time) ([]*model.Appointment, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) MarkReminderSent(ctx context.Context, id uuid.UUID, revision int64) error {
	args := m.Called(ctx, id, revision)
	return args.Error(0)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) StoreConfirmationToken(ctx context.Context, appointmentID uuid.UUID, tokenHash string, expiry time.Time) error {
	args := m.Called(ctx, appointmentID, tokenHash, expiry)
	return args.Error(0)
}

func (m *mockTokenRepo) GetConfirmationToken(ctx context.Context, appointmentID uuid.UUID) (string, error) {
	args := m.Called(ctx, appointmentID)
	return args.String(0), args.Error(1)
}

func (m *mockTokenRepo) InvalidateConfirmationToken(ctx context.Context, appointmentID uuid.UUID) error {
	args := m.Called(ctx, appointmentID)
	return args.Error(0)
}

func setup() (*Service, *mockAppointmentRepo, *mockTokenRepo, security.TokenHasher) {
	repo := &mockAppointmentRepo{}
	tokens := &mockTokenRepo{}
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	svc := NewService(repo, tokens, hasher, logger.NewLogger(nil))
	return svc, repo, tokens, hasher
}

func scheduledAppointment() *model.Appointment {
	return &model.Appointment{
		ID:              uuid.New(),
		PetID:           uuid.New(),
		ClientID:        uuid.New(),
		VeterinarianID:  uuid.New(),
		AppointmentDate: time.Now().UTC().Add(20 * time.Hour),
		Status:          model.AppointmentStatusScheduled,
		Revision:        1,
	}
}

func TestConfirm(t *testing.T) {
	t.Run("valid token confirms and invalidates", func(t *testing.T) {
		svc, repo, tokens, hasher := setup()

		apt := scheduledAppointment()
		hash, err := hasher.Hash("the-token")
		require.NoError(t, err)

		repo.On("Get", mock.Anything, apt.ID).Return(apt, nil)
		tokens.On("GetConfirmationToken", mock.Anything, apt.ID).Return(hash, nil)
		repo.On("Update", mock.Anything, apt).Return(nil)
		tokens.On("InvalidateConfirmationToken", mock.Anything, apt.ID).Return(nil)

		got, err := svc.Confirm(context.Background(), apt.ID, "the-token")
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
		tokens.AssertCalled(t, "InvalidateConfirmationToken", mock.Anything, apt.ID)
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		svc, repo, tokens, hasher := setup()

		apt := scheduledAppointment()
		hash, _ := hasher.Hash("the-token")

		repo.On("Get", mock.Anything, apt.ID).Return(apt, nil)
		tokens.On("GetConfirmationToken", mock.Anything, apt.ID).Return(hash, nil)

		_, err := svc.Confirm(context.Background(), apt.ID, "guessed")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing or expired token is rejected", func(t *testing.T) {
		svc, repo, tokens, _ := setup()

		apt := scheduledAppointment()
		repo.On("Get", mock.Anything, apt.ID).Return(apt, nil)
		tokens.On("GetConfirmationToken", mock.Anything, apt.ID).Return("", repository.ErrNotFound)

		_, err := svc.Confirm(context.Background(), apt.ID, "the-token")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("repeated click on a confirmed appointment is a no-op", func(t *testing.T) {
		svc, repo, tokens, hasher := setup()

		apt := scheduledAppointment()
		apt.Status = model.AppointmentStatusConfirmed
		hash, _ := hasher.Hash("the-token")

		repo.On("Get", mock.Anything, apt.ID).Return(apt, nil)
		tokens.On("GetConfirmationToken", mock.Anything, apt.ID).Return(hash, nil)

		got, err := svc.Confirm(context.Background(), apt.ID, "the-token")
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("cancelled appointment cannot be confirmed", func(t *testing.T) {
		svc, repo, tokens, hasher := setup()

		apt := scheduledAppointment()
		apt.Status = model.AppointmentStatusCancelled
		hash, _ := hasher.Hash("the-token")

		repo.On("Get", mock.Anything, apt.ID).Return(apt, nil)
		tokens.On("GetConfirmationToken", mock.Anything, apt.ID).Return(hash, nil)

		_, err := svc.Confirm(context.Background(), apt.ID, "the-token")
		assert.True(t, apperrors.Is(err, apperrors.ErrPolicyViolation))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, repo, _, _ := setup()

		id := uuid.New()
		repo.On("Get", mock.Anything, id).Return(nil, repository.ErrNotFound)

		_, err := svc.Confirm(context.Background(), id, "the-token")
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("lost revision race maps to conflict", func(t *testing.T) {
		svc, repo, tokens, hasher := setup()

		apt := scheduledAppointment()
		hash, _ := hasher.Hash("the-token")

		repo.On("Get", mock.Anything, apt.ID).Return(apt, nil)
		tokens.On("GetConfirmationToken", mock.Anything, apt.ID).Return(hash, nil)
		repo.On("Update", mock.Anything, apt).Return(repository.ErrConflict)

		_, err := svc.Confirm(context.Background(), apt.ID, "the-token")
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})
}
