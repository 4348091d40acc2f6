package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/gateway"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/timeutil"
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

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockPetRepo struct {
	mock.Mock
}

func (m *mockPetRepo) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Pet), args.Error(1)
}

func (m *mockPetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*model.Pet), args.Error(1)
}

func (m *mockPetRepo) GetRecentMedicalRecords(ctx context.Context, petID uuid.UUID, limit int) ([]*model.MedicalRecord, error) {
	args := m.Called(ctx, petID, limit)
	return args.Get(0).([]*model.MedicalRecord), args.Error(1)
}

type fixture struct {
	svc   *Service
	repo  *mockAppointmentRepo
	users *mockUserRepo
	pets  *mockPetRepo

	clientID uuid.UUID
	vetID    uuid.UUID
	petID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     &mockAppointmentRepo{},
		users:    &mockUserRepo{},
		pets:     &mockPetRepo{},
		clientID: uuid.New(),
		vetID:    uuid.New(),
		petID:    uuid.New(),
	}

	directory := gateway.NewDirectory(f.users, f.pets)
	f.svc = NewService(f.repo, directory, logger.NewLogger(nil))
	return f
}

func (f *fixture) expectDirectory() {
	f.users.On("Get", mock.Anything, f.clientID).
		Return(&model.User{ID: f.clientID, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "555-0100"}, nil)
	f.users.On("Get", mock.Anything, f.vetID).
		Return(&model.User{ID: f.vetID, FirstName: "Sam", LastName: "Vet"}, nil)
	f.pets.On("Get", mock.Anything, f.petID).
		Return(&model.Pet{ID: f.petID, OwnerID: f.clientID, Name: "Rex", Species: "dog", Breed: "beagle"}, nil)
	f.pets.On("GetRecentMedicalRecords", mock.Anything, f.petID, gateway.RecentHistoryLimit).
		Return([]*model.MedicalRecord{{ID: uuid.New(), PetID: f.petID}}, nil)
}

func (f *fixture) appointment(date time.Time, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:              uuid.New(),
		PetID:           f.petID,
		ClientID:        f.clientID,
		VeterinarianID:  f.vetID,
		AppointmentDate: date,
		Reason:          "checkup",
		Status:          status,
	}
}

func TestVeterinarianDayView(t *testing.T) {
	f := newFixture(t)
	f.expectDirectory()

	date := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	wantStart, wantEnd := timeutil.DayWindowUTC(date)

	apt := f.appointment(date, model.AppointmentStatusScheduled)
	f.repo.On("ListWindow", mock.Anything, mock.MatchedBy(func(filters *model.ScheduleFilters) bool {
		return filters.VeterinarianID == f.vetID &&
			filters.Start.Equal(wantStart) && filters.End.Equal(wantEnd)
	}), mock.Anything).Return([]*model.Appointment{apt}, nil)
	f.repo.On("CountWindow", mock.Anything, mock.Anything).Return(int64(15), nil)

	page := &model.PageRequest{Page: 1, Size: 10}
	responses, total, err := f.svc.VeterinarianDayView(context.Background(), f.vetID, date, page, "", "")
	require.NoError(t, err)

	assert.Equal(t, int64(15), total)
	require.Len(t, responses, 1)
	assert.Equal(t, "Rex", responses[0].Pet.Name)
	assert.Len(t, responses[0].PetHistory, 1)
}

func TestReceptionistDayView(t *testing.T) {
	f := newFixture(t)
	f.expectDirectory()

	now := time.Now().UTC()
	actionable := f.appointment(now.Add(30*time.Hour), model.AppointmentStatusScheduled)
	tooClose := f.appointment(now.Add(10*time.Hour), model.AppointmentStatusScheduled)
	cancelled := f.appointment(now.Add(30*time.Hour), model.AppointmentStatusCancelled)

	f.repo.On("ListWindow", mock.Anything, mock.Anything, mock.Anything).
		Return([]*model.Appointment{actionable, tooClose, cancelled}, nil)
	f.repo.On("CountWindow", mock.Anything, mock.Anything).Return(int64(3), nil)

	daily, total, err := f.svc.ReceptionistDayView(context.Background(), now, &model.PageRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	require.Len(t, daily, 3)

	assert.True(t, daily[0].CanCancel)
	assert.True(t, daily[0].CanReschedule)
	assert.Equal(t, "Jane Doe", daily[0].ClientName)
	assert.Equal(t, "Rex", daily[0].PetName)

	assert.False(t, daily[1].CanCancel)
	assert.False(t, daily[2].CanCancel)
}

func TestClientAppointmentsByPet(t *testing.T) {
	t.Run("groups future appointments by pet", func(t *testing.T) {
		f := newFixture(t)
		f.expectDirectory()

		quietPet := &model.Pet{ID: uuid.New(), OwnerID: f.clientID, Name: "Whiskers"}
		f.pets.On("ListByOwner", mock.Anything, f.clientID).Return([]*model.Pet{
			{ID: f.petID, OwnerID: f.clientID, Name: "Rex"},
			quietPet,
		}, nil)

		apt := f.appointment(time.Now().UTC().Add(48*time.Hour), model.AppointmentStatusScheduled)
		f.repo.On("ListWindow", mock.Anything, mock.MatchedBy(func(filters *model.ScheduleFilters) bool {
			return filters.PetID == f.petID
		}), mock.Anything).Return([]*model.Appointment{apt}, nil)
		f.repo.On("ListWindow", mock.Anything, mock.MatchedBy(func(filters *model.ScheduleFilters) bool {
			return filters.PetID == quietPet.ID
		}), mock.Anything).Return([]*model.Appointment{}, nil)

		summaries, total, err := f.svc.ClientAppointmentsByPet(context.Background(), f.clientID, &model.PageRequest{})
		require.NoError(t, err)

		// Pets without upcoming appointments are omitted entirely.
		assert.Equal(t, int64(1), total)
		require.Len(t, summaries, 1)
		assert.Equal(t, "Rex", summaries[0].Pet.Name)
		assert.Equal(t, 1, summaries[0].Count)
	})

	t.Run("skips rows that fail enrichment", func(t *testing.T) {
		f := newFixture(t)
		f.expectDirectory()

		otherVet := uuid.New()
		f.users.On("Get", mock.Anything, otherVet).Return(nil, errors.New("directory outage"))

		f.pets.On("ListByOwner", mock.Anything, f.clientID).Return([]*model.Pet{
			{ID: f.petID, OwnerID: f.clientID, Name: "Rex"},
		}, nil)

		ok := f.appointment(time.Now().UTC().Add(48*time.Hour), model.AppointmentStatusScheduled)
		broken := f.appointment(time.Now().UTC().Add(72*time.Hour), model.AppointmentStatusScheduled)
		broken.VeterinarianID = otherVet

		f.repo.On("ListWindow", mock.Anything, mock.Anything, mock.Anything).
			Return([]*model.Appointment{ok, broken}, nil)

		summaries, _, err := f.svc.ClientAppointmentsByPet(context.Background(), f.clientID, &model.PageRequest{})
		require.NoError(t, err)

		require.Len(t, summaries, 1)
		assert.Equal(t, 1, summaries[0].Count)
	})
}
