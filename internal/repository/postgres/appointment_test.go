package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

func newMockRepo(t *testing.T) (repository.AppointmentRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAppointmentRepository(sqlx.NewDb(db, "sqlmock")), mockDB
}

func sampleAppointment() *model.Appointment {
	now := time.Now().UTC()
	return &model.Appointment{
		ID:              uuid.New(),
		PetID:           uuid.New(),
		ClientID:        uuid.New(),
		VeterinarianID:  uuid.New(),
		AppointmentDate: now.Add(48 * time.Hour),
		Reason:          "checkup",
		Status:          model.AppointmentStatusScheduled,
		ReminderSent:    false,
		Revision:        2,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func appointmentRows(apt *model.Appointment) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "pet_id", "client_id", "veterinarian_id", "appointment_date",
		"reason", "status", "notes", "reminder_sent", "revision",
		"created_at", "updated_at",
	}).AddRow(
		apt.ID, apt.PetID, apt.ClientID, apt.VeterinarianID, apt.AppointmentDate,
		apt.Reason, apt.Status, apt.Notes, apt.ReminderSent, apt.Revision,
		apt.CreatedAt, apt.UpdatedAt,
	)
}

func TestAppointmentGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		apt := sampleAppointment()
		mockDB.ExpectQuery("SELECT (.+) FROM appointments WHERE id =").
			WithArgs(apt.ID).
			WillReturnRows(appointmentRows(apt))

		got, err := repo.Get(context.Background(), apt.ID)
		require.NoError(t, err)
		assert.Equal(t, apt.ID, got.ID)
		assert.Equal(t, int64(2), got.Revision)
	})

	t.Run("missing row maps to the sentinel", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		id := uuid.New()
		mockDB.ExpectQuery("SELECT (.+) FROM appointments WHERE id =").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestAppointmentUpdate(t *testing.T) {
	t.Run("asserts revision and increments it", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		apt := sampleAppointment()
		mockDB.ExpectExec("UPDATE appointments").
			WithArgs(apt.AppointmentDate, apt.Status, apt.Reason, apt.Notes,
				apt.ReminderSent, apt.UpdatedAt, apt.ID, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), apt))
		assert.Equal(t, int64(3), apt.Revision)
	})

	t.Run("zero rows means a lost race", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		apt := sampleAppointment()
		mockDB.ExpectExec("UPDATE appointments").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), apt)
		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.Equal(t, int64(2), apt.Revision)
	})
}

func TestMarkReminderSent(t *testing.T) {
	t.Run("flips the flag once", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		id := uuid.New()
		mockDB.ExpectExec("UPDATE appointments").
			WithArgs(sqlmock.AnyArg(), id, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkReminderSent(context.Background(), id, 1))
	})

	t.Run("already marked reports conflict", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		id := uuid.New()
		mockDB.ExpectExec("UPDATE appointments").
			WithArgs(sqlmock.AnyArg(), id, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkReminderSent(context.Background(), id, 1)
		assert.ErrorIs(t, err, repository.ErrConflict)
	})
}

func TestListWindow(t *testing.T) {
	t.Run("unknown sort column falls back to the default", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		apt := sampleAppointment()
		mockDB.ExpectQuery("SELECT (.+) FROM appointments WHERE 1=1(.+)ORDER BY appointment_date ASC").
			WillReturnRows(appointmentRows(apt))

		page := &model.PageRequest{SortBy: "notes; DROP TABLE appointments"}
		page.Normalize()
		page.SortBy = "notes; DROP TABLE appointments"

		got, err := repo.ListWindow(context.Background(), &model.ScheduleFilters{}, page)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("window and scope filters become predicates", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		vetID := uuid.New()
		start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, 1)

		mockDB.ExpectQuery("SELECT (.+) FROM appointments WHERE 1=1 AND veterinarian_id = (.+) AND appointment_date >= (.+) AND appointment_date < ").
			WithArgs(vetID, start, end, 0, 10).
			WillReturnRows(appointmentRows(sampleAppointment()))

		page := &model.PageRequest{}
		page.Normalize()

		filters := &model.ScheduleFilters{VeterinarianID: vetID, Start: start, End: end}
		_, err := repo.ListWindow(context.Background(), filters, page)
		require.NoError(t, err)
	})

	t.Run("unlisted filter field is ignored", func(t *testing.T) {
		repo, mockDB := newMockRepo(t)

		mockDB.ExpectQuery("SELECT (.+) FROM appointments WHERE 1=1 ORDER BY").
			WithArgs(0, 10).
			WillReturnRows(appointmentRows(sampleAppointment()))

		page := &model.PageRequest{}
		page.Normalize()

		filters := &model.ScheduleFilters{FilterField: "revision", FilterValue: "1"}
		_, err := repo.ListWindow(context.Background(), filters, page)
		require.NoError(t, err)
	})
}
