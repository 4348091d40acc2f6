package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

const appointmentColumns = `
	id, pet_id, client_id, veterinarian_id, appointment_date,
	reason, status, notes, reminder_sent, revision,
	created_at, updated_at
`

// Columns callers may sort or filter on. Anything else falls back to the
// default so request parameters never reach the SQL text.
var sortableColumns = map[string]bool{
	"appointment_date": true,
	"status":           true,
	"reason":           true,
	"created_at":       true,
}

var filterableColumns = map[string]bool{
	"status":          true,
	"reason":          true,
	"pet_id":          true,
	"client_id":       true,
	"veterinarian_id": true,
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, pet_id, client_id, veterinarian_id, appointment_date,
			reason, status, notes, reminder_sent, revision,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PetID,
		appointment.ClientID,
		appointment.VeterinarianID,
		appointment.AppointmentDate,
		appointment.Reason,
		appointment.Status,
		appointment.Notes,
		appointment.ReminderSent,
		appointment.Revision,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// Update overwrites the mutable fields, asserting the caller read the
// current revision. A zero row count means either the record is gone or a
// concurrent writer won the race.
func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, status = $2, reason = $3, notes = $4,
			reminder_sent = $5, updated_at = $6, revision = revision + 1
		WHERE id = $7 AND revision = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		appointment.AppointmentDate,
		appointment.Status,
		appointment.Reason,
		appointment.Notes,
		appointment.ReminderSent,
		appointment.UpdatedAt,
		appointment.ID,
		appointment.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrConflict
	}

	appointment.Revision++
	return nil
}

func (r *appointmentRepository) ListWindow(ctx context.Context, filters *model.ScheduleFilters, page *model.PageRequest) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	query, args, argCount = applyScheduleFilters(query, args, argCount, filters)

	sortBy := page.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "appointment_date"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, page.SortDir)
	query += fmt.Sprintf(" OFFSET $%d LIMIT $%d", argCount, argCount+1)
	args = append(args, page.Offset(), page.Size)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountWindow(ctx context.Context, filters *model.ScheduleFilters) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	query, args, _ = applyScheduleFilters(query, args, argCount, filters)

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return total, nil
}

func applyScheduleFilters(query string, args []interface{}, argCount int, filters *model.ScheduleFilters) (string, []interface{}, int) {
	if filters.VeterinarianID != uuid.Nil {
		query += fmt.Sprintf(" AND veterinarian_id = $%d", argCount)
		args = append(args, filters.VeterinarianID)
		argCount++
	}
	if filters.PetID != uuid.Nil {
		query += fmt.Sprintf(" AND pet_id = $%d", argCount)
		args = append(args, filters.PetID)
		argCount++
	}
	if !filters.Start.IsZero() {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, filters.Start)
		argCount++
	}
	if !filters.End.IsZero() {
		query += fmt.Sprintf(" AND appointment_date < $%d", argCount)
		args = append(args, filters.End)
		argCount++
	}
	if filters.FilterField != "" && filterableColumns[filters.FilterField] {
		query += fmt.Sprintf(" AND %s = $%d", filters.FilterField, argCount)
		args = append(args, filters.FilterValue)
		argCount++
	}
	return query, args, argCount
}

func (r *appointmentRepository) ListDueForReminder(ctx context.Context, before time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = $1
		AND reminder_sent = false
		AND appointment_date < $2
		ORDER BY appointment_date ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, model.AppointmentStatusScheduled, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder candidates: %w", err)
	}
	return appointments, nil
}

// MarkReminderSent flips reminder_sent exactly once. The reminder_sent
// guard keeps a second sweep from re-marking a row whose revision it read
// before the first sweep finished.
func (r *appointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, revision int64) error {
	query := `
		UPDATE appointments
		SET reminder_sent = true, updated_at = $1, revision = revision + 1
		WHERE id = $2 AND revision = $3 AND reminder_sent = false
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, revision)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrConflict
	}
	return nil
}
