package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vetcare/clinic-api/internal/model"
)

const defaultReminderHours = 24

// Get returns the singleton sweep configuration, creating it with defaults
// on first read.
func (r *reminderConfigRepository) Get(ctx context.Context) (*model.ReminderConfig, error) {
	query := `
		SELECT id, reminder_hours_before, enabled, email_template, updated_at
		FROM reminder_configs
		WHERE id = $1
	`
	var cfg model.ReminderConfig
	err := r.db.GetContext(ctx, &cfg, query, model.ReminderConfigID)
	if errors.Is(err, sql.ErrNoRows) {
		cfg = model.ReminderConfig{
			ID:                  model.ReminderConfigID,
			ReminderHoursBefore: defaultReminderHours,
			Enabled:             true,
			EmailTemplate:       model.DefaultEmailTemplate,
			UpdatedAt:           time.Now().UTC(),
		}
		if err := r.insert(ctx, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder config: %w", err)
	}
	return &cfg, nil
}

func (r *reminderConfigRepository) insert(ctx context.Context, cfg *model.ReminderConfig) error {
	query := `
		INSERT INTO reminder_configs (id, reminder_hours_before, enabled, email_template, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		cfg.ID,
		cfg.ReminderHoursBefore,
		cfg.Enabled,
		cfg.EmailTemplate,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder config: %w", err)
	}
	return nil
}

func (r *reminderConfigRepository) Update(ctx context.Context, cfg *model.ReminderConfig) error {
	query := `
		INSERT INTO reminder_configs (id, reminder_hours_before, enabled, email_template, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET reminder_hours_before = EXCLUDED.reminder_hours_before,
			enabled = EXCLUDED.enabled,
			email_template = EXCLUDED.email_template,
			updated_at = EXCLUDED.updated_at
	`
	cfg.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		model.ReminderConfigID,
		cfg.ReminderHoursBefore,
		cfg.Enabled,
		cfg.EmailTemplate,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder config: %w", err)
	}
	return nil
}
