package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Monday, 16 Jun 2025 14:30 UTC", FormatDate(d))

	// Zoned inputs render as the same UTC instant.
	loc := time.FixedZone("UTC+2", 2*3600)
	assert.Equal(t, "Monday, 16 Jun 2025 14:30 UTC", FormatDate(d.In(loc)))
}

func TestTemplates(t *testing.T) {
	date := time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)
	newDate := date.Add(48 * time.Hour)

	t.Run("created", func(t *testing.T) {
		body := newAppointmentClientEmail("Rex", date, "Sam Vet")
		assert.Contains(t, body, "Rex")
		assert.Contains(t, body, "Dr. Sam Vet")
		assert.Contains(t, body, FormatDate(date))
	})

	t.Run("rescheduled carries both dates", func(t *testing.T) {
		body := rescheduledClientEmail("Rex", date, newDate)
		assert.Contains(t, body, FormatDate(date))
		assert.Contains(t, body, FormatDate(newDate))
	})

	t.Run("cancelled", func(t *testing.T) {
		body := cancelledVetEmail("Rex", date)
		assert.Contains(t, body, "Cancelled")
		assert.Contains(t, body, FormatDate(date))
	})
}
