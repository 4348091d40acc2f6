package model

import "time"

// ReminderConfigID is the key of the singleton configuration record.
const ReminderConfigID = "default"

// DefaultEmailTemplate carries positional placeholders for the client name,
// formatted date, pet name, veterinarian name, and confirmation link.
const DefaultEmailTemplate = `<html>
<body>
	<h2>Veterinary Appointment Reminder</h2>
	<p>Dear %s,</p>
	<p>This is a reminder of your upcoming appointment:</p>
	<ul>
		<li><strong>Date:</strong> %s</li>
		<li><strong>Pet:</strong> %s</li>
		<li><strong>Veterinarian:</strong> Dr. %s</li>
	</ul>
	<p>Please confirm your attendance by clicking the link below:</p>
	<a href="%s" style="padding: 10px 20px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px;">
		Confirm Attendance
	</a>
	<p>If you need to reschedule, please contact us as soon as possible.</p>
</body>
</html>`

// ReminderConfig controls the periodic reminder sweep. It is read every
// cycle and written only by the configuration endpoint.
type ReminderConfig struct {
	ID                  string    `db:"id" json:"id"`
	ReminderHoursBefore int       `db:"reminder_hours_before" json:"reminder_hours_before"`
	Enabled             bool      `db:"enabled" json:"enabled"`
	EmailTemplate       string    `db:"email_template" json:"email_template"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

type UpdateReminderConfigRequest struct {
	ReminderHoursBefore int    `json:"reminder_hours_before" binding:"min=0"`
	Enabled             bool   `json:"enabled"`
	EmailTemplate       string `json:"email_template"`
}
