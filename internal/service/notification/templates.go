package notification

import (
	"fmt"
	"time"
)

// FormatDate renders appointment dates the way they appear in every email.
func FormatDate(t time.Time) string {
	return t.UTC().Format("Monday, 02 Jan 2006 15:04 MST")
}

func newAppointmentClientEmail(petName string, date time.Time, vetName string) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>Appointment Scheduled</h2>
	<p>A new appointment has been scheduled for %s:</p>
	<ul>
		<li><strong>Date:</strong> %s</li>
		<li><strong>Veterinarian:</strong> Dr. %s</li>
	</ul>
	<p>If you need to make any changes, please contact us.</p>
</body>
</html>`, petName, FormatDate(date), vetName)
}

func newAppointmentVetEmail(petName string, date time.Time, clientName string) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>New Appointment</h2>
	<p>A new appointment has been added to your schedule:</p>
	<ul>
		<li><strong>Patient:</strong> %s</li>
		<li><strong>Date:</strong> %s</li>
		<li><strong>Client:</strong> %s</li>
	</ul>
</body>
</html>`, petName, FormatDate(date), clientName)
}

func rescheduledClientEmail(petName string, oldDate, newDate time.Time) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>Appointment Rescheduled</h2>
	<p>The appointment for %s has been rescheduled:</p>
	<ul>
		<li><strong>Previous date:</strong> %s</li>
		<li><strong>New date:</strong> %s</li>
	</ul>
	<p>If you need to make further changes, please contact us.</p>
</body>
</html>`, petName, FormatDate(oldDate), FormatDate(newDate))
}

func rescheduledVetEmail(petName string, oldDate, newDate time.Time) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>Appointment Rescheduled - Schedule Update</h2>
	<p>An appointment has been rescheduled:</p>
	<ul>
		<li><strong>Patient:</strong> %s</li>
		<li><strong>Previous date:</strong> %s</li>
		<li><strong>New date:</strong> %s</li>
	</ul>
</body>
</html>`, petName, FormatDate(oldDate), FormatDate(newDate))
}

func cancelledClientEmail(petName string, date time.Time) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>Appointment Cancelled</h2>
	<p>The appointment for %s on %s has been cancelled.</p>
	<p>You can schedule a new appointment whenever it suits you.</p>
</body>
</html>`, petName, FormatDate(date))
}

func cancelledVetEmail(petName string, date time.Time) string {
	return fmt.Sprintf(`<html>
<body>
	<h2>Appointment Cancelled - Schedule Update</h2>
	<p>The appointment for %s on %s has been cancelled.</p>
</body>
</html>`, petName, FormatDate(date))
}
