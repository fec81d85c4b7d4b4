package email

import (
	"fmt"
	"html"
)

// AppointmentEmailData fills the appointment templates. When is already
// formatted for the reader.
type AppointmentEmailData struct {
	To          string
	PatientName string
	Title       string
	When        string
	ClinicName  string
}

func (d AppointmentEmailData) names() (patient, clinic string) {
	patient, clinic = d.PatientName, d.ClinicName
	if patient == "" {
		patient = "there"
	}
	if clinic == "" {
		clinic = "the clinic"
	}
	return patient, clinic
}

func BuildAppointmentConfirmationEmail(d AppointmentEmailData) Message {
	patient, clinic := d.names()
	subject := fmt.Sprintf("Appointment confirmed: %s on %s", d.Title, d.When)

	text := fmt.Sprintf(`Hi %s,

Your appointment "%s" at %s is booked for %s.

If you cannot make it, please call the front desk so we can offer the slot to someone else.

Thanks,
%s`, patient, d.Title, clinic, d.When, clinic)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your appointment <strong>%s</strong> at %s is booked for:</p>
    <p style="text-align: center; margin: 30px 0; background-color: #f3f4f6; padding: 20px; border-radius: 6px; font-size: 20px;">%s</p>
    <p>If you cannot make it, please call the front desk so we can offer the slot to someone else.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>%s</p>
</body>
</html>`, esc(patient), esc(d.Title), esc(clinic), esc(d.When), esc(clinic))

	return Message{To: []string{d.To}, Subject: subject, TextBody: text, HTMLBody: body}
}

func BuildAppointmentCancelledEmail(d AppointmentEmailData) Message {
	patient, clinic := d.names()
	subject := fmt.Sprintf("Appointment cancelled: %s on %s", d.Title, d.When)

	text := fmt.Sprintf(`Hi %s,

Your appointment "%s" at %s on %s has been cancelled.

Call the front desk to book a new time.

Thanks,
%s`, patient, d.Title, clinic, d.When, clinic)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc2626;">Hi %s,</h2>
    <p>Your appointment <strong>%s</strong> at %s on %s has been cancelled.</p>
    <p>Call the front desk to book a new time.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>%s</p>
</body>
</html>`, esc(patient), esc(d.Title), esc(clinic), esc(d.When), esc(clinic))

	return Message{To: []string{d.To}, Subject: subject, TextBody: text, HTMLBody: body}
}

func esc(s string) string { return html.EscapeString(s) }
