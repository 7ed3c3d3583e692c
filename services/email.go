package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"

	"github.com/klararety/telehealth/models"
)

const timeDisplayLayout = "Monday, January 2, 2006 at 3:04 PM"

// EmailPayload is a fully rendered message; templating happens at enqueue
// time so the outbox processor only has to deliver.
type EmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// SendEmail delivers a multipart (plain + HTML) message over SMTP.
func SendEmail(to, subject, htmlBody, textBody string) error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	if textBody == "" {
		textBody = "Please view this email in an HTML compatible email client."
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		return &ExternalProviderError{Provider: "smtp", Err: err}
	}
	return nil
}

func appointmentTypeDisplay(t models.AppointmentType) string {
	switch t {
	case models.TypeVideoConsultation:
		return "Video Consultation"
	case models.TypePhoneConsultation:
		return "Phone Consultation"
	case models.TypeInPerson:
		return "In-Person Visit"
	case models.TypeFollowUp:
		return "Follow-up"
	case models.TypeUrgentCare:
		return "Urgent Care"
	case models.TypeSpecialistReferral:
		return "Specialist Referral"
	}
	return string(t)
}

// ConfirmationEmail renders the booking confirmation for the patient.
func ConfirmationEmail(appt *models.Appointment, patient, provider *models.User) EmailPayload {
	when := appt.ScheduledTime.Format(timeDisplayLayout)
	kind := appointmentTypeDisplay(appt.AppointmentType)

	subject := fmt.Sprintf("Appointment Confirmation: %s with Dr. %s", kind, provider.LastName)
	html := fmt.Sprintf(`
		<h2>Appointment Confirmation</h2>
		<p>Dear %s,</p>
		<p>Your appointment has been scheduled:</p>
		<ul>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date/Time:</strong> %s</li>
			<li><strong>Type:</strong> %s</li>
		</ul>
		<p>Thank you,<br>Klararety Health Platform</p>
	`, patient.FirstName, provider.FullName(), when, kind)
	text := fmt.Sprintf("APPOINTMENT CONFIRMATION\n\nDear %s,\n\nYour appointment has been scheduled.\nProvider: %s\nDate/Time: %s\nType: %s\n\nThank you,\nKlararety Health Platform",
		patient.FirstName, provider.FullName(), when, kind)

	return EmailPayload{To: patient.Email, Subject: subject, HTMLBody: html, TextBody: text}
}

// UpdateEmail renders a cancellation or reschedule notice for the patient.
func UpdateEmail(appt *models.Appointment, patient, provider *models.User, change string) EmailPayload {
	when := appt.ScheduledTime.Format(timeDisplayLayout)
	kind := appointmentTypeDisplay(appt.AppointmentType)

	subject := fmt.Sprintf("Appointment %s: %s with Dr. %s", change, kind, provider.LastName)
	html := fmt.Sprintf(`
		<h2>Appointment %s</h2>
		<p>Dear %s,</p>
		<p>Your appointment has been %s:</p>
		<ul>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date/Time:</strong> %s</li>
			<li><strong>Type:</strong> %s</li>
		</ul>
		<p>If you have questions, please contact us.</p>
		<p>Thank you,<br>Klararety Health Platform</p>
	`, change, patient.FirstName, change, provider.FullName(), when, kind)
	text := fmt.Sprintf("APPOINTMENT %s\n\nDear %s,\n\nYour appointment has been %s.\nProvider: %s\nDate/Time: %s\nType: %s\n\nThank you,\nKlararety Health Platform",
		change, patient.FirstName, change, provider.FullName(), when, kind)

	return EmailPayload{To: patient.Email, Subject: subject, HTMLBody: html, TextBody: text}
}

// AccessCodeEmail renders the single-use join code message for the patient.
func AccessCodeEmail(patient, provider *models.User, scheduled time.Time, code string, ttl time.Duration) EmailPayload {
	date := scheduled.Format("Monday, January 2, 2006")
	clock := scheduled.Format("3:04 PM")
	minutes := int(ttl.Minutes())

	subject := fmt.Sprintf("Access Code for Your Video Consultation with Dr. %s", provider.LastName)
	html := fmt.Sprintf(`
		<h2>Video Consultation Access Code</h2>
		<p>Dear %s,</p>
		<p>Here is your access code for the upcoming video consultation:</p>
		<div style="background-color: #f0f0f0; padding: 10px; text-align: center; font-size: 24px; letter-spacing: 5px; font-weight: bold;">%s</div>
		<ul>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>This code will expire in %d minutes. You'll need to enter it to join the video consultation.</p>
		<p>Thank you,<br>Klararety Health Platform</p>
	`, patient.FirstName, code, provider.FullName(), date, clock, minutes)
	text := fmt.Sprintf("VIDEO CONSULTATION ACCESS CODE\n\nDear %s,\n\nYour access code: %s\nProvider: %s\nDate: %s\nTime: %s\n\nThis code will expire in %d minutes.\n\nThank you,\nKlararety Health Platform",
		patient.FirstName, code, provider.FullName(), date, clock, minutes)

	return EmailPayload{To: patient.Email, Subject: subject, HTMLBody: html, TextBody: text}
}

// ReminderEmail renders the upcoming-appointment reminder for the patient.
func ReminderEmail(appt *models.Appointment, patient, provider *models.User) EmailPayload {
	when := appt.ScheduledTime.Format(timeDisplayLayout)
	kind := appointmentTypeDisplay(appt.AppointmentType)

	subject := fmt.Sprintf("Reminder: Your %s with Dr. %s", kind, provider.LastName)
	html := fmt.Sprintf(`
		<h2>Appointment Reminder</h2>
		<p>Dear %s,</p>
		<p>This is a reminder of your upcoming appointment:</p>
		<ul>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date/Time:</strong> %s</li>
			<li><strong>Type:</strong> %s</li>
		</ul>
		<p>If you need to reschedule, please contact us as soon as possible.</p>
		<p>Thank you,<br>Klararety Health Platform</p>
	`, patient.FirstName, provider.FullName(), when, kind)
	text := fmt.Sprintf("APPOINTMENT REMINDER\n\nDear %s,\n\nThis is a reminder of your upcoming appointment.\nProvider: %s\nDate/Time: %s\nType: %s\n\nIf you need to reschedule, please contact us as soon as possible.\n\nThank you,\nKlararety Health Platform",
		patient.FirstName, provider.FullName(), when, kind)

	return EmailPayload{To: patient.Email, Subject: subject, HTMLBody: html, TextBody: text}
}
