package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
)

const defaultReminderLead = 24 * time.Hour

// ReminderLead is how far ahead of an appointment the reminder goes out.
func ReminderLead() time.Duration {
	if v := os.Getenv("REMINDER_LEAD_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultReminderLead
}

// NeedsReminder is the due-for-reminder predicate; the sweep query mirrors it.
func NeedsReminder(a *models.Appointment, now time.Time, lead time.Duration) bool {
	if !a.SendReminder || a.ReminderSent {
		return false
	}
	if a.Status != models.StatusScheduled && a.Status != models.StatusConfirmed {
		return false
	}
	return !a.ScheduledTime.Before(now) && !a.ScheduledTime.After(now.Add(lead))
}

// DueForReminder returns appointments starting within the lead window that
// still need a reminder.
func DueForReminder(now time.Time, lead time.Duration) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.DB.Preload("Patient").Preload("Provider").
		Where("scheduled_time BETWEEN ? AND ?", now, now.Add(lead)).
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed}).
		Where("send_reminder = ? AND reminder_sent = ?", true, false).
		Find(&appointments).Error
	return appointments, err
}

// SendReminder dispatches one reminder. reminder_sent flips only after a
// successful dispatch, so a failed run is retried on the next sweep.
func SendReminder(appt *models.Appointment) bool {
	if appt.Patient.Email == "" {
		log.Printf("Cannot send reminder: patient %d has no email", appt.PatientID)
		return false
	}

	p := ReminderEmail(appt, &appt.Patient, &appt.Provider)
	if err := SendEmail(p.To, p.Subject, p.HTMLBody, p.TextBody); err != nil {
		log.Printf("Failed to send reminder for appointment %d: %v", appt.ID, err)
		return false
	}

	appt.ReminderSent = true
	if err := db.DB.Model(&models.Appointment{}).Where("id = ?", appt.ID).
		Update("reminder_sent", true).Error; err != nil {
		// Email went out but the flag didn't stick; the next sweep resends.
		// Accepted as at-least-once delivery.
		log.Printf("Failed to mark reminder sent for appointment %d: %v", appt.ID, err)
		return false
	}
	return true
}

// SweepReminders processes everything currently due and reports how many of
// the pending reminders went out.
func SweepReminders() (sent int, pending int) {
	due, err := DueForReminder(time.Now(), ReminderLead())
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return 0, 0
	}
	for i := range due {
		if SendReminder(&due[i]) {
			sent++
		}
	}
	return sent, len(due)
}
