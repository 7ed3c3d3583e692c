package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/schedule"
)

// CancelAppointment moves a scheduled or confirmed appointment to cancelled
// and queues the cancellation notice. Cancellation is a status change; the
// record is never deleted.
func CancelAppointment(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appt, id).Error; err != nil {
			return ErrNotFound
		}
		if err := appt.UpdateStatus(tx, models.StatusCancelled); err != nil {
			return err
		}

		var patient, provider models.User
		if err := tx.First(&patient, appt.PatientID).Error; err != nil {
			return err
		}
		if err := tx.First(&provider, appt.ProviderID).Error; err != nil {
			return err
		}
		return EnqueueEmail(tx, UpdateEmail(&appt, &patient, &provider, "cancelled"))
	})
	if err != nil {
		return nil, err
	}

	DispatchOutbox()
	return &appt, nil
}

// RescheduleAppointment books a replacement appointment for the new range,
// marks the old one rescheduled, and links the two via parent_appointment.
// Stored time ranges are never mutated in place. The consultation (if any)
// follows the replacement, and the remote meeting is moved via the outbox.
func RescheduleAppointment(id uint, newStart, newEnd time.Time) (*models.Appointment, error) {
	probe := models.Appointment{ScheduledTime: newStart, EndTime: newEnd}
	if err := probe.Validate(); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	var replacement *models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		// Lock the row so concurrent reschedules of the same appointment serialize.
		if err := tx.Raw(`
			SELECT *
			FROM appointments
			WHERE id = ? AND deleted_at IS NULL
			FOR UPDATE
		`, id).Scan(&appt).Error; err != nil {
			return err
		}
		if appt.ID == 0 {
			return ErrNotFound
		}
		if !appt.CanReschedule() {
			return &models.InvalidTransitionError{From: appt.Status, To: models.StatusRescheduled}
		}

		available, err := CheckAvailable(tx, appt.ProviderID, newStart, newEnd, appt.ID)
		if err != nil {
			return err
		}
		if !available {
			return ErrConflict
		}

		parentID := appt.ID
		replacement = &models.Appointment{
			PatientID:           appt.PatientID,
			ProviderID:          appt.ProviderID,
			ScheduledTime:       newStart,
			EndTime:             newEnd,
			Status:              models.StatusScheduled,
			AppointmentType:     appt.AppointmentType,
			Reason:              appt.Reason,
			ParentAppointmentID: &parentID,
			IsRecurring:         appt.IsRecurring,
			RecurrencePattern:   appt.RecurrencePattern,
			RecurrenceEndDate:   appt.RecurrenceEndDate,
			SendReminder:        appt.SendReminder,
		}
		if err := tx.Create(replacement).Error; err != nil {
			if isOverlapViolation(err) {
				return ErrConflict
			}
			return err
		}

		// The old record keeps its original range for history.
		appt.Status = models.StatusRescheduled
		if err := tx.Save(&appt).Error; err != nil {
			return err
		}

		var consultation models.Consultation
		res := tx.Where("appointment_id = ?", appt.ID).First(&consultation)
		if res.Error == nil {
			consultation.AppointmentID = replacement.ID
			if err := tx.Save(&consultation).Error; err != nil {
				return err
			}
			payload := MeetingUpdatePayload{
				StartTime:       newStart,
				DurationMinutes: int(newEnd.Sub(newStart).Minutes()),
			}
			if err := EnqueueMeetingOp(tx, models.OutboxUpdateMeeting, consultation.ID, payload); err != nil {
				return err
			}
		} else if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}

		var patient, provider models.User
		if err := tx.First(&patient, appt.PatientID).Error; err != nil {
			return err
		}
		if err := tx.First(&provider, appt.ProviderID).Error; err != nil {
			return err
		}
		return EnqueueEmail(tx, UpdateEmail(replacement, &patient, &provider, "rescheduled"))
	})
	if err != nil {
		return nil, err
	}

	DispatchOutbox()
	return replacement, nil
}

// UpcomingAppointments returns the actor's future scheduled/confirmed
// appointments in chronological order.
func UpcomingAppointments(userID uint, role string) ([]models.Appointment, error) {
	column := "patient_id"
	if role == models.RoleProvider {
		column = "provider_id"
	}

	var appointments []models.Appointment
	err := db.DB.Preload("Patient").Preload("Provider").
		Where(column+" = ?", userID).
		Where("scheduled_time > ?", time.Now()).
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed}).
		Order("scheduled_time asc").
		Find(&appointments).Error
	return appointments, err
}

// ProviderSlots loads the provider's schedule state for one date and resolves
// the open 30-minute slots.
func ProviderSlots(providerID uint, date time.Time) ([]schedule.Slot, error) {
	var provider models.User
	if err := db.DB.Where("id = ? AND role = ?", providerID, models.RoleProvider).
		First(&provider).Error; err != nil {
		return nil, ErrNotFound
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var windows []models.ProviderAvailability
	if err := db.DB.Where("provider_id = ?", providerID).Find(&windows).Error; err != nil {
		return nil, err
	}
	var timeOff []models.ProviderTimeOff
	if err := db.DB.Where("provider_id = ? AND start_date < ? AND end_date >= ?",
		providerID, dayEnd, dayStart).Find(&timeOff).Error; err != nil {
		return nil, err
	}
	var appointments []models.Appointment
	if err := db.DB.Where("provider_id = ? AND scheduled_time >= ? AND scheduled_time < ? AND status IN ?",
		providerID, dayStart, dayEnd, models.ActiveStatuses).Find(&appointments).Error; err != nil {
		return nil, err
	}

	return schedule.ResolveSlots(date, windows, timeOff, appointments)
}
