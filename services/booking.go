package services

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/schedule"
)

// pgExclusionViolation is the SQLSTATE raised when an insert collides with
// the appointments_no_overlap constraint.
const pgExclusionViolation = "23P01"

// isOverlapViolation reports whether err is the database rejecting two
// overlapping active appointments for one provider.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// CheckAvailable validates a requested time range against the provider's
// recurring availability windows, time-off ranges, and existing appointments.
// excludeAppointmentID skips the appointment's own slot during a reschedule
// (zero means no exclusion). Must run inside the booking transaction: the
// overlap query locks the contended rows until commit. Races on an empty
// slot slip past this check; the appointments_no_overlap constraint is the
// backstop that rejects the second insert.
func CheckAvailable(tx *gorm.DB, providerID uint, start, end time.Time, excludeAppointmentID uint) (bool, error) {
	var windows []models.ProviderAvailability
	if err := tx.Where("provider_id = ? AND is_available = ?", providerID, true).
		Find(&windows).Error; err != nil {
		return false, err
	}

	var timeOff []models.ProviderTimeOff
	if err := tx.Where("provider_id = ? AND start_date < ? AND end_date >= ?",
		providerID, end, start).Find(&timeOff).Error; err != nil {
		return false, err
	}

	var booked []models.Appointment
	err := tx.Raw(`
		SELECT *
		FROM appointments
		WHERE provider_id = ?
		  AND deleted_at IS NULL
		  AND status IN ('scheduled', 'confirmed', 'in_progress')
		  AND scheduled_time < ? AND end_time > ?
		FOR UPDATE
	`, providerID, end, start).Scan(&booked).Error
	if err != nil {
		return false, err
	}

	return schedule.RangeAvailable(start, end, windows, timeOff, booked, excludeAppointmentID)
}

// CreateAppointment runs the booking guard and persists the new appointment,
// its companion consultation for session kinds, and the deferred side
// effects (meeting creation, confirmation email) in a single transaction.
// Meeting-provider failure never fails the booking; the consultation's
// meeting fields stay empty until the outbox retry succeeds.
func CreateAppointment(patientID, providerID uint, start, end time.Time,
	apptType models.AppointmentType, reason string) (*models.Appointment, error) {

	appt := &models.Appointment{
		PatientID:       patientID,
		ProviderID:      providerID,
		ScheduledTime:   start,
		EndTime:         end,
		Status:          models.StatusScheduled,
		AppointmentType: apptType,
		Reason:          reason,
		SendReminder:    true,
	}
	if err := appt.Validate(); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	var patient, provider models.User
	if err := db.DB.Where("id = ? AND role = ?", patientID, models.RolePatient).
		First(&patient).Error; err != nil {
		return nil, ErrNotFound
	}
	if err := db.DB.Where("id = ? AND role = ?", providerID, models.RoleProvider).
		First(&provider).Error; err != nil {
		return nil, ErrNotFound
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		available, err := CheckAvailable(tx, providerID, start, end, 0)
		if err != nil {
			return err
		}
		if !available {
			return ErrConflict
		}

		if err := tx.Create(appt).Error; err != nil {
			if isOverlapViolation(err) {
				return ErrConflict
			}
			return err
		}

		if appt.AppointmentType.RequiresMeeting() {
			consultation := &models.Consultation{AppointmentID: appt.ID}
			if err := tx.Create(consultation).Error; err != nil {
				return err
			}
			if err := EnqueueMeetingOp(tx, models.OutboxCreateMeeting, consultation.ID, nil); err != nil {
				return err
			}
		}

		return EnqueueEmail(tx, ConfirmationEmail(appt, &patient, &provider))
	})
	if err != nil {
		return nil, err
	}

	DispatchOutbox()
	return appt, nil
}
