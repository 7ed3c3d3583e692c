package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
)

// JoinInfo is what a participant needs to enter the remote meeting. StartURL
// is only populated for the provider.
type JoinInfo struct {
	MeetingID       string `json:"meeting_id"`
	MeetingPassword string `json:"meeting_password"`
	JoinURL         string `json:"join_url"`
	StartURL        string `json:"start_url,omitempty"`
}

// CreateConsultation creates the session companion for a video appointment
// and queues the remote meeting creation. At most one consultation exists
// per appointment.
func CreateConsultation(appointmentID uint, notes string) (*models.Consultation, error) {
	var appt models.Appointment
	if err := db.DB.First(&appt, appointmentID).Error; err != nil {
		return nil, ErrNotFound
	}
	if !appt.AppointmentType.RequiresMeeting() {
		return nil, &ValidationError{Msg: "appointment type does not use a video session"}
	}

	consultation := &models.Consultation{AppointmentID: appt.ID, Notes: notes}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Consultation
		if tx.Where("appointment_id = ?", appt.ID).First(&existing).Error == nil {
			return ErrConflict
		}
		if err := tx.Create(consultation).Error; err != nil {
			return err
		}
		return EnqueueMeetingOp(tx, models.OutboxCreateMeeting, consultation.ID, nil)
	})
	if err != nil {
		return nil, err
	}

	DispatchOutbox()

	// Reload so the caller sees the meeting fields when binding succeeded.
	if err := db.DB.First(consultation, consultation.ID).Error; err != nil {
		return nil, err
	}
	return consultation, nil
}

// StartConsultation records the session start and moves the parent
// appointment to in_progress.
func StartConsultation(id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Appointment").First(&consultation, id).Error; err != nil {
			return ErrNotFound
		}
		if err := consultation.Begin(time.Now()); err != nil {
			return err
		}
		if err := consultation.Appointment.UpdateStatus(tx, models.StatusInProgress); err != nil {
			return err
		}
		return tx.Omit("Appointment").Save(&consultation).Error
	})
	if err != nil {
		return nil, err
	}
	return &consultation, nil
}

// EndConsultation records the session end, recomputes the duration, and
// moves the parent appointment to completed.
func EndConsultation(id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Appointment").First(&consultation, id).Error; err != nil {
			return ErrNotFound
		}
		if err := consultation.Finish(time.Now()); err != nil {
			return err
		}
		if err := consultation.Appointment.UpdateStatus(tx, models.StatusCompleted); err != nil {
			return err
		}
		return tx.Omit("Appointment").Save(&consultation).Error
	})
	if err != nil {
		return nil, err
	}
	return &consultation, nil
}

// ConsultationJoinInfo returns the meeting credentials for a participant of
// the consultation. Only the provider receives the privileged start URL.
func ConsultationJoinInfo(id, userID uint, role string) (*JoinInfo, error) {
	var consultation models.Consultation
	if err := db.DB.Preload("Appointment").First(&consultation, id).Error; err != nil {
		return nil, ErrNotFound
	}
	if consultation.MeetingID == "" {
		return nil, &ValidationError{Msg: "this consultation does not have a remote meeting"}
	}

	appt := consultation.Appointment
	isProvider := role == models.RoleProvider && userID == appt.ProviderID
	isPatient := role == models.RolePatient && userID == appt.PatientID
	if !isProvider && !isPatient {
		return nil, ErrForbidden
	}

	info := &JoinInfo{
		MeetingID:       consultation.MeetingID,
		MeetingPassword: consultation.MeetingPassword,
		JoinURL:         consultation.JoinURL,
	}
	if isProvider {
		info.StartURL = consultation.StartURL
	}
	return info, nil
}

// DeleteConsultation removes the local record and queues deletion of the
// remote meeting. A meeting-provider failure never blocks the local delete.
func DeleteConsultation(id uint) error {
	var consultation models.Consultation
	if err := db.DB.First(&consultation, id).Error; err != nil {
		return ErrNotFound
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if consultation.MeetingID != "" {
			payload := MeetingDeletePayload{MeetingID: consultation.MeetingID}
			if err := EnqueueMeetingOp(tx, models.OutboxDeleteMeeting, 0, payload); err != nil {
				return err
			}
		}
		return tx.Delete(&consultation).Error
	})
	if err != nil {
		return err
	}

	DispatchOutbox()
	return nil
}
