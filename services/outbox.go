package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
)

// MeetingUpdatePayload carries the new schedule for a remote meeting after a
// reschedule.
type MeetingUpdatePayload struct {
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// MeetingDeletePayload keeps the meeting id around after the local
// consultation row is gone.
type MeetingDeletePayload struct {
	MeetingID string `json:"meeting_id"`
}

// EnqueueEmail records a rendered message for post-commit delivery.
func EnqueueEmail(tx *gorm.DB, p EmailPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return tx.Create(&models.OutboxEntry{
		Kind:    models.OutboxSendEmail,
		Payload: string(data),
	}).Error
}

// EnqueueMeetingOp records a meeting-provider call for post-commit execution.
func EnqueueMeetingOp(tx *gorm.DB, kind models.OutboxKind, consultationID uint, payload any) error {
	raw := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = string(data)
	}
	return tx.Create(&models.OutboxEntry{
		Kind:           kind,
		ConsultationID: consultationID,
		Payload:        raw,
	}).Error
}

// DispatchOutbox delivers pending entries. It runs right after each commit
// and on a recurring timer as the retry path; failures stay pending with the
// error recorded, so delivery is at-least-once.
func DispatchOutbox() {
	var entries []models.OutboxEntry
	if err := db.DB.Where("processed_at IS NULL").Order("id asc").Limit(50).Find(&entries).Error; err != nil {
		log.Printf("Error loading outbox entries: %v", err)
		return
	}
	for i := range entries {
		processOutboxEntry(&entries[i])
	}
}

func processOutboxEntry(e *models.OutboxEntry) {
	err := runOutboxEntry(e)
	e.Attempts++
	if err != nil {
		e.LastError = err.Error()
		log.Printf("Outbox entry %d (%s) failed: %v", e.ID, e.Kind, err)
	} else {
		now := time.Now()
		e.ProcessedAt = &now
		e.LastError = ""
	}
	if saveErr := db.DB.Save(e).Error; saveErr != nil {
		log.Printf("Failed to persist outbox entry %d: %v", e.ID, saveErr)
	}
}

func runOutboxEntry(e *models.OutboxEntry) error {
	switch e.Kind {
	case models.OutboxSendEmail:
		var p EmailPayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return err
		}
		return SendEmail(p.To, p.Subject, p.HTMLBody, p.TextBody)

	case models.OutboxCreateMeeting:
		return createMeetingFor(e.ConsultationID)

	case models.OutboxUpdateMeeting:
		var p MeetingUpdatePayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return err
		}
		var consultation models.Consultation
		if err := db.DB.First(&consultation, e.ConsultationID).Error; err != nil {
			return err
		}
		if consultation.MeetingID == "" {
			return nil // no remote meeting bound, nothing to move
		}
		return NewZoomService().UpdateMeeting(consultation.MeetingID, p.StartTime, p.DurationMinutes)

	case models.OutboxDeleteMeeting:
		var p MeetingDeletePayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return err
		}
		return NewZoomService().DeleteMeeting(p.MeetingID)
	}
	return fmt.Errorf("unknown outbox kind %q", e.Kind)
}

func createMeetingFor(consultationID uint) error {
	var consultation models.Consultation
	err := db.DB.Preload("Appointment.Provider").Preload("Appointment.Patient").
		First(&consultation, consultationID).Error
	if err != nil {
		return err
	}
	if consultation.MeetingID != "" {
		return nil // already bound on an earlier attempt
	}

	appt := consultation.Appointment
	durationMinutes := int(appt.EndTime.Sub(appt.ScheduledTime).Minutes())
	topic := fmt.Sprintf("Medical Consultation - %s and %s",
		appt.Provider.FullName(), appt.Patient.FullName())

	meeting, err := NewZoomService().CreateMeeting(topic, appt.ScheduledTime, durationMinutes, appt.Provider.Email)
	if err != nil {
		return err
	}

	consultation.MeetingID = strconv.FormatInt(meeting.ID, 10)
	consultation.MeetingPassword = meeting.Password
	consultation.JoinURL = meeting.JoinURL
	consultation.StartURL = meeting.StartURL
	return db.DB.Omit("Appointment").Save(&consultation).Error
}
