package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in_progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

type AppointmentType string

const (
	TypeVideoConsultation  AppointmentType = "video_consultation"
	TypePhoneConsultation  AppointmentType = "phone_consultation"
	TypeInPerson           AppointmentType = "in_person"
	TypeFollowUp           AppointmentType = "follow_up"
	TypeUrgentCare         AppointmentType = "urgent_care"
	TypeSpecialistReferral AppointmentType = "specialist_referral"
)

// RequiresMeeting reports whether this appointment type is backed by a
// remote video session (and therefore a Consultation record).
func (t AppointmentType) RequiresMeeting() bool {
	return t == TypeVideoConsultation
}

// ActiveStatuses are the statuses that hold a provider's time slot. Two
// appointments for the same provider in these statuses must never overlap.
var ActiveStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusInProgress}

// InvalidTransitionError is returned when a lifecycle operation is attempted
// from a state that forbids it.
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

type Appointment struct {
	gorm.Model
	PatientID  uint `json:"patient_id"`
	Patient    User `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	ProviderID uint `json:"provider_id"`
	Provider   User `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`

	ScheduledTime   time.Time         `json:"scheduled_time"`
	EndTime         time.Time         `json:"end_time"`
	Status          AppointmentStatus `json:"status"`
	AppointmentType AppointmentType   `json:"appointment_type"`
	Reason          string            `json:"reason"`

	// Set when this appointment was created as the replacement for a
	// rescheduled one, or as a follow-up to a cancelled one.
	ParentAppointmentID *uint `json:"parent_appointment_id"`

	// Recurrence metadata is advisory only; no instances are generated.
	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern string     `json:"recurrence_pattern"` // e.g. "weekly", "biweekly", "monthly"
	RecurrenceEndDate *time.Time `json:"recurrence_end_date"`

	SendReminder bool `json:"send_reminder" gorm:"default:true"`
	ReminderSent bool `json:"reminder_sent" gorm:"default:false"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.AppointmentType == "" {
		a.AppointmentType = TypeVideoConsultation
	}
	return nil
}

// Validate checks the time range before any write.
func (a *Appointment) Validate() error {
	if a.ScheduledTime.IsZero() || a.EndTime.IsZero() {
		return fmt.Errorf("scheduled_time and end_time are required")
	}
	if !a.EndTime.After(a.ScheduledTime) {
		return fmt.Errorf("end_time must be after scheduled_time")
	}
	return nil
}

// CanTransitionTo validates a status change against the lifecycle state
// machine. no_show is administrative and reachable from any state.
func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) error {
	allowed := false
	switch newStatus {
	case StatusConfirmed:
		allowed = a.Status == StatusScheduled
	case StatusInProgress:
		allowed = a.Status == StatusScheduled || a.Status == StatusConfirmed
	case StatusCompleted:
		allowed = a.Status == StatusInProgress
	case StatusCancelled, StatusRescheduled:
		allowed = a.Status == StatusScheduled || a.Status == StatusConfirmed
	case StatusNoShow:
		allowed = true
	}
	if !allowed {
		return &InvalidTransitionError{From: a.Status, To: newStatus}
	}
	return nil
}

// UpdateStatus applies a validated status transition and persists it.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if err := a.CanTransitionTo(newStatus); err != nil {
		return err
	}
	a.Status = newStatus
	return tx.Save(a).Error
}

// CanReschedule reports whether the appointment may still be moved to a new
// time range. Completed and no-show appointments are frozen.
func (a *Appointment) CanReschedule() bool {
	return a.Status != StatusCompleted && a.Status != StatusNoShow
}

// IsUpcoming reports whether the appointment is still ahead of now and live.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	if !a.ScheduledTime.After(now) {
		return false
	}
	switch a.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return false
	}
	return true
}
