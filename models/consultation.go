package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAlreadyStarted = errors.New("consultation has already started")
	ErrNotStarted     = errors.New("consultation has not been started")
	ErrAlreadyEnded   = errors.New("consultation has already ended")
)

// Consultation is the one-to-one session companion of a video appointment.
// The meeting fields stay empty when the external meeting provider was
// unreachable at creation time.
type Consultation struct {
	gorm.Model
	AppointmentID uint        `json:"appointment_id" gorm:"uniqueIndex"`
	Appointment   Appointment `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`

	StartTime *time.Time    `json:"start_time"`
	EndTime   *time.Time    `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	MeetingID       string `json:"meeting_id"`
	MeetingPassword string `json:"meeting_password,omitempty"`
	JoinURL         string `json:"join_url"`
	// StartURL is privileged; only the provider ever receives it.
	StartURL string `json:"-"`

	AccessCode        string     `json:"-"`
	AccessCodeExpires *time.Time `json:"-"`

	Notes string `json:"notes"`
}

// BeforeSave keeps duration derived from the recorded start/end pair.
func (c *Consultation) BeforeSave(tx *gorm.DB) error {
	if c.StartTime != nil && c.EndTime != nil {
		c.Duration = c.EndTime.Sub(*c.StartTime)
	}
	return nil
}

// Begin records the session start. It is rejected once a start time exists.
func (c *Consultation) Begin(now time.Time) error {
	if c.StartTime != nil {
		return ErrAlreadyStarted
	}
	t := now
	c.StartTime = &t
	return nil
}

// Finish records the session end and recomputes the duration.
func (c *Consultation) Finish(now time.Time) error {
	if c.StartTime == nil {
		return ErrNotStarted
	}
	if c.EndTime != nil {
		return ErrAlreadyEnded
	}
	t := now
	c.EndTime = &t
	c.Duration = c.EndTime.Sub(*c.StartTime)
	return nil
}

// SetAccessCode stores a fresh single-use join code and its expiry.
func (c *Consultation) SetAccessCode(code string, expires time.Time) {
	c.AccessCode = code
	c.AccessCodeExpires = &expires
}

// VerifyAccessCode checks the submitted code against the stored one. On
// success the code is consumed (cleared); on any failure the stored code is
// left untouched so the caller may retry until expiry.
func (c *Consultation) VerifyAccessCode(code string, now time.Time) bool {
	if c.AccessCode == "" || c.AccessCodeExpires == nil {
		return false
	}
	if c.AccessCode != code || !now.Before(*c.AccessCodeExpires) {
		return false
	}
	c.AccessCode = ""
	c.AccessCodeExpires = nil
	return true
}
