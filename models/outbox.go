package models

import (
	"time"

	"gorm.io/gorm"
)

type OutboxKind string

const (
	OutboxCreateMeeting OutboxKind = "create_meeting"
	OutboxUpdateMeeting OutboxKind = "update_meeting"
	OutboxDeleteMeeting OutboxKind = "delete_meeting"
	OutboxSendEmail     OutboxKind = "send_email"
)

// OutboxEntry is a deferred external side effect (meeting call or email),
// written in the same transaction as the local change that triggered it and
// dispatched after commit. Failed entries are retried by the cron processor.
type OutboxEntry struct {
	gorm.Model
	Kind           OutboxKind `json:"kind"`
	ConsultationID uint       `json:"consultation_id"` // zero for plain emails
	Payload        string     `json:"payload" gorm:"type:text"`
	Attempts       uint       `json:"attempts"`
	LastError      string     `json:"last_error"`
	ProcessedAt    *time.Time `json:"processed_at"`
}

func (e *OutboxEntry) Pending() bool {
	return e.ProcessedAt == nil
}
