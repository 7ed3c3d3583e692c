package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/klararety/telehealth/models"
)

func TestNeedsReminder(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	lead := 24 * time.Hour

	base := func() *models.Appointment {
		return &models.Appointment{
			ScheduledTime: now.Add(3 * time.Hour),
			Status:        models.StatusScheduled,
			SendReminder:  true,
		}
	}

	assert.True(t, NeedsReminder(base(), now, lead))

	confirmed := base()
	confirmed.Status = models.StatusConfirmed
	assert.True(t, NeedsReminder(confirmed, now, lead))

	optedOut := base()
	optedOut.SendReminder = false
	assert.False(t, NeedsReminder(optedOut, now, lead))

	alreadySent := base()
	alreadySent.ReminderSent = true
	assert.False(t, NeedsReminder(alreadySent, now, lead))

	cancelled := base()
	cancelled.Status = models.StatusCancelled
	assert.False(t, NeedsReminder(cancelled, now, lead))

	inProgress := base()
	inProgress.Status = models.StatusInProgress
	assert.False(t, NeedsReminder(inProgress, now, lead))
}

func TestNeedsReminderWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	lead := 24 * time.Hour

	a := &models.Appointment{Status: models.StatusScheduled, SendReminder: true}

	a.ScheduledTime = now
	assert.True(t, NeedsReminder(a, now, lead), "window start is inclusive")

	a.ScheduledTime = now.Add(lead)
	assert.True(t, NeedsReminder(a, now, lead), "window end is inclusive")

	a.ScheduledTime = now.Add(lead + time.Second)
	assert.False(t, NeedsReminder(a, now, lead))

	a.ScheduledTime = now.Add(-time.Second)
	assert.False(t, NeedsReminder(a, now, lead), "past appointments get no reminder")
}

func TestReminderLeadFromEnv(t *testing.T) {
	t.Setenv("REMINDER_LEAD_HOURS", "48")
	assert.Equal(t, 48*time.Hour, ReminderLead())

	t.Setenv("REMINDER_LEAD_HOURS", "not-a-number")
	assert.Equal(t, 24*time.Hour, ReminderLead())

	t.Setenv("REMINDER_LEAD_HOURS", "")
	assert.Equal(t, 24*time.Hour, ReminderLead())
}
