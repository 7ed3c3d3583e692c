package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusRescheduled, true},
		{StatusScheduled, StatusCompleted, false},

		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRescheduled, true},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusConfirmed, StatusCompleted, false},

		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusInProgress, StatusRescheduled, false},

		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusRescheduled, StatusCancelled, false},

		// no_show is administrative and reachable from anywhere.
		{StatusScheduled, StatusNoShow, true},
		{StatusCompleted, StatusNoShow, true},
		{StatusCancelled, StatusNoShow, true},
	}

	for _, tc := range cases {
		a := Appointment{Status: tc.from}
		err := a.CanTransitionTo(tc.to)
		if tc.allowed {
			assert.NoError(t, err, "%s -> %s should be allowed", tc.from, tc.to)
		} else {
			require.Error(t, err, "%s -> %s should be rejected", tc.from, tc.to)
			var transitionErr *InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tc.from, transitionErr.From)
			assert.Equal(t, tc.to, transitionErr.To)
		}
	}
}

func TestCanReschedule(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusScheduled}).CanReschedule())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).CanReschedule())
	assert.True(t, (&Appointment{Status: StatusCancelled}).CanReschedule())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanReschedule())
	assert.False(t, (&Appointment{Status: StatusNoShow}).CanReschedule())
}

func TestValidateTimeRange(t *testing.T) {
	now := time.Now()

	a := Appointment{ScheduledTime: now, EndTime: now.Add(30 * time.Minute)}
	assert.NoError(t, a.Validate())

	a = Appointment{ScheduledTime: now, EndTime: now}
	assert.Error(t, a.Validate(), "zero-length appointments are rejected")

	a = Appointment{ScheduledTime: now, EndTime: now.Add(-time.Minute)}
	assert.Error(t, a.Validate())

	a = Appointment{EndTime: now}
	assert.Error(t, a.Validate())
}

func TestIsUpcoming(t *testing.T) {
	now := time.Now()
	future := now.Add(2 * time.Hour)
	past := now.Add(-2 * time.Hour)

	assert.True(t, (&Appointment{ScheduledTime: future, Status: StatusScheduled}).IsUpcoming(now))
	assert.True(t, (&Appointment{ScheduledTime: future, Status: StatusConfirmed}).IsUpcoming(now))
	assert.False(t, (&Appointment{ScheduledTime: past, Status: StatusScheduled}).IsUpcoming(now))
	assert.False(t, (&Appointment{ScheduledTime: future, Status: StatusCancelled}).IsUpcoming(now))
	assert.False(t, (&Appointment{ScheduledTime: future, Status: StatusCompleted}).IsUpcoming(now))
	assert.False(t, (&Appointment{ScheduledTime: future, Status: StatusNoShow}).IsUpcoming(now))
}

func TestRequiresMeeting(t *testing.T) {
	assert.True(t, TypeVideoConsultation.RequiresMeeting())
	assert.False(t, TypePhoneConsultation.RequiresMeeting())
	assert.False(t, TypeInPerson.RequiresMeeting())
	assert.False(t, TypeFollowUp.RequiresMeeting())
	assert.False(t, TypeUrgentCare.RequiresMeeting())
	assert.False(t, TypeSpecialistReferral.RequiresMeeting())
}

func TestDayOfWeekOf(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, DayOfWeek(i), DayOfWeekOf(monday.AddDate(0, 0, i)))
	}
}
