package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klararety/telehealth/models"
)

// 2026-08-25 is a Tuesday.
var tuesday = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

func at(date time.Time, hour, min int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location())
}

func tuesdayWindow() []models.ProviderAvailability {
	return []models.ProviderAvailability{
		{DayOfWeek: models.Tuesday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
}

func TestResolveSlotsFullDay(t *testing.T) {
	slots, err := ResolveSlots(tuesday, tuesdayWindow(), nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	assert.Equal(t, Slot{Start: "09:00", End: "09:30"}, slots[0])
	assert.Equal(t, Slot{Start: "16:30", End: "17:00"}, slots[15])
}

func TestResolveSlotsNoWindowForDay(t *testing.T) {
	wednesday := tuesday.AddDate(0, 0, 1)
	slots, err := ResolveSlots(wednesday, tuesdayWindow(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveSlotsUnavailableRowSkipped(t *testing.T) {
	windows := []models.ProviderAvailability{
		{DayOfWeek: models.Tuesday, StartTime: "09:00", EndTime: "17:00", IsAvailable: false},
	}
	slots, err := ResolveSlots(tuesday, windows, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveSlotsTimeOffBlanksDay(t *testing.T) {
	timeOff := []models.ProviderTimeOff{
		{
			StartDate: at(tuesday, 12, 0),
			EndDate:   at(tuesday, 13, 0),
		},
	}
	slots, err := ResolveSlots(tuesday, tuesdayWindow(), timeOff, nil)
	require.NoError(t, err)
	assert.Empty(t, slots, "any time off touching the day blanks it entirely")
}

func TestResolveSlotsTimeOffOtherDayIgnored(t *testing.T) {
	monday := tuesday.AddDate(0, 0, -1)
	timeOff := []models.ProviderTimeOff{
		{StartDate: at(monday, 9, 0), EndDate: at(monday, 18, 0)},
	}
	slots, err := ResolveSlots(tuesday, tuesdayWindow(), timeOff, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 16)
}

func TestResolveSlotsBookedAppointmentRemovesSlots(t *testing.T) {
	booked := []models.Appointment{
		{
			ScheduledTime: at(tuesday, 10, 0),
			EndTime:       at(tuesday, 11, 0),
			Status:        models.StatusScheduled,
		},
	}
	slots, err := ResolveSlots(tuesday, tuesdayWindow(), nil, booked)
	require.NoError(t, err)
	require.Len(t, slots, 14)

	for _, s := range slots {
		assert.NotEqual(t, "10:00", s.Start)
		assert.NotEqual(t, "10:30", s.Start)
	}
	// The adjacent slots on both sides survive.
	assert.Contains(t, slots, Slot{Start: "09:30", End: "10:00"})
	assert.Contains(t, slots, Slot{Start: "11:00", End: "11:30"})
}

func TestResolveSlotsCancelledAppointmentDoesNotBlock(t *testing.T) {
	cancelled := []models.Appointment{
		{
			ScheduledTime: at(tuesday, 10, 0),
			EndTime:       at(tuesday, 11, 0),
			Status:        models.StatusCancelled,
		},
	}
	slots, err := ResolveSlots(tuesday, tuesdayWindow(), nil, cancelled)
	require.NoError(t, err)
	assert.Len(t, slots, 16)
}

func TestResolveSlotsPartialWindowRequiresFullFit(t *testing.T) {
	windows := []models.ProviderAvailability{
		{DayOfWeek: models.Tuesday, StartTime: "09:00", EndTime: "09:45", IsAvailable: true},
	}
	slots, err := ResolveSlots(tuesday, windows, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 1, "the trailing 15 minutes cannot hold a slot")
	assert.Equal(t, Slot{Start: "09:00", End: "09:30"}, slots[0])
}

func TestResolveSlotsOverlappingWindowsDedupAndSort(t *testing.T) {
	windows := []models.ProviderAvailability{
		{DayOfWeek: models.Tuesday, StartTime: "13:00", EndTime: "15:00", IsAvailable: true},
		{DayOfWeek: models.Tuesday, StartTime: "14:00", EndTime: "16:00", IsAvailable: true},
	}
	slots, err := ResolveSlots(tuesday, windows, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1].Start, slots[i].Start, "slots must be sorted and unique")
	}
}

func TestResolveSlotsInvalidClockString(t *testing.T) {
	windows := []models.ProviderAvailability{
		{DayOfWeek: models.Tuesday, StartTime: "9am", EndTime: "17:00", IsAvailable: true},
	}
	_, err := ResolveSlots(tuesday, windows, nil, nil)
	assert.Error(t, err)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := at(tuesday, 10, 0)
	b := at(tuesday, 11, 0)
	c := at(tuesday, 12, 0)

	assert.True(t, Overlaps(a, c, b, c))
	assert.False(t, Overlaps(a, b, b, c), "back to back ranges do not overlap")
	assert.False(t, Overlaps(b, c, a, b))
}

func TestWindowContains(t *testing.T) {
	row := models.ProviderAvailability{StartTime: "09:00", EndTime: "17:00"}

	ok, err := WindowContains(row, at(tuesday, 9, 0), at(tuesday, 9, 30))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = WindowContains(row, at(tuesday, 16, 30), at(tuesday, 17, 0))
	require.NoError(t, err)
	assert.True(t, ok, "a booking may end exactly at the window boundary")

	ok, err = WindowContains(row, at(tuesday, 16, 45), at(tuesday, 17, 15))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = WindowContains(row, at(tuesday, 8, 30), at(tuesday, 9, 30))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoversDay(t *testing.T) {
	off := models.ProviderTimeOff{
		StartDate: at(tuesday, 14, 0),
		EndDate:   at(tuesday.AddDate(0, 0, 2), 10, 0),
	}

	assert.True(t, CoversDay(off, tuesday))
	assert.True(t, CoversDay(off, tuesday.AddDate(0, 0, 1)))
	assert.True(t, CoversDay(off, tuesday.AddDate(0, 0, 2)))
	assert.False(t, CoversDay(off, tuesday.AddDate(0, 0, 3)))
	assert.False(t, CoversDay(off, tuesday.AddDate(0, 0, -1)))
}
