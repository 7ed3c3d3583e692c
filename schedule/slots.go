package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/klararety/telehealth/models"
)

// SlotDuration is the fixed size of a bookable sub-slot.
const SlotDuration = 30 * time.Minute

const clockLayout = "15:04"

// Slot is a candidate bookable window within a single day.
type Slot struct {
	Start string `json:"start"` // "15:04", 24h
	End   string `json:"end"`
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CoversDay reports whether a time-off range touches any part of the
// calendar day. Any intersection blanks the whole day's availability.
func CoversDay(off models.ProviderTimeOff, date time.Time) bool {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return off.StartDate.Before(dayEnd) && !off.EndDate.Before(dayStart)
}

// HoldsSlot reports whether the appointment occupies its provider's time.
func HoldsSlot(a models.Appointment) bool {
	for _, s := range models.ActiveStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// onDate anchors a "15:04" clock string to the given calendar date.
func onDate(clock string, date time.Time) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// WindowContains reports whether [start, end] falls entirely within the
// availability row anchored to start's date. A booking must fit in one row.
func WindowContains(row models.ProviderAvailability, start, end time.Time) (bool, error) {
	winStart, err := onDate(row.StartTime, start)
	if err != nil {
		return false, err
	}
	winEnd, err := onDate(row.EndTime, start)
	if err != nil {
		return false, err
	}
	return !start.Before(winStart) && !end.After(winEnd), nil
}

// ResolveSlots computes the open 30-minute slots for one provider on one
// calendar date. It is a pure function of its inputs: recurring availability
// rows, absolute time-off ranges, and the provider's existing appointments
// for that date.
func ResolveSlots(date time.Time, availability []models.ProviderAvailability,
	timeOff []models.ProviderTimeOff, appointments []models.Appointment) ([]Slot, error) {

	for _, off := range timeOff {
		if CoversDay(off, date) {
			return []Slot{}, nil
		}
	}

	day := models.DayOfWeekOf(date)
	starts := map[string]bool{}
	var candidates []time.Time

	for _, row := range availability {
		if row.DayOfWeek != day || !row.IsAvailable {
			continue
		}
		cur, err := onDate(row.StartTime, date)
		if err != nil {
			return nil, err
		}
		end, err := onDate(row.EndTime, date)
		if err != nil {
			return nil, err
		}
		// A slot is included only when the full 30 minutes fit.
		for !cur.Add(SlotDuration).After(end) {
			key := cur.Format(clockLayout)
			if !starts[key] {
				starts[key] = true
				candidates = append(candidates, cur)
			}
			cur = cur.Add(SlotDuration)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	slots := make([]Slot, 0, len(candidates))
	for _, start := range candidates {
		end := start.Add(SlotDuration)
		conflict := false
		for _, appt := range appointments {
			if HoldsSlot(appt) && Overlaps(appt.ScheduledTime, appt.EndTime, start, end) {
				conflict = true
				break
			}
		}
		if !conflict {
			slots = append(slots, Slot{
				Start: start.Format(clockLayout),
				End:   end.Format(clockLayout),
			})
		}
	}

	return slots, nil
}
