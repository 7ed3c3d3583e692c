package schedule

import (
	"time"

	"github.com/klararety/telehealth/models"
)

// RangeAvailable decides whether [start, end] can be booked for a provider
// given their schedule state: the range must fit entirely within a single
// availability window for start's weekday, intersect no time-off range, and
// overlap no active appointment other than excludeID (the appointment's own
// slot during a reschedule; zero means no exclusion).
func RangeAvailable(start, end time.Time, windows []models.ProviderAvailability,
	timeOff []models.ProviderTimeOff, booked []models.Appointment, excludeID uint) (bool, error) {

	day := models.DayOfWeekOf(start)

	withinWindow := false
	for _, w := range windows {
		if w.DayOfWeek != day || !w.IsAvailable {
			continue
		}
		ok, err := WindowContains(w, start, end)
		if err != nil {
			return false, err
		}
		if ok {
			withinWindow = true
			break
		}
	}
	if !withinWindow {
		return false, nil
	}

	for _, off := range timeOff {
		if off.StartDate.Before(end) && !off.EndDate.Before(start) {
			return false, nil
		}
	}

	for _, a := range booked {
		if a.ID == excludeID || !HoldsSlot(a) {
			continue
		}
		if Overlaps(a.ScheduledTime, a.EndTime, start, end) {
			return false, nil
		}
	}

	return true, nil
}
