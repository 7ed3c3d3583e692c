package models

import (
	"time"

	"gorm.io/gorm"
)

// DayOfWeek follows the scheduling convention 0=Monday .. 6=Sunday.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DayOfWeekOf converts a calendar date to the Monday-based scheduling weekday.
func DayOfWeekOf(t time.Time) DayOfWeek {
	return DayOfWeek((int(t.Weekday()) + 6) % 7)
}

// ProviderAvailability is one recurring weekly window during which a provider
// accepts appointments. A provider may hold several rows per day; a day with
// no available row has zero availability.
type ProviderAvailability struct {
	gorm.Model
	ProviderID  uint      `json:"provider_id"`
	Provider    User      `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	DayOfWeek   DayOfWeek `json:"day_of_week"`
	StartTime   string    `json:"start_time"` // "15:04", 24h
	EndTime     string    `json:"end_time"`   // "15:04", 24h
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
}

// ProviderTimeOff is an absolute datetime range during which a provider
// accepts no appointments, overriding every recurring availability window.
type ProviderTimeOff struct {
	gorm.Model
	ProviderID uint      `json:"provider_id"`
	Provider   User      `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Reason     string    `json:"reason"`
}
