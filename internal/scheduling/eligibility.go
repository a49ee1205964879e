package scheduling

import "time"

// Eligibility is the single predicate behind both the rendered state of a
// date and whether it may be toggled or saved.
type Eligibility struct {
	Weekdays WeekdaySet
	Holidays HolidaySet
	Location *time.Location
}

// IsEligible reports whether day is today or later, falls on an allowed
// weekday, and is not a holiday. Both arguments are compared as calendar
// dates in the shop's location.
func (e Eligibility) IsEligible(day, now time.Time) bool {
	d := startOfDay(day, e.Location)
	if d.Before(startOfDay(now, e.Location)) {
		return false
	}
	if !e.Weekdays[d.Weekday()] {
		return false
	}
	if _, holiday := e.Holidays.Label(d); holiday {
		return false
	}
	return true
}

type DayState string

const (
	DayPast              DayState = "past"
	DayHoliday           DayState = "holiday"
	DayIneligibleWeekday DayState = "ineligible_weekday"
	DayOpen              DayState = "open"
	DaySelectable        DayState = "selectable"
)

// Interactive is true only for states a user can toggle.
func (s DayState) Interactive() bool {
	return s == DayOpen || s == DaySelectable
}

// ClassifyDay maps a date to its display state. open says whether the date
// already has slots (availability) or a qualifying host (shifts).
func ClassifyDay(day, now time.Time, e Eligibility, open bool) DayState {
	if !e.IsEligible(day, now) {
		d := startOfDay(day, e.Location)
		switch {
		case d.Before(startOfDay(now, e.Location)):
			return DayPast
		case isHoliday(e, d):
			return DayHoliday
		default:
			return DayIneligibleWeekday
		}
	}
	if open {
		return DayOpen
	}
	return DaySelectable
}

func isHoliday(e Eligibility, d time.Time) bool {
	_, ok := e.Holidays.Label(d)
	return ok
}
