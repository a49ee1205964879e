// Package scheduling holds the shop's calendar rules: which dates can be
// booked or staffed, how an open date expands into slots, and how an
// appointment moves between statuses. Nothing here performs I/O.
package scheduling

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"bkhost/pkg/config"
)

const DateLayout = "2006-01-02"

// HourRange is a same-day interval in minutes after midnight.
type HourRange struct {
	StartMinute int
	EndMinute   int
}

type WeekdaySet map[time.Weekday]bool

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

// Sorted returns the weekdays Sunday first.
func (s WeekdaySet) Sorted() []time.Weekday {
	out := make([]time.Weekday, 0, len(s))
	for d, ok := range s {
		if ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HolidaySet maps YYYY-MM-DD keys to an optional display label.
type HolidaySet map[string]string

func (h HolidaySet) Label(day time.Time) (string, bool) {
	label, ok := h[day.Format(DateLayout)]
	return label, ok
}

type Calendar struct {
	Location       *time.Location
	SlotLength     time.Duration
	BookingHours   map[time.Weekday]HourRange
	ShiftDays      WeekdaySet
	Holidays       HolidaySet
	Cutover        time.Time
	LegacyReadOnly bool
}

func NewCalendar(s config.CalendarSettings) (*Calendar, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", s.Timezone, err)
	}
	if s.SlotMinutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", s.SlotMinutes)
	}

	cal := &Calendar{
		Location:       loc,
		SlotLength:     time.Duration(s.SlotMinutes) * time.Minute,
		BookingHours:   make(map[time.Weekday]HourRange, len(s.BookingHours)),
		ShiftDays:      make(WeekdaySet, len(s.ShiftWeekdays)),
		Holidays:       make(HolidaySet, len(s.Holidays)),
		Cutover:        s.Cutover,
		LegacyReadOnly: s.LegacyReadOnly,
	}

	for name, hr := range s.BookingHours {
		wd, ok := config.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("unknown booking weekday %q", name)
		}
		start, err := parseClock(hr.Start)
		if err != nil {
			return nil, fmt.Errorf("booking hours for %s: %w", name, err)
		}
		end, err := parseClock(hr.End)
		if err != nil {
			return nil, fmt.Errorf("booking hours for %s: %w", name, err)
		}
		if end <= start {
			return nil, fmt.Errorf("booking hours for %s end before they start", name)
		}
		cal.BookingHours[wd] = HourRange{StartMinute: start, EndMinute: end}
	}

	for _, name := range s.ShiftWeekdays {
		wd, ok := config.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("unknown shift weekday %q", name)
		}
		cal.ShiftDays[wd] = true
	}

	for _, h := range s.Holidays {
		day, err := time.ParseInLocation(DateLayout, h.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", h.Date, err)
		}
		cal.Holidays[day.Format(DateLayout)] = h.Label
	}

	return cal, nil
}

func parseClock(hhmm string) (int, error) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, fmt.Errorf("time %q must be HH:MM", hhmm)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", hhmm)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q has invalid minutes", hhmm)
	}
	return hours*60 + minutes, nil
}

// StartOfDay returns midnight of t's calendar date in the shop's location.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	return startOfDay(t, c.Location)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayBounds returns the half-open interval covering day.
func (c *Calendar) DayBounds(day time.Time) (time.Time, time.Time) {
	from := c.StartOfDay(day)
	y, m, d := from.Date()
	return from, time.Date(y, m, d+1, 0, 0, 0, 0, c.Location)
}

func (c *Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, c.Location)
}

func (c *Calendar) DateKey(t time.Time) string {
	return t.In(c.Location).Format(DateLayout)
}

func (c *Calendar) BookingEligibility() Eligibility {
	days := make(WeekdaySet, len(c.BookingHours))
	for wd := range c.BookingHours {
		days[wd] = true
	}
	return Eligibility{Weekdays: days, Holidays: c.Holidays, Location: c.Location}
}

func (c *Calendar) ShiftEligibility() Eligibility {
	return Eligibility{Weekdays: c.ShiftDays, Holidays: c.Holidays, Location: c.Location}
}

type GridCell struct {
	Date    time.Time
	InMonth bool
}

// MonthGrid lays out the month containing month as full Sunday-first weeks,
// padding with days from the neighbouring months.
func (c *Calendar) MonthGrid(month time.Time) [][]GridCell {
	month = month.In(c.Location)
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, c.Location)
	last := time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, c.Location)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var weeks [][]GridCell
	for day := start; !day.After(end); {
		week := make([]GridCell, 0, 7)
		for i := 0; i < 7; i++ {
			week = append(week, GridCell{Date: day, InMonth: day.Month() == first.Month()})
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
