package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// CalendarSettings is the on-disk shape of the shop calendar file.
//
//	timezone = "Europe/Amsterdam"
//	slot_minutes = 30
//	cutover = 2025-03-01T00:00:00+01:00
//	shift_weekdays = ["monday", "wednesday", "thursday"]
//
//	[booking_hours.monday]
//	start = "14:00"
//	end = "18:00"
//
//	[[holidays]]
//	date = "2025-04-21"
//	label = "Easter Monday"
type CalendarSettings struct {
	Timezone       string               `toml:"timezone"`
	SlotMinutes    int                  `toml:"slot_minutes"`
	Cutover        time.Time            `toml:"cutover"`
	LegacyReadOnly bool                 `toml:"legacy_read_only"`
	BookingHours   map[string]HourRange `toml:"booking_hours"`
	ShiftWeekdays  []string             `toml:"shift_weekdays"`
	Holidays       []HolidaySetting     `toml:"holidays"`
}

type HourRange struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

type HolidaySetting struct {
	Date  string `toml:"date"`
	Label string `toml:"label"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a case-insensitive English weekday name.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

// LoadCalendarFile decodes a calendar file on top of the defaults, so a file
// only needs to carry the keys that differ.
func LoadCalendarFile(path string) (CalendarSettings, error) {
	settings := DefaultCalendar()
	if path == "" {
		return settings, nil
	}

	var file CalendarSettings
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return CalendarSettings{}, fmt.Errorf("failed to decode calendar file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return CalendarSettings{}, fmt.Errorf("calendar file %s has unknown keys: %v", path, undecoded)
	}

	if meta.IsDefined("timezone") {
		settings.Timezone = file.Timezone
	}
	if meta.IsDefined("slot_minutes") {
		settings.SlotMinutes = file.SlotMinutes
	}
	if meta.IsDefined("cutover") {
		settings.Cutover = file.Cutover
	}
	if meta.IsDefined("legacy_read_only") {
		settings.LegacyReadOnly = file.LegacyReadOnly
	}
	if meta.IsDefined("booking_hours") {
		settings.BookingHours = file.BookingHours
	}
	if meta.IsDefined("shift_weekdays") {
		settings.ShiftWeekdays = file.ShiftWeekdays
	}
	if meta.IsDefined("holidays") {
		settings.Holidays = file.Holidays
	}
	return settings, nil
}

func (c CalendarSettings) validate() []string {
	var errors []string

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("Calendar timezone is not a valid IANA zone: %s", c.Timezone))
	}
	if c.SlotMinutes <= 0 || c.SlotMinutes > 240 {
		errors = append(errors, fmt.Sprintf("Calendar slot_minutes must be between 1 and 240, got: %d", c.SlotMinutes))
	}
	if c.Cutover.IsZero() {
		errors = append(errors, "Calendar cutover instant must be set")
	}

	for day, hr := range c.BookingHours {
		if _, ok := ParseWeekday(day); !ok {
			errors = append(errors, fmt.Sprintf("Calendar booking_hours has unknown weekday: %s", day))
		}
		if !hhmmRegex.MatchString(hr.Start) || !hhmmRegex.MatchString(hr.End) {
			errors = append(errors, fmt.Sprintf("Calendar booking_hours.%s must use HH:MM, got: %s-%s", day, hr.Start, hr.End))
			continue
		}
		if hr.End <= hr.Start {
			errors = append(errors, fmt.Sprintf("Calendar booking_hours.%s end must be after start, got: %s-%s", day, hr.Start, hr.End))
		}
	}

	for _, day := range c.ShiftWeekdays {
		if _, ok := ParseWeekday(day); !ok {
			errors = append(errors, fmt.Sprintf("Calendar shift_weekdays has unknown weekday: %s", day))
		}
	}

	for _, h := range c.Holidays {
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			errors = append(errors, fmt.Sprintf("Calendar holiday date must be YYYY-MM-DD, got: %s", h.Date))
		}
	}

	return errors
}
