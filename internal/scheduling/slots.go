package scheduling

import (
	"time"

	"bkhost/pkg/model"
)

const SlotLabelLayout = "15:04"

// GenerateSlots expands day into its unbooked slots and their labels. A
// weekday without booking hours yields nothing.
func (c *Calendar) GenerateSlots(day time.Time) ([]model.AvailableSlot, []string) {
	d := c.StartOfDay(day)
	hr, ok := c.BookingHours[d.Weekday()]
	if !ok {
		return nil, nil
	}

	step := int(c.SlotLength / time.Minute)
	y, m, dd := d.Date()

	var (
		slots  []model.AvailableSlot
		labels []string
	)
	for minute := hr.StartMinute; minute+step <= hr.EndMinute; minute += step {
		at := time.Date(y, m, dd, 0, minute, 0, 0, c.Location)
		if at.Hour()*60+at.Minute() != minute {
			continue // wall-clock time skipped by a DST jump
		}
		slots = append(slots, model.AvailableSlot{Timestamp: at, Booked: false})
		labels = append(labels, at.Format(SlotLabelLayout))
	}
	return slots, labels
}

// ReclaimWindow is the half-open interval [start, start+minutes) whose slots
// an appointment occupied. Appointments without an estimate reclaim one slot.
func (c *Calendar) ReclaimWindow(start time.Time, minutes int) (time.Time, time.Time) {
	length := time.Duration(minutes) * time.Minute
	if minutes <= 0 {
		length = c.SlotLength
	}
	return start, start.Add(length)
}
