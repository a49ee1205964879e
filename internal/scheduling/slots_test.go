package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots_Monday(t *testing.T) {
	cal := newTestCalendar(t)

	slots, labels := cal.GenerateSlots(day(t, cal, "2025-06-02"))

	assert.Equal(t, []string{"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30"}, labels)
	require.Len(t, slots, 8)
	for i, s := range slots {
		assert.False(t, s.Booked)
		assert.Equal(t, labels[i], s.Timestamp.In(cal.Location).Format(SlotLabelLayout))
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	cal := newTestCalendar(t)
	d := day(t, cal, "2025-06-04")

	first, firstLabels := cal.GenerateSlots(d)
	second, secondLabels := cal.GenerateSlots(d)

	assert.Equal(t, first, second)
	assert.Equal(t, firstLabels, secondLabels)
	assert.Equal(t, "12:00", firstLabels[0])
	assert.Equal(t, "15:30", firstLabels[len(firstLabels)-1])
}

func TestGenerateSlots_NoHours(t *testing.T) {
	cal := newTestCalendar(t)

	slots, labels := cal.GenerateSlots(day(t, cal, "2025-06-03"))
	assert.Empty(t, slots)
	assert.Empty(t, labels)
}

func TestGenerateSlots_DSTDay(t *testing.T) {
	cal := newTestCalendar(t)
	cal.BookingHours[time.Sunday] = HourRange{StartMinute: 60, EndMinute: 4 * 60}

	// Clocks jump from 02:00 to 03:00 on 30 March 2025 in Amsterdam.
	_, labels := cal.GenerateSlots(day(t, cal, "2025-03-30"))
	assert.Equal(t, []string{"01:00", "01:30", "03:00", "03:30"}, labels)
}

func TestReclaimWindow(t *testing.T) {
	cal := newTestCalendar(t)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, cal.Location)

	from, to := cal.ReclaimWindow(start, 60)
	assert.Equal(t, start, from)
	assert.Equal(t, start.Add(time.Hour), to)

	slots, _ := cal.GenerateSlots(start)
	var inWindow []string
	for _, s := range slots {
		if !s.Timestamp.Before(from) && s.Timestamp.Before(to) {
			inWindow = append(inWindow, s.Timestamp.Format(SlotLabelLayout))
		}
	}
	assert.Equal(t, []string{"14:00", "14:30"}, inWindow)

	_, to = cal.ReclaimWindow(start, 0)
	assert.Equal(t, start.Add(cal.SlotLength), to)
}

func TestDayBounds(t *testing.T) {
	cal := newTestCalendar(t)
	from, to := cal.DayBounds(time.Date(2025, 6, 2, 15, 45, 0, 0, cal.Location))

	assert.Equal(t, "2025-06-02T00:00:00+02:00", from.Format(time.RFC3339))
	assert.Equal(t, "2025-06-03T00:00:00+02:00", to.Format(time.RFC3339))
}
