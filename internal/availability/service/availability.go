package service

import (
	"context"
	"time"

	availabilityerrors "bkhost/internal/availability/errors"
	"bkhost/internal/availability/repository"
	"bkhost/internal/scheduling"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/events"
	"bkhost/pkg/logger"
	"bkhost/pkg/metrics"
	"bkhost/pkg/model"
)

// AppointmentCounter is the slice of the appointment store needed to decide
// whether closing a date would strand bookings.
type AppointmentCounter interface {
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// ConfirmFunc is asked once per date that still has appointments. Returning
// false declines closing that date.
type ConfirmFunc func(date string, appointments int64) bool

type DayView struct {
	Date        string              `json:"date"`
	InMonth     bool                `json:"in_month"`
	State       scheduling.DayState `json:"state"`
	Interactive bool                `json:"interactive"`
	Holiday     string              `json:"holiday,omitempty"`
	Slots       int                 `json:"slots"`
	Booked      int                 `json:"booked"`
}

type MonthView struct {
	Month string      `json:"month"`
	Weeks [][]DayView `json:"weeks"`
}

type SlotView struct {
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
	Booked    bool      `json:"booked"`
}

type DaySlotsView struct {
	Date  string     `json:"date"`
	Open  bool       `json:"open"`
	Slots []SlotView `json:"slots"`
}

const (
	ChangeOpened = "opened"
	ChangeClosed = "closed"
)

type DateChange struct {
	Date         string `json:"date"`
	Action       string `json:"action"`
	Slots        int64  `json:"slots"`
	Appointments int64  `json:"appointments,omitempty"`
}

type SaveResult struct {
	Changes []DateChange `json:"changes"`
}

type AvailabilityService interface {
	Month(ctx context.Context, month, now time.Time) (*MonthView, error)
	DaySlots(ctx context.Context, day time.Time) (*DaySlotsView, error)
	Save(ctx context.Context, identity model.Identity, dates []time.Time, now time.Time, confirm ConfirmFunc) (*SaveResult, error)
}

type availabilityService struct {
	slots        repository.SlotRepository
	appointments AppointmentCounter
	calendar     *scheduling.Calendar
	publisher    events.Publisher
	log          *logger.Logger
}

func NewAvailabilityService(
	slots repository.SlotRepository,
	appointments AppointmentCounter,
	calendar *scheduling.Calendar,
	publisher events.Publisher,
	log *logger.Logger,
) AvailabilityService {
	return &availabilityService{
		slots:        slots,
		appointments: appointments,
		calendar:     calendar,
		publisher:    publisher,
		log:          log,
	}
}

func (s *availabilityService) Month(ctx context.Context, month, now time.Time) (*MonthView, error) {
	grid := s.calendar.MonthGrid(month)
	first := grid[0][0].Date
	last := grid[len(grid)-1][6].Date
	_, end := s.calendar.DayBounds(last)

	slots, err := s.slots.FindBetween(ctx, first, end)
	if err != nil {
		s.log.Error("Failed to load slots for month", "month", month.Format("2006-01"), "error", err)
		return nil, apperrors.Internal("Failed to load availability", err)
	}

	total := make(map[string]int)
	booked := make(map[string]int)
	for _, slot := range slots {
		key := s.calendar.DateKey(slot.Timestamp)
		total[key]++
		if slot.Booked {
			booked[key]++
		}
	}

	eligibility := s.calendar.BookingEligibility()
	view := &MonthView{Month: month.In(s.calendar.Location).Format("2006-01")}
	for _, week := range grid {
		row := make([]DayView, 0, len(week))
		for _, cell := range week {
			key := s.calendar.DateKey(cell.Date)
			state := scheduling.ClassifyDay(cell.Date, now, eligibility, total[key] > 0)
			label, _ := s.calendar.Holidays.Label(cell.Date)
			row = append(row, DayView{
				Date:        key,
				InMonth:     cell.InMonth,
				State:       state,
				Interactive: state.Interactive(),
				Holiday:     label,
				Slots:       total[key],
				Booked:      booked[key],
			})
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view, nil
}

func (s *availabilityService) DaySlots(ctx context.Context, day time.Time) (*DaySlotsView, error) {
	from, to := s.calendar.DayBounds(day)
	slots, err := s.slots.FindBetween(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to load slots for day", "date", s.calendar.DateKey(day), "error", err)
		return nil, apperrors.Internal("Failed to load slots", err)
	}

	view := &DaySlotsView{Date: s.calendar.DateKey(day), Open: len(slots) > 0, Slots: make([]SlotView, 0, len(slots))}
	for _, slot := range slots {
		at := slot.Timestamp.In(s.calendar.Location)
		view.Slots = append(view.Slots, SlotView{
			Time:      at.Format(scheduling.SlotLabelLayout),
			Timestamp: at,
			Booked:    slot.Booked,
		})
	}
	return view, nil
}

type pendingDate struct {
	day          time.Time
	key          string
	open         bool
	appointments int64
}

// Save toggles every date in dates: open dates are closed and closed dates
// are opened. All confirmations are collected before the first write; after
// that, dates are applied one at a time in request order and the first
// failure stops the run without undoing earlier dates.
func (s *availabilityService) Save(ctx context.Context, identity model.Identity, dates []time.Time, now time.Time, confirm ConfirmFunc) (*SaveResult, error) {
	selection := scheduling.NewSelection(s.calendar.BookingEligibility())
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		key := s.calendar.DateKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := selection.Toggle(d, now); err != nil {
			return nil, apperrors.Validation("Date cannot be changed", map[string]any{
				"date":  key,
				"error": err.Error(),
			})
		}
	}
	if selection.Len() == 0 {
		return nil, apperrors.InvalidInput("No dates selected")
	}

	pending := make([]pendingDate, 0, selection.Len())
	declined := make(map[string]any)
	for _, d := range selection.Dates() {
		from, to := s.calendar.DayBounds(d)
		p := pendingDate{day: d, key: s.calendar.DateKey(d)}

		count, err := s.slots.CountBetween(ctx, from, to)
		if err != nil {
			s.log.Error("Failed to check slots", "date", p.key, "error", err)
			return nil, apperrors.Internal("Failed to check availability", err)
		}
		p.open = count > 0

		if p.open {
			p.appointments, err = s.appointments.CountBetween(ctx, from, to)
			if err != nil {
				s.log.Error("Failed to count appointments", "date", p.key, "error", err)
				return nil, apperrors.Internal("Failed to check appointments", err)
			}
			if p.appointments > 0 && (confirm == nil || !confirm(p.key, p.appointments)) {
				declined[p.key] = p.appointments
			}
		}
		pending = append(pending, p)
	}

	if len(declined) > 0 {
		s.log.Info("Closing dates with appointments needs confirmation", "uid", identity.UID, "dates", declined)
		err := apperrors.ConfirmationRequired("Some dates still have appointments. Confirm to close them anyway.", declined)
		err.Err = availabilityerrors.ErrConfirmationDeclined
		return nil, err
	}

	result := &SaveResult{Changes: make([]DateChange, 0, len(pending))}
	for _, p := range pending {
		change, err := s.apply(ctx, p)
		if err != nil {
			s.log.Error("Failed to save availability",
				"date", p.key,
				"applied", len(result.Changes),
				"remaining", len(pending)-len(result.Changes)-1,
				"error", err,
			)
			return result, apperrors.Internal("Failed to save availability for "+p.key, err)
		}
		result.Changes = append(result.Changes, change)
		s.publish(ctx, identity, change)
	}

	s.log.Info("Availability saved", "uid", identity.UID, "dates", len(result.Changes))
	return result, nil
}

func (s *availabilityService) apply(ctx context.Context, p pendingDate) (DateChange, error) {
	if p.open {
		from, to := s.calendar.DayBounds(p.day)
		deleted, err := s.slots.DeleteBetween(ctx, from, to)
		if err != nil {
			return DateChange{}, err
		}
		return DateChange{Date: p.key, Action: ChangeClosed, Slots: deleted, Appointments: p.appointments}, nil
	}

	slots, _ := s.calendar.GenerateSlots(p.day)
	inserted, err := s.slots.InsertMany(ctx, slots)
	if err != nil {
		return DateChange{}, err
	}
	metrics.SlotsGenerated.Add(float64(inserted))
	return DateChange{Date: p.key, Action: ChangeOpened, Slots: int64(inserted)}, nil
}

func (s *availabilityService) publish(ctx context.Context, identity model.Identity, change DateChange) {
	eventType := events.AvailabilityDateOpened
	if change.Action == ChangeClosed {
		eventType = events.AvailabilityDateClosed
	}
	s.publisher.Publish(ctx, events.Event{
		Type:  eventType,
		Key:   change.Date,
		Actor: identity.Email,
		Data:  change,
	})
}
