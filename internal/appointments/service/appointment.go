package service

import (
	"context"
	"errors"
	"sort"
	"time"

	appointmenterrors "bkhost/internal/appointments/errors"
	"bkhost/internal/appointments/repository"
	outbox "bkhost/internal/outbox/service"
	"bkhost/internal/scheduling"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/events"
	"bkhost/pkg/locale"
	"bkhost/pkg/logger"
	"bkhost/pkg/metrics"
	"bkhost/pkg/model"
	"bkhost/pkg/sanitizer"
)

// Notifier enqueues customer emails.
type Notifier interface {
	SendThankYou(ctx context.Context, a model.Appointment) error
	SendCancellation(ctx context.Context, a model.Appointment) error
}

type SlotReleaser interface {
	ReleaseBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type WalkInLister interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]model.WalkIn, error)
}

type AppointmentView struct {
	model.Appointment
	Time        string              `json:"time"`
	Regime      scheduling.Regime   `json:"regime"`
	Status      scheduling.Status   `json:"status"`
	StatusLabel string              `json:"status_label"`
	Actions     []scheduling.Action `json:"actions"`
}

type Dashboard struct {
	Date         string            `json:"date"`
	Appointments []AppointmentView `json:"appointments"`
	WalkIns      []model.WalkIn    `json:"walk_ins"`
	RepairCount  int               `json:"repair_count"`
}

type AppointmentService interface {
	Day(ctx context.Context, day time.Time) (*Dashboard, error)
	GetByID(ctx context.Context, id string) (*AppointmentView, error)
	Transition(ctx context.Context, identity model.Identity, id string, action scheduling.Action) (*AppointmentView, error)
	Delete(ctx context.Context, identity model.Identity, id string, confirmed bool) error
}

type appointmentService struct {
	repo     repository.AppointmentRepository
	slots    SlotReleaser
	walkIns  WalkInLister
	notifier Notifier
	calendar *scheduling.Calendar
	events   events.Publisher
	log      *logger.Logger
	region   string
	now      func() time.Time
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	slots SlotReleaser,
	walkIns WalkInLister,
	notifier Notifier,
	calendar *scheduling.Calendar,
	publisher events.Publisher,
	log *logger.Logger,
) AppointmentService {
	return &appointmentService{
		repo:     repo,
		slots:    slots,
		walkIns:  walkIns,
		notifier: notifier,
		calendar: calendar,
		events:   publisher,
		log:      log,
		region:   locale.RegionForLocation(calendar.Location),
		now:      time.Now,
	}
}

func (s *appointmentService) view(a model.Appointment) AppointmentView {
	a.UserInfo = sanitizer.SanitizeContact(a.UserInfo, s.region)
	return AppointmentView{
		Appointment: a,
		Time:        a.Timestamp.In(s.calendar.Location).Format(scheduling.SlotLabelLayout),
		Regime:      s.calendar.Classify(a),
		Status:      s.calendar.Status(a),
		StatusLabel: s.calendar.StatusLabel(a),
		Actions:     s.calendar.Actions(a),
	}
}

func (s *appointmentService) Day(ctx context.Context, day time.Time) (*Dashboard, error) {
	from, to := s.calendar.DayBounds(day)

	appointments, err := s.repo.FindBetween(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to load appointments", "date", s.calendar.DateKey(day), "error", err)
		return nil, apperrors.Internal("Failed to load appointments", err)
	}
	walkIns, err := s.walkIns.ListBetween(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to load walk-ins", "date", s.calendar.DateKey(day), "error", err)
		return nil, apperrors.Internal("Failed to load walk-ins", err)
	}

	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].Timestamp.Before(appointments[j].Timestamp)
	})

	dashboard := &Dashboard{
		Date:         s.calendar.DateKey(day),
		Appointments: make([]AppointmentView, 0, len(appointments)),
		WalkIns:      walkIns,
		RepairCount:  len(walkIns),
	}
	if dashboard.WalkIns == nil {
		dashboard.WalkIns = []model.WalkIn{}
	}
	for _, a := range appointments {
		v := s.view(a)
		if v.Status == scheduling.StatusCompleted || v.Status == scheduling.StatusPaid {
			dashboard.RepairCount++
		}
		dashboard.Appointments = append(dashboard.Appointments, v)
	}
	return dashboard, nil
}

func (s *appointmentService) find(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appointmenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		s.log.Error("Failed to get appointment by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}
	return a, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id string) (*AppointmentView, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*a)
	return &v, nil
}

func statusFields(regime scheduling.Regime, a model.Appointment) map[string]any {
	if regime == scheduling.RegimeLegacy {
		return map[string]any{
			"completed": a.Completed,
			"no_show":   a.NoShow,
			"no_cure":   a.NoCure,
		}
	}
	return map[string]any{"paid": a.Paid}
}

func (s *appointmentService) Transition(ctx context.Context, identity model.Identity, id string, action scheduling.Action) (*AppointmentView, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.calendar.Transition(*a, action)
	if err != nil {
		s.log.Warn("Appointment transition rejected",
			"id", id,
			"action", action,
			"regime", result.Regime,
			"status", result.From,
			"uid", identity.UID,
		)
		switch {
		case errors.Is(err, scheduling.ErrLegacyReadOnly):
			return nil, apperrors.Forbidden("Appointments from before the cutover are read-only")
		case errors.Is(err, scheduling.ErrActionNotAllowed):
			return nil, apperrors.Conflict("Action " + string(action) + " is not allowed while the appointment is " + string(result.From))
		}
		return nil, apperrors.InvalidInput(err.Error())
	}

	if !result.Changed {
		v := s.view(*a)
		return &v, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, statusFields(result.Regime, result.Appointment)); err != nil {
		if errors.Is(err, appointmenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		s.log.Error("Failed to update appointment status", "id", id, "action", action, "error", err)
		return nil, apperrors.Internal("Failed to update appointment", err)
	}

	s.log.Info("Appointment status changed",
		"id", id,
		"from", result.From,
		"to", result.To,
		"uid", identity.UID,
	)

	eventType := events.AppointmentStatusChanged
	if result.Regime == scheduling.RegimeCurrent {
		eventType = events.AppointmentPaymentChanged
	}
	s.events.Publish(ctx, events.Event{
		Type:  eventType,
		Key:   id,
		Actor: identity.Email,
		Data:  map[string]any{"from": result.From, "to": result.To, "action": action},
	})

	if result.SendThankYou {
		err := s.notifier.SendThankYou(ctx, result.Appointment)
		if errors.Is(err, outbox.ErrNoRecipient) {
			s.log.Warn("Skipping thank-you email, no recipient", "id", id)
		} else if err != nil {
			s.log.Error("Failed to enqueue thank-you email", "id", id, "error", err)
			return nil, apperrors.Internal("Payment was saved but the thank-you email could not be queued", err)
		}
	}

	v := s.view(result.Appointment)
	return &v, nil
}

// Delete archives, releases the reserved slots, removes the appointment and
// tells the customer, in that order. A failing step stops the ones after it;
// earlier steps are not undone.
func (s *appointmentService) Delete(ctx context.Context, identity model.Identity, id string, confirmed bool) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !confirmed {
		return apperrors.ConfirmationRequired("Deleting an appointment cannot be undone. Confirm to continue.", map[string]any{
			"id":   id,
			"date": s.calendar.DateKey(a.Timestamp),
			"time": a.Timestamp.In(s.calendar.Location).Format(scheduling.SlotLabelLayout),
		})
	}

	archived := &model.DeletedAppointment{
		AppointmentID: id,
		Appointment:   *a,
		DeletedAt:     s.now().UTC().Truncate(time.Millisecond),
		DeletedBy:     identity.Email,
	}
	if err := s.repo.InsertDeleted(ctx, archived); err != nil {
		s.log.Error("Failed to archive appointment", "id", id, "step", "archive", "error", err)
		return apperrors.Internal("Failed to archive appointment", err)
	}

	from, to := s.calendar.ReclaimWindow(a.Timestamp, a.EstimatedTime)
	released, err := s.slots.ReleaseBetween(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to release slots", "id", id, "step", "release", "error", err)
		return apperrors.Internal("Failed to release appointment slots", err)
	}
	metrics.SlotsReleased.Add(float64(released))

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmenterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Appointment", id)
		}
		s.log.Error("Failed to delete appointment", "id", id, "step", "delete", "error", err)
		return apperrors.Internal("Failed to delete appointment", err)
	}

	err = s.notifier.SendCancellation(ctx, *a)
	if errors.Is(err, outbox.ErrNoRecipient) {
		s.log.Warn("Skipping cancellation email, no recipient", "id", id)
	} else if err != nil {
		s.log.Error("Failed to enqueue cancellation email", "id", id, "step", "notify", "error", err)
		return apperrors.Internal("Appointment was deleted but the cancellation email could not be queued", err)
	}

	s.log.Info("Appointment deleted",
		"id", id,
		"released_slots", released,
		"uid", identity.UID,
	)
	s.events.Publish(ctx, events.Event{
		Type:  events.AppointmentDeleted,
		Key:   id,
		Actor: identity.Email,
		Data:  map[string]any{"date": s.calendar.DateKey(a.Timestamp), "released_slots": released},
	})
	return nil
}
