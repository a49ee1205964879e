package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bkhost/internal/scheduling"
	shifterrors "bkhost/internal/shifts/errors"
	"bkhost/internal/shifts/repository"
	apperrors "bkhost/pkg/errors"
	"bkhost/pkg/events"
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
)

// ProfileDirectory looks up staff profiles so host entries can be shown
// with names and roles.
type ProfileDirectory interface {
	FindByEmails(ctx context.Context, emails []string) ([]model.UserProfile, error)
}

type HostView struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

type DayView struct {
	Date          string              `json:"date"`
	InMonth       bool                `json:"in_month"`
	State         scheduling.DayState `json:"state"`
	Interactive   bool                `json:"interactive"`
	Holiday       string              `json:"holiday,omitempty"`
	Hosts         []HostView          `json:"hosts"`
	IsUserHost    bool                `json:"is_user_host"`
	NeedsMechanic bool                `json:"needs_mechanic"`
}

type MonthView struct {
	Month string      `json:"month"`
	Weeks [][]DayView `json:"weeks"`
}

const (
	HostAdded   = "added"
	HostRemoved = "removed"
)

type HostChange struct {
	Date   string `json:"date"`
	Host   string `json:"host"`
	Action string `json:"action"`
}

type SaveResult struct {
	Changes []HostChange `json:"changes"`
	Skipped []string     `json:"skipped,omitempty"`
}

type SeedResult struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

type ShiftService interface {
	Month(ctx context.Context, identity model.Identity, month, now time.Time) (*MonthView, error)
	Save(ctx context.Context, identity model.Identity, add, remove []time.Time, now time.Time) (*SaveResult, error)
	Seed(ctx context.Context, from, to time.Time) (*SeedResult, error)
}

type shiftService struct {
	shifts    repository.ShiftRepository
	profiles  ProfileDirectory
	calendar  *scheduling.Calendar
	publisher events.Publisher
	log       *logger.Logger
}

func NewShiftService(
	shifts repository.ShiftRepository,
	profiles ProfileDirectory,
	calendar *scheduling.Calendar,
	publisher events.Publisher,
	log *logger.Logger,
) ShiftService {
	return &shiftService{
		shifts:    shifts,
		profiles:  profiles,
		calendar:  calendar,
		publisher: publisher,
		log:       log,
	}
}

// HostKey is the identifier stored in Shift.Hosts for a staff member.
func HostKey(identity model.Identity) string {
	return strings.ToLower(strings.TrimSpace(identity.Email))
}

func (s *shiftService) Month(ctx context.Context, identity model.Identity, month, now time.Time) (*MonthView, error) {
	grid := s.calendar.MonthGrid(month)
	first := grid[0][0].Date
	last := grid[len(grid)-1][6].Date

	shifts, err := s.shifts.FindBetween(ctx, s.calendar.DateKey(first), s.calendar.DateKey(last.AddDate(0, 0, 1)))
	if err != nil {
		s.log.Error("Failed to load shifts for month", "month", month.Format("2006-01"), "error", err)
		return nil, apperrors.Internal("Failed to load shifts", err)
	}

	hostsByDate := make(map[string][]string, len(shifts))
	var emails []string
	seen := make(map[string]bool)
	for _, shift := range shifts {
		hostsByDate[shift.Date] = shift.Hosts
		for _, h := range shift.Hosts {
			key := strings.ToLower(strings.TrimSpace(h))
			if !seen[key] {
				seen[key] = true
				emails = append(emails, key)
			}
		}
	}

	profiles := make(map[string]model.UserProfile)
	if len(emails) > 0 {
		found, err := s.profiles.FindByEmails(ctx, emails)
		if err != nil {
			s.log.Error("Failed to load host profiles", "hosts", len(emails), "error", err)
			return nil, apperrors.Internal("Failed to load shifts", err)
		}
		for _, p := range found {
			profiles[strings.ToLower(p.Email)] = p
		}
	}
	roles := make(map[string]string, len(profiles))
	for key, p := range profiles {
		roles[key] = p.Role
	}

	me := HostKey(identity)
	eligibility := s.calendar.ShiftEligibility()
	view := &MonthView{Month: month.In(s.calendar.Location).Format("2006-01")}
	for _, week := range grid {
		row := make([]DayView, 0, len(week))
		for _, cell := range week {
			key := s.calendar.DateKey(cell.Date)
			hosts := hostsByDate[key]
			state := scheduling.ClassifyDay(cell.Date, now, eligibility, len(hosts) > 0)
			label, _ := s.calendar.Holidays.Label(cell.Date)

			day := DayView{
				Date:          key,
				InMonth:       cell.InMonth,
				State:         state,
				Interactive:   state.Interactive(),
				Holiday:       label,
				Hosts:         make([]HostView, 0, len(hosts)),
				NeedsMechanic: scheduling.NeedsMechanic(cell.Date, now, eligibility, hosts, roles),
			}
			for _, h := range hosts {
				hostKey := strings.ToLower(strings.TrimSpace(h))
				p := profiles[hostKey]
				day.Hosts = append(day.Hosts, HostView{Key: h, DisplayName: p.DisplayName, Role: p.Role})
				if hostKey == me {
					day.IsUserHost = true
				}
			}
			row = append(row, day)
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view, nil
}

type pendingChange struct {
	key    string
	action string
}

// Save adds the acting user to every date in add and removes them from every
// date in remove. Dates are applied one at a time; the first failure stops
// the run without undoing earlier dates.
func (s *shiftService) Save(ctx context.Context, identity model.Identity, add, remove []time.Time, now time.Time) (*SaveResult, error) {
	if strings.TrimSpace(identity.DisplayName) == "" {
		err := apperrors.Validation("Please set a display name in your profile before signing up for shifts", map[string]any{
			"fields": map[string]string{"display_name": "is required"},
		})
		err.Err = shifterrors.ErrMissingDisplayName
		return nil, err
	}

	eligibility := s.calendar.ShiftEligibility()
	pending := make([]pendingChange, 0, len(add)+len(remove))
	seen := make(map[string]string)
	collect := func(days []time.Time, action string) error {
		for _, d := range days {
			key := s.calendar.DateKey(d)
			if prev, ok := seen[key]; ok {
				if prev != action {
					return apperrors.InvalidInput("Date " + key + " is both added and removed")
				}
				continue
			}
			if !eligibility.IsEligible(d, now) {
				return apperrors.Validation("Date cannot be changed", map[string]any{
					"date":  key,
					"error": scheduling.ErrDateNotEligible.Error(),
				})
			}
			seen[key] = action
			pending = append(pending, pendingChange{key: key, action: action})
		}
		return nil
	}
	if err := collect(add, HostAdded); err != nil {
		return nil, err
	}
	if err := collect(remove, HostRemoved); err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, apperrors.InvalidInput("No dates selected")
	}

	host := HostKey(identity)
	result := &SaveResult{Changes: make([]HostChange, 0, len(pending))}
	for _, p := range pending {
		var err error
		if p.action == HostAdded {
			err = s.shifts.AddHost(ctx, p.key, host)
		} else {
			err = s.shifts.RemoveHost(ctx, p.key, host)
		}

		if errors.Is(err, shifterrors.ErrNotFound) {
			s.log.Warn("No shift for date, skipping", "date", p.key, "action", p.action, "uid", identity.UID)
			result.Skipped = append(result.Skipped, p.key)
			continue
		}
		if err != nil {
			s.log.Error("Failed to save shift",
				"date", p.key,
				"action", p.action,
				"applied", len(result.Changes),
				"error", err,
			)
			return result, apperrors.Internal("Failed to save shift for "+p.key, err)
		}

		change := HostChange{Date: p.key, Host: host, Action: p.action}
		result.Changes = append(result.Changes, change)
		s.publisher.Publish(ctx, events.Event{
			Type:  events.ShiftHostsChanged,
			Key:   p.key,
			Actor: identity.Email,
			Data:  change,
		})
	}

	s.log.Info("Shifts saved", "uid", identity.UID, "changes", len(result.Changes), "skipped", len(result.Skipped))
	return result, nil
}

// Seed creates an empty shift for every shift weekday between from and to,
// inclusive. Holidays are seeded too; they are simply never eligible.
func (s *shiftService) Seed(ctx context.Context, from, to time.Time) (*SeedResult, error) {
	start := s.calendar.StartOfDay(from)
	end := s.calendar.StartOfDay(to)
	if end.Before(start) {
		return nil, apperrors.InvalidInput("Seed range ends before it starts")
	}

	result := &SeedResult{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !s.calendar.ShiftDays[day.Weekday()] {
			continue
		}
		key := s.calendar.DateKey(day)
		created, err := s.shifts.Upsert(ctx, key)
		if err != nil {
			s.log.Error("Failed to seed shift", "date", key, "error", err)
			return result, apperrors.Internal("Failed to seed shift for "+key, err)
		}
		if created {
			result.Created++
		} else {
			result.Existing++
		}
	}

	s.log.Info("Shifts seeded",
		"from", s.calendar.DateKey(start),
		"to", s.calendar.DateKey(end),
		"created", result.Created,
		"existing", result.Existing,
	)
	return result, nil
}
