package scheduling

import (
	"fmt"

	"bkhost/pkg/model"
)

type Regime string

const (
	RegimeLegacy  Regime = "legacy"
	RegimeCurrent Regime = "current"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
	StatusNoCure    Status = "no_cure"
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
)

type Action string

const (
	ActionComplete   Action = "complete"
	ActionNoShow     Action = "no_show"
	ActionNoCure     Action = "no_cure"
	ActionUndo       Action = "undo"
	ActionMarkPaid   Action = "mark_paid"
	ActionMarkUnpaid Action = "mark_unpaid"
	ActionDelete     Action = "delete"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionComplete, ActionNoShow, ActionNoCure, ActionUndo, ActionMarkPaid, ActionMarkUnpaid, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Classify is the only place the cutover instant is consulted.
func (c *Calendar) Classify(a model.Appointment) Regime {
	if a.CreatedAt.Before(c.Cutover) {
		return RegimeLegacy
	}
	return RegimeCurrent
}

// Status reads the regime's status fields. Legacy flags are not mutually
// exclusive in stored data, so completed wins over no-show over no-cure.
func (c *Calendar) Status(a model.Appointment) Status {
	if c.Classify(a) == RegimeLegacy {
		switch {
		case a.Completed:
			return StatusCompleted
		case a.NoShow:
			return StatusNoShow
		case a.NoCure:
			return StatusNoCure
		default:
			return StatusPending
		}
	}
	if a.Paid == 1 {
		return StatusPaid
	}
	return StatusUnpaid
}

func (c *Calendar) StatusLabel(a model.Appointment) string {
	switch c.Status(a) {
	case StatusCompleted:
		return "Completed"
	case StatusNoShow:
		return "No-show"
	case StatusNoCure:
		return "No-cure"
	case StatusPaid:
		if a.Member {
			return "Completed (Member)"
		}
		return "Paid"
	case StatusUnpaid:
		return "Unpaid"
	default:
		return "Pending"
	}
}

// Actions lists what staff may do with a in its current state. Delete is
// always offered.
func (c *Calendar) Actions(a model.Appointment) []Action {
	status := c.Status(a)
	var actions []Action

	if c.Classify(a) == RegimeLegacy {
		if !c.LegacyReadOnly {
			if status == StatusPending {
				actions = append(actions, ActionComplete, ActionNoShow, ActionNoCure)
			} else {
				actions = append(actions, ActionUndo)
			}
		}
	} else if status == StatusPaid {
		actions = append(actions, ActionMarkUnpaid)
	} else {
		actions = append(actions, ActionMarkPaid)
	}

	return append(actions, ActionDelete)
}

type TransitionResult struct {
	Appointment model.Appointment
	Regime      Regime
	From        Status
	To          Status
	Changed     bool

	// SendThankYou is set only on unpaid -> paid.
	SendThankYou bool
}

// Transition applies a status action to a copy of a. Deletion is not a
// status transition and is rejected here.
func (c *Calendar) Transition(a model.Appointment, action Action) (TransitionResult, error) {
	regime := c.Classify(a)
	from := c.Status(a)
	res := TransitionResult{Appointment: a, Regime: regime, From: from, To: from}

	switch regime {
	case RegimeLegacy:
		switch action {
		case ActionComplete, ActionNoShow, ActionNoCure, ActionUndo:
		default:
			return res, ErrActionNotAllowed
		}
		if c.LegacyReadOnly {
			return res, ErrLegacyReadOnly
		}
		if action == ActionUndo {
			if from == StatusPending {
				return res, ErrActionNotAllowed
			}
			res.Appointment.Completed, res.Appointment.NoShow, res.Appointment.NoCure = false, false, false
		} else {
			if from != StatusPending {
				return res, ErrActionNotAllowed
			}
			res.Appointment.Completed = action == ActionComplete
			res.Appointment.NoShow = action == ActionNoShow
			res.Appointment.NoCure = action == ActionNoCure
		}

	case RegimeCurrent:
		switch action {
		case ActionMarkPaid:
			res.Appointment.Paid = 1
			res.SendThankYou = from == StatusUnpaid
		case ActionMarkUnpaid:
			res.Appointment.Paid = 0
		default:
			return res, ErrActionNotAllowed
		}
	}

	res.To = c.Status(res.Appointment)
	res.Changed = res.To != from
	return res, nil
}
