package scheduling

import "errors"

var (
	ErrDateNotEligible  = errors.New("date is not eligible")
	ErrUnknownAction    = errors.New("unknown appointment action")
	ErrActionNotAllowed = errors.New("action is not allowed in the appointment's current state")
	ErrLegacyReadOnly   = errors.New("legacy appointments are read-only")
)
