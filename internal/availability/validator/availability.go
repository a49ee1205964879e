package validator

import (
	"bkhost/pkg/logger"
	"bkhost/pkg/validation"
)

// SaveRequest is the pending selection submitted from the availability
// screen. Confirmed lists the dates whose bookings the admin agreed to drop.
type SaveRequest struct {
	Dates     []string `json:"dates" validate:"required,min=1,max=93,dive,datetime=2006-01-02"`
	Confirmed []string `json:"confirmed" validate:"omitempty,max=93,dive,datetime=2006-01-02"`
}

type AvailabilityValidator struct {
	v *validation.Validator
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	return &AvailabilityValidator{v: validation.New(log)}
}

func (a *AvailabilityValidator) ValidateSave(req *SaveRequest) error {
	return a.v.Struct(req)
}
