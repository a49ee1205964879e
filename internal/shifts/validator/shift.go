package validator

import (
	"bkhost/pkg/logger"
	"bkhost/pkg/validation"
)

// SaveRequest carries the dates the acting user joins and leaves.
type SaveRequest struct {
	Add    []string `json:"add" validate:"omitempty,max=93,dive,datetime=2006-01-02"`
	Remove []string `json:"remove" validate:"omitempty,max=93,dive,datetime=2006-01-02"`
}

type ShiftValidator struct {
	v *validation.Validator
}

func NewShiftValidator(log *logger.Logger) *ShiftValidator {
	return &ShiftValidator{v: validation.New(log)}
}

func (s *ShiftValidator) ValidateSave(req *SaveRequest) error {
	return s.v.Struct(req)
}
