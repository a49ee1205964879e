package validator

import (
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
	"bkhost/pkg/validation"
)

// PresetAmounts are the quick-pick contributions on the intake form. Any
// other non-negative amount is accepted as "Other".
var PresetAmounts = []float64{5, 8}

type WalkInValidator struct {
	v *validation.Validator
}

func NewWalkInValidator(log *logger.Logger) *WalkInValidator {
	return &WalkInValidator{v: validation.New(log)}
}

func (w *WalkInValidator) ValidateCreate(req *model.WalkInRequest) error {
	return w.v.Struct(req)
}

func (w *WalkInValidator) ValidateUpdate(u *model.WalkInUpdate) error {
	return w.v.Struct(u)
}

func IsPresetAmount(amount float64) bool {
	for _, p := range PresetAmounts {
		if amount == p {
			return true
		}
	}
	return false
}
