package validator

import (
	"bkhost/pkg/logger"
	"bkhost/pkg/model"
	"bkhost/pkg/validation"
)

type UserValidator struct {
	v *validation.Validator
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{v: validation.New(log)}
}

func (u *UserValidator) ValidateSignUp(req *model.SignUpRequest) error {
	return u.v.Struct(req)
}

func (u *UserValidator) ValidateSignIn(req *model.SignInRequest) error {
	return u.v.Struct(req)
}

func (u *UserValidator) ValidateProfileUpdate(update *model.ProfileUpdate) error {
	return u.v.Struct(update)
}
