// Package validation wraps go-playground/validator with the shop's custom
// tags and turns its errors into field/message pairs for API responses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bkhost/pkg/logger"
	"bkhost/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details is the shape placed under "details" in error responses.
func (v ValidationErrors) Details() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

// SelfServiceRoles are the roles a user may pick on their own profile.
var SelfServiceRoles = []string{model.RoleHost, model.RoleMechanic, model.RoleUnset}

type Validator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("role", validateRole); err != nil {
		log.Fatal("Failed to register 'role' validator", "error", err)
	}

	return &Validator{
		validate: v,
		logger:   log,
	}
}

func validateRole(fl validator.FieldLevel) bool {
	role := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	for _, r := range SelfServiceRoles {
		if role == r {
			return true
		}
	}
	return false
}

func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_unless":
			message = fmt.Sprintf("%s is required unless %s", err.Field(), strings.Replace(err.Param(), " ", " is ", 1))
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in %s format", err.Field(), "YYYY-MM-DD")
		case "role":
			message = fmt.Sprintf("%s must be one of %s", err.Field(), strings.Join(SelfServiceRoles, ", "))
		case "oneof":
			message = fmt.Sprintf("%s must be one of %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
