package errors

import "errors"

var (
	ErrConfirmationDeclined = errors.New("closing a date with appointments was not confirmed")
)
