package errors

import "errors"

var (
	ErrNotFound           = errors.New("shift not found")
	ErrMissingDisplayName = errors.New("display name is required to host a shift")
)
