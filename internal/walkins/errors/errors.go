package errors

import "errors"

var (
	ErrNotFound = errors.New("walk-in not found")
)
