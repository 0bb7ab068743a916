package booking

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("booking not found")
	ErrForbidden   = errors.New("not allowed")
	ErrEngineer    = errors.New("fonico is not an engineer")
	ErrConflict    = errors.New("requested time is not available")
	ErrOverbooking = errors.New("overbooking constraint violation")
)
