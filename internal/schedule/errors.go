package schedule

import "errors"

var (
	// ErrFormat reports a malformed "HH:MM" string.
	ErrFormat = errors.New("invalid time format")
	// ErrInvalidRange reports a zero-length or otherwise unusable window.
	ErrInvalidRange = errors.New("invalid time range")
)
