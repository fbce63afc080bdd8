package booking

import "errors"

var (
	ErrNotFound         = errors.New("reservation or place not found")
	ErrInvalidRange     = errors.New("invalid time range")
	ErrScheduleConflict = errors.New("schedule conflict")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("invalid reservation state")
)
