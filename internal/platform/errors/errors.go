package apperrors

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid timer transition")
	ErrNoOpenSession     = errors.New("no open session")
	ErrOpenSessionExists = errors.New("open session already exists")
	ErrCorruptSnapshot   = errors.New("snapshot is corrupt")
	ErrNoActiveState     = errors.New("no active timer state")
)
