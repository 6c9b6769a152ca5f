package core

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict: state changed, retry with fresh state")
	ErrInvalidTransition = errors.New("invalid transition")
)
