package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("history storage unavailable")
	ErrInvalidBackend     = errors.New("invalid history backend")
)
