package domain

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrConflictRetryExhausted = errors.New("too many serialization conflicts, retry later")
	ErrCatalogUnavailable     = errors.New("flight catalog unavailable")
	ErrTimeout                = errors.New("operation timed out")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorized           = errors.New("unauthorized")
)
