package domain

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrStoreUnavailable = errors.New("store unavailable")
)
