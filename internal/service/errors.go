package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into
// the response envelope's error kinds.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrInvalidActivity = errors.New("invalid activity")
)
